// Package identity owns the process-wide handle to the identity service.
//
// The Gateway connects lazily on first use, shares one handle between all
// callers and releases it on Close. A later call after Close connects again.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
	apperrors "github.com/ori-platform/ori-auth/internal/errors"
	"github.com/ori-platform/ori-auth/internal/ports"
)

// DialFunc opens a connection to the backing store.
type DialFunc func(ctx context.Context, uri, database string) (ports.StoreConn, error)

// FactoryFunc builds an identity service bound to conn.
type FactoryFunc func(ctx context.Context, conn ports.StoreConn) (ports.IdentityService, error)

// Config groups Gateway dependencies.
type Config struct {
	// URI is the store connection string. Empty is reported on first use.
	URI      string
	Database string
	Dial     DialFunc
	Factory  FactoryFunc
	Logger   *slog.Logger
}

// Handle is a live connection together with the identity API bound to it.
type Handle struct {
	Conn    ports.StoreConn
	Service ports.IdentityService
}

// Gateway hands out a shared Handle and wraps identity calls.
type Gateway struct {
	cfg    Config
	logger *slog.Logger

	group singleflight.Group

	mu     sync.Mutex
	handle *Handle
	// gen is bumped by Close so an init that races a Close does not publish a stale handle.
	gen uint64

	// beforeInit runs between the fast path and the shared init in tests.
	beforeInit func()
}

var _ ports.IdentityService = (*Gateway)(nil)

const initKey = "identity"

// NewGateway constructs a Gateway. No connection is made until Handle is called.
func NewGateway(cfg Config) *Gateway {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{cfg: cfg, logger: logger.With("component", "identity_gateway")}
}

// Handle returns the shared handle, connecting on first use. Concurrent
// callers during the first connection share its result.
func (g *Gateway) Handle(ctx context.Context) (*Handle, error) {
	g.mu.Lock()
	if h := g.handle; h != nil {
		g.mu.Unlock()
		return h, nil
	}
	g.mu.Unlock()

	if g.beforeInit != nil {
		g.beforeInit()
	}

	v, err, _ := g.group.Do(initKey, func() (any, error) {
		g.mu.Lock()
		if h := g.handle; h != nil {
			g.mu.Unlock()
			return h, nil
		}
		// Only a Close after this point can invalidate this connect.
		gen := g.gen
		g.mu.Unlock()

		h, err := g.connect(ctx)
		if err != nil {
			return nil, err
		}

		g.mu.Lock()
		defer g.mu.Unlock()
		if g.gen != gen {
			// Closed while connecting.
			_ = h.Conn.Close(context.WithoutCancel(ctx))
			return nil, apperrors.Initialization(errors.New("gateway closed during initialization"), "identity service unavailable")
		}
		g.handle = h
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Handle), nil
}

func (g *Gateway) connect(ctx context.Context) (*Handle, error) {
	if g.cfg.URI == "" {
		return nil, apperrors.Configuration("DATABASE_URL is required to reach the identity store")
	}
	if g.cfg.Dial == nil || g.cfg.Factory == nil {
		return nil, apperrors.Configuration("identity gateway is missing its dialer or service factory")
	}

	conn, err := g.cfg.Dial(ctx, g.cfg.URI, g.cfg.Database)
	if err != nil {
		if apperrors.IsConfiguration(err) {
			return nil, err
		}
		return nil, apperrors.Initialization(err, "connect identity store")
	}

	svc, err := g.cfg.Factory(ctx, conn)
	if err == nil && svc == nil {
		err = errors.New("service factory returned no service")
	}
	if err == nil {
		if rc, ok := svc.(ports.ReadinessChecker); ok {
			err = rc.Ready(ctx)
		}
	}
	if err != nil {
		if cerr := conn.Close(context.WithoutCancel(ctx)); cerr != nil {
			g.logger.WarnContext(ctx, "failed to close store after init failure", "error", cerr)
		}
		return nil, apperrors.Initialization(err, "identity service failed to initialize")
	}

	g.logger.InfoContext(ctx, "identity service connected", "database", g.cfg.Database)
	return &Handle{Conn: conn, Service: svc}, nil
}

// Close releases the live handle, if any. It is safe to call repeatedly.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	h := g.handle
	g.handle = nil
	g.gen++
	g.mu.Unlock()

	if h == nil {
		return nil
	}
	if err := h.Conn.Close(ctx); err != nil {
		return err
	}
	g.logger.InfoContext(ctx, "identity service disconnected")
	return nil
}

// SignUpEmail registers an account through the identity service.
func (g *Gateway) SignUpEmail(ctx context.Context, in domainauth.SignUpInput) (*domainauth.User, error) {
	h, err := g.Handle(ctx)
	if err != nil {
		return nil, err
	}
	u, err := h.Service.SignUpEmail(ctx, in)
	return u, apperrors.IdentityProvider(err, "sign up")
}

// SignInEmail verifies credentials and issues a session.
func (g *Gateway) SignInEmail(
	ctx context.Context,
	email, password string,
	meta domainauth.RequestMeta,
) (*domainauth.SessionResult, error) {
	h, err := g.Handle(ctx)
	if err != nil {
		return nil, err
	}
	res, err := h.Service.SignInEmail(ctx, email, password, meta)
	return res, apperrors.IdentityProvider(err, "sign in")
}

// SignOut revokes the request's session.
func (g *Gateway) SignOut(ctx context.Context, meta domainauth.RequestMeta) error {
	h, err := g.Handle(ctx)
	if err != nil {
		return err
	}
	return apperrors.IdentityProvider(h.Service.SignOut(ctx, meta), "sign out")
}

// GetSession resolves the request's session; (nil, nil) means anonymous.
func (g *Gateway) GetSession(ctx context.Context, meta domainauth.RequestMeta) (*domainauth.SessionResult, error) {
	h, err := g.Handle(ctx)
	if err != nil {
		return nil, err
	}
	res, err := h.Service.GetSession(ctx, meta)
	return res, apperrors.IdentityProvider(err, "get session")
}
