package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
	apperrors "github.com/ori-platform/ori-auth/internal/errors"
	"github.com/ori-platform/ori-auth/internal/ports"
)

// DefaultSessionTTL is used when IdentityServiceOptions.SessionTTL is zero.
const DefaultSessionTTL = 7 * 24 * time.Hour

// decoyPassword is hashed once and compared against on unknown emails so
// sign-in takes the same time whether or not the account exists.
const decoyPassword = "ori-auth-decoy-password"

// readyProbeEmail is looked up by Ready; a not-found result proves the store answers.
const readyProbeEmail = "readiness-probe@invalid"

// IdentityServiceOptions groups dependencies for IdentityService.
type IdentityServiceOptions struct {
	Users      ports.UserStore
	Sessions   ports.SessionStore
	Hasher     ports.PasswordHasher
	Tokens     ports.TokenSigner
	SessionTTL time.Duration
	// Now overrides the clock in tests.
	Now func() time.Time
}

// IdentityService implements ports.IdentityService on top of a user store,
// a session store, a password hasher and a token signer.
type IdentityService struct {
	users    ports.UserStore
	sessions ports.SessionStore
	hasher   ports.PasswordHasher
	tokens   ports.TokenSigner
	ttl      time.Duration
	now      func() time.Time

	decoyOnce sync.Once
	decoyHash string
}

var (
	_ ports.IdentityService  = (*IdentityService)(nil)
	_ ports.ReadinessChecker = (*IdentityService)(nil)
)

// NewIdentityService constructs an IdentityService. All stores and helpers are required.
func NewIdentityService(opts IdentityServiceOptions) (*IdentityService, error) {
	switch {
	case opts.Users == nil:
		return nil, errors.New("identity service: user store is required")
	case opts.Sessions == nil:
		return nil, errors.New("identity service: session store is required")
	case opts.Hasher == nil:
		return nil, errors.New("identity service: password hasher is required")
	case opts.Tokens == nil:
		return nil, errors.New("identity service: token signer is required")
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &IdentityService{
		users:    opts.Users,
		sessions: opts.Sessions,
		hasher:   opts.Hasher,
		tokens:   opts.Tokens,
		ttl:      ttl,
		now:      now,
	}, nil
}

// SignUpEmail registers a new account. The role must already be valid; the
// HTTP layer rejects administrator self-registration before this is reached.
func (s *IdentityService) SignUpEmail(ctx context.Context, in domainauth.SignUpInput) (*domainauth.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, apperrors.ValidationField("email", "email is required")
	}
	if in.Password == "" {
		return nil, apperrors.ValidationField("password", "password is required")
	}
	if len(in.Password) > domainauth.MaxPasswordBytes {
		return nil, errPasswordTooLong()
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.ValidationField("name", "name is required")
	}
	if !in.Role.Valid() {
		return nil, apperrors.ValidationField("role", fmt.Sprintf("invalid role %q", in.Role))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, errPasswordTooLong()
		}
		return nil, fmt.Errorf("sign up: %w", err)
	}

	now := s.now().UTC()
	user := domainauth.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		Role:      in.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, domainauth.Account{User: user, PasswordHash: hash}); err != nil {
		if apperrors.IsConflict(err) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConflict, "email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func errPasswordTooLong() error {
	return apperrors.ValidationField(
		"password",
		fmt.Sprintf("password must be at most %d bytes", domainauth.MaxPasswordBytes),
	)
}

// SignInEmail verifies credentials and persists a new session.
func (s *IdentityService) SignInEmail(
	ctx context.Context,
	email, password string,
	meta domainauth.RequestMeta,
) (*domainauth.SessionResult, error) {
	acct, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			_ = s.hasher.Compare(s.decoy(), password)
			return nil, apperrors.Unauthenticated("invalid email or password")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := s.hasher.Compare(acct.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthenticated("invalid email or password")
	}

	now := s.now().UTC()
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    acct.User.ID,
		ExpiresAt: now.Add(s.ttl),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
	}
	token, err := s.tokens.Sign(sess)
	if err != nil {
		return nil, err
	}
	sess.Token = token

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &domainauth.SessionResult{Session: sess, User: acct.User}, nil
}

// decoy returns a hash produced by the configured hasher, so comparing against
// it costs the same as comparing against a stored account hash.
func (s *IdentityService) decoy() string {
	s.decoyOnce.Do(func() {
		h, err := s.hasher.Hash(decoyPassword)
		if err == nil {
			s.decoyHash = h
		}
	})
	return s.decoyHash
}

// SignOut deletes the session referenced by the request token, if any.
func (s *IdentityService) SignOut(ctx context.Context, meta domainauth.RequestMeta) error {
	if meta.SessionToken == "" {
		return nil
	}
	id, err := s.tokens.Parse(meta.SessionToken)
	if err != nil {
		return nil //nolint:nilerr // an unreadable token has nothing to revoke
	}
	if err := s.sessions.Delete(ctx, id); err != nil && !apperrors.IsNotFound(err) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// GetSession resolves the request token to a live session and its user.
// Absent, malformed, unknown or expired tokens all yield (nil, nil).
func (s *IdentityService) GetSession(ctx context.Context, meta domainauth.RequestMeta) (*domainauth.SessionResult, error) {
	if meta.SessionToken == "" {
		return nil, nil
	}
	id, err := s.tokens.Parse(meta.SessionToken)
	if err != nil {
		return nil, nil //nolint:nilerr // invalid token means anonymous
	}

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.Expired(s.now()) {
		if delErr := s.sessions.Delete(ctx, id); delErr != nil && !apperrors.IsNotFound(delErr) {
			return nil, fmt.Errorf("delete expired session: %w", delErr)
		}
		return nil, nil
	}

	acct, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Owner was removed; the session is orphaned.
			_ = s.sessions.Delete(ctx, id)
			return nil, nil
		}
		return nil, fmt.Errorf("find session user: %w", err)
	}
	return &domainauth.SessionResult{Session: sess, User: acct.User}, nil
}

// Ready performs a cheap lookup to confirm the user store is reachable.
func (s *IdentityService) Ready(ctx context.Context) error {
	_, err := s.users.FindByEmail(ctx, readyProbeEmail)
	if err == nil || apperrors.IsNotFound(err) {
		return nil
	}
	return fmt.Errorf("user store not ready: %w", err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
