// Package mongo provides MongoDB-backed account and session stores.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	apperrors "github.com/ori-platform/ori-auth/internal/errors"
	"github.com/ori-platform/ori-auth/internal/ports"
)

const (
	usersCollection    = "users"
	sessionsCollection = "sessions"

	// DefaultDatabase is used when neither the URI path nor configuration names one.
	DefaultDatabase = "ori"
)

var _ ports.StoreConn = (*Conn)(nil)

// ConnectOptions configures Connect.
type ConnectOptions struct {
	URI      string
	Database string
	// Timeout bounds server selection and the initial ping.
	Timeout time.Duration
	// SkipIndexes disables index creation (check-only connections).
	SkipIndexes bool
}

// Conn is a live MongoDB client bound to one database.
type Conn struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB, pings the primary and ensures the collection indexes exist.
// The client is disconnected again if any step fails.
func Connect(ctx context.Context, opts ConnectOptions) (*Conn, error) {
	if opts.URI == "" {
		return nil, apperrors.Configuration("DATABASE_URL is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout).
		SetAppName("ori-auth")
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", apperrors.MapStoreError(err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping mongo: %w", apperrors.MapStoreError(err))
	}

	name := opts.Database
	if name == "" {
		name = DatabaseFromURI(opts.URI)
	}
	conn := &Conn{client: client, db: client.Database(name)}

	if !opts.SkipIndexes {
		if err := conn.EnsureIndexes(pingCtx); err != nil {
			_ = conn.Close(context.WithoutCancel(ctx))
			return nil, err
		}
	}
	return conn, nil
}

// EnsureIndexes creates the unique email index and the session expiry TTL index.
func (c *Conn) EnsureIndexes(ctx context.Context) error {
	_, err := c.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", apperrors.MapStoreError(err))
	}

	_, err = c.db.Collection(sessionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_ttl"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("user_id"),
		},
	})
	if err != nil {
		return fmt.Errorf("create sessions indexes: %w", apperrors.MapStoreError(err))
	}
	return nil
}

// Database returns the name of the bound database.
func (c *Conn) Database() string { return c.db.Name() }

// Users returns the account store backed by this connection.
func (c *Conn) Users() *UserStore { return &UserStore{coll: c.db.Collection(usersCollection)} }

// Sessions returns the session store backed by this connection.
func (c *Conn) Sessions() *SessionStore {
	return &SessionStore{coll: c.db.Collection(sessionsCollection), now: time.Now}
}

// Ping checks the primary is reachable.
func (c *Conn) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return apperrors.MapStoreError(err)
	}
	return nil
}

// ListDatabases returns the database names visible to the connected user.
func (c *Conn) ListDatabases(ctx context.Context) ([]string, error) {
	names, err := c.client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", apperrors.MapStoreError(err))
	}
	return names, nil
}

// Close disconnects the client. Closing twice is harmless.
func (c *Conn) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	if err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

// DatabaseFromURI extracts the database name from the URI path, or DefaultDatabase.
func DatabaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return DefaultDatabase
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return DefaultDatabase
	}
	return name
}

// RedactURI replaces any password in uri so it can be logged.
func RedactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<unparseable connection string>"
	}
	return u.Redacted()
}
