package auth

// Package auth contains simple hand-written test doubles for identity ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
	apperrors "github.com/ori-platform/ori-auth/internal/errors"
	"github.com/ori-platform/ori-auth/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.UserStore      = (*MemoryUserStore)(nil)
	_ ports.SessionStore   = (*MemorySessionStore)(nil)
	_ ports.PasswordHasher = PlainHasher{}
	_ ports.StoreConn      = (*FakeConn)(nil)
)

// MemoryUserStore is an in-memory account store keyed by ID with a unique email index.
type MemoryUserStore struct {
	mu      sync.Mutex
	byID    map[string]domainauth.Account
	byEmail map[string]string

	// CreateErr, when set, is returned by Create instead of storing.
	CreateErr error
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]domainauth.Account),
		byEmail: make(map[string]string),
	}
}

func (m *MemoryUserStore) Create(_ context.Context, acct domainauth.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return m.CreateErr
	}
	email := strings.ToLower(acct.User.Email)
	if _, exists := m.byEmail[email]; exists {
		return apperrors.Conflict("A record with this value already exists")
	}
	m.byID[acct.User.ID] = acct
	m.byEmail[email] = acct.User.ID
	return nil
}

func (m *MemoryUserStore) FindByEmail(_ context.Context, email string) (domainauth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return domainauth.Account{}, apperrors.NotFound("user not found")
	}
	return m.byID[id], nil
}

func (m *MemoryUserStore) FindByID(_ context.Context, id string) (domainauth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.byID[id]
	if !ok {
		return domainauth.Account{}, apperrors.NotFound("user not found")
	}
	return acct, nil
}

// Len returns the number of stored accounts.
func (m *MemoryUserStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session

	// GetErr, when set, is returned by Get.
	GetErr error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return domainauth.Session{}, m.GetErr
	}
	sess, ok := m.sessions[id]
	if id == "" || !ok {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// PlainHasher "hashes" by prefixing, so tests stay fast and deterministic.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (PlainHasher) Compare(hash, password string) error {
	if hash != "plain:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

// FakeConn is a StoreConn that counts Close calls.
type FakeConn struct {
	closed atomic.Int32
}

func (c *FakeConn) Close(_ context.Context) error {
	c.closed.Add(1)
	return nil
}

// Closed returns how many times Close was called.
func (c *FakeConn) Closed() int { return int(c.closed.Load()) }
