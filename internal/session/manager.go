// Package session owns the sign-in lifecycle: account creation, session
// issue and teardown, and change notification for components that key state
// off the current identity.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"unicode"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"
)

// ErrWeakPassword rejects a signup before any store call is made.
var ErrWeakPassword = errors.New("password must be at least 8 characters and contain a letter and a digit")

// Listener observes session changes. A nil session means signed out.
type Listener func(session *models.Session)

// Store is the slice of the data layer the manager drives; store.Store
// satisfies it.
type Store interface {
	CreateUser(ctx context.Context, input store.SignUpInput) (models.User, error)
	Login(ctx context.Context, email, password string) (models.Session, error)
	GetSession(ctx context.Context, sessionID string) (models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

type Manager struct {
	store Store

	mu        sync.RWMutex
	listeners []Listener
	degraded  bool
}

func NewManager(st Store) *Manager {
	return &Manager{store: st}
}

// Initialize wires the manager against the store. Listener delivery is armed
// before the initial store probe, so a sign-in racing with startup is never
// missed. A failed probe leaves the manager usable but degraded.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.listeners == nil {
		m.listeners = []Listener{}
	}
	m.mu.Unlock()

	if err := m.store.Ping(ctx); err != nil {
		log.Printf("session initialize probe failed: %v", err)
		m.setDegraded(true)
		return nil
	}

	removed, err := m.store.DeleteExpiredSessions(ctx)
	if err != nil {
		log.Printf("session expiry sweep failed: %v", err)
		m.setDegraded(true)
		return nil
	}
	if removed > 0 {
		log.Printf("session expiry sweep removed=%d", removed)
	}
	m.setDegraded(false)
	return nil
}

// Degraded reports whether initialization hit an error the user has not yet
// recovered from via Reset.
func (m *Manager) Degraded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.degraded
}

func (m *Manager) setDegraded(value bool) {
	m.mu.Lock()
	m.degraded = value
	m.mu.Unlock()
}

// SignUp validates password strength locally, then creates the account and
// its profile row. Weak passwords never reach the store.
func (m *Manager) SignUp(ctx context.Context, email, password string) (models.User, error) {
	if !PasswordAcceptable(password) {
		return models.User{}, ErrWeakPassword
	}
	return m.store.CreateUser(ctx, store.SignUpInput{Email: email, Password: password})
}

func (m *Manager) SignIn(ctx context.Context, email, password string) (models.Session, error) {
	session, err := m.store.Login(ctx, email, password)
	if err != nil {
		return models.Session{}, err
	}
	m.notify(&session)
	return session, nil
}

// Current resolves an opaque token to its session. Expired or unknown tokens
// yield store.ErrSessionNotFound.
func (m *Manager) Current(ctx context.Context, token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, store.ErrSessionNotFound
	}
	return m.store.GetSession(ctx, token)
}

// SignOut deletes the session and notifies listeners with nil, so caches
// holding identity-derived state reset. Unknown tokens are a no-op.
func (m *Manager) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.DeleteSession(ctx, token); err != nil {
		return err
	}
	m.notify(nil)
	return nil
}

// Reset is the user-triggered recovery for degraded mode: sign out whatever
// token the client still holds, clear the flag, and re-probe.
func (m *Manager) Reset(ctx context.Context, token string) error {
	if token != "" {
		if err := m.store.DeleteSession(ctx, token); err != nil {
			log.Printf("session reset delete failed: %v", err)
		}
	}
	m.notify(nil)
	m.setDegraded(false)
	return m.Initialize(ctx)
}

// Subscribe registers a listener for session changes. Listeners registered
// before Initialize observe every transition.
func (m *Manager) Subscribe(listener Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

func (m *Manager) notify(session *models.Session) {
	m.mu.RLock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()
	for _, listener := range listeners {
		listener(session)
	}
}

// PasswordAcceptable enforces the signup strength rule: at least 8
// characters, at least one letter, at least one digit.
func PasswordAcceptable(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
