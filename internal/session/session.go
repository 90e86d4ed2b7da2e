// Package session tracks whether a user is authenticated and swaps the
// active persistence target on every transition.
package session

import (
	"context"
	"sync"

	"github.com/existflow/daygrid/internal/app"
	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/model"
	"github.com/existflow/daygrid/internal/store"
)

// Identity is what the provider knows about a logged-in user: the profile
// plus the bearer token the remote target needs.
type Identity struct {
	User  model.User
	Token string
}

// Provider is the external identity collaborator. It reports session
// presence and profile fields, and notifies on changes.
type Provider interface {
	// Restore returns the current identity when a previously-established
	// session is still valid, or nil when there is none.
	Restore(ctx context.Context) (*Identity, error)

	// Subscribe registers a callback invoked on every auth change (nil
	// identity means logged out). The returned func unsubscribes.
	Subscribe(fn func(*Identity)) (unsubscribe func())
}

// Manager is a two-state machine: Anonymous or Authenticated. No
// intermediate "logging in" state, no retry on provider errors.
type Manager struct {
	provider  Provider
	state     *app.State
	local     store.Target
	serverURL string

	mu          sync.Mutex
	user        *model.User
	unsubscribe func()
}

// NewManager wires the session manager to the controller, the guest target,
// and the identity provider.
func NewManager(provider Provider, state *app.State, local store.Target, serverURL string) *Manager {
	return &Manager{
		provider:  provider,
		state:     state,
		local:     local,
		serverURL: serverURL,
	}
}

// Start restores any still-valid session, applies the resulting state, and
// subscribes to further changes. A provider error means staying Anonymous.
func (m *Manager) Start(ctx context.Context) {
	id, err := m.provider.Restore(ctx)
	if err != nil {
		logger.Warn("Session restore failed, staying anonymous", logger.F("error", err))
		id = nil
	}
	m.apply(id)

	m.mu.Lock()
	m.unsubscribe = m.provider.Subscribe(m.apply)
	m.mu.Unlock()
}

// apply performs the state transition for a new identity (nil = Anonymous).
func (m *Manager) apply(id *Identity) {
	if id == nil {
		m.mu.Lock()
		m.user = nil
		m.mu.Unlock()

		// Anonymous: reset to the seeded defaults and read the guest
		// store synchronously.
		m.state.ResetToDefaults()
		m.state.UseLocal(m.local)
		m.state.LoadAll(context.Background())
		logger.Info("Session: anonymous")
		return
	}

	user := id.User
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()

	// Authenticated: all loads and writes target the remote store, reads
	// happen off the caller's thread.
	m.state.UseRemote(store.NewRemote(m.serverURL, id.Token, id.User.ID))
	m.state.LoadAllAsync()
	logger.Info("Session: authenticated", logger.F("user", id.User.ID))
}

// User returns the authenticated user, or nil when Anonymous.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Authenticated reports whether a user is logged in.
func (m *Manager) Authenticated() bool {
	return m.User() != nil
}

// Close unsubscribes from provider notifications.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}
