package cli

import (
	"context"
	"fmt"

	"github.com/existflow/daygrid/internal/app"
	"github.com/existflow/daygrid/internal/config"
	"github.com/existflow/daygrid/internal/session"
	"github.com/existflow/daygrid/internal/store"
	"github.com/existflow/daygrid/internal/suggest"
)

// Env is everything a command needs: the controller with a live target, the
// session manager, and the collaborators.
type Env struct {
	Config    *config.Config
	State     *app.State
	Session   *session.Manager
	Auth      *session.Client
	Suggester *suggest.Client

	local *store.Local
}

// bootstrap builds the application state for one command invocation:
// opens the guest store, restores any valid session, and loads from
// whichever target that lands on.
func bootstrap() (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	local, err := store.OpenLocalDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to open guest store: %w", err)
	}

	auth, err := session.NewClient(cfg.ServerURL)
	if err != nil {
		local.Close()
		return nil, err
	}

	state := app.New()
	mgr := session.NewManager(auth, state, local, cfg.ServerURL)
	mgr.Start(context.Background())
	// Remote loads run async; commands that print immediately want them done.
	state.Flush()

	return &Env{
		Config:    cfg,
		State:     state,
		Session:   mgr,
		Auth:      auth,
		Suggester: suggest.NewClient(cfg.SuggestAPIKey, cfg.SuggestModel),
		local:     local,
	}, nil
}

// Close drains pending writes and releases resources.
func (e *Env) Close() {
	e.State.Flush()
	e.Session.Close()
	_ = e.local.Close()
}
