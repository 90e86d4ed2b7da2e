// Package app owns the in-memory category sequence and per-day todo map for
// the lifetime of a session. Every mutation applies in memory first, so the
// UI reflects intent immediately, then fires an asynchronous write against
// whichever persistence target the session manager has installed.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/model"
	"github.com/existflow/daygrid/internal/store"
	"github.com/google/uuid"
)

// State is the application state controller: the single in-memory source of
// truth, mediating all reads and writes through the active target.
type State struct {
	mu         sync.Mutex
	categories []model.Category
	todos      model.DayTodos
	target     store.Target
	remote     bool

	// Tracks fire-and-forget persistence writes so shutdown can drain
	// them. Does not serialize writes: two rapid writes for the same day
	// still race, last server-side write wins.
	writes sync.WaitGroup
}

// New creates a controller seeded with the default guest state. No target is
// installed yet; the session manager does that on startup.
func New() *State {
	return &State{
		categories: model.DefaultCategories(),
		todos:      model.DayTodos{},
	}
}

// UseLocal installs the guest target.
func (s *State) UseLocal(t store.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = t
	s.remote = false
}

// UseRemote installs the authenticated target.
func (s *State) UseRemote(t store.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = t
	s.remote = true
}

// ResetToDefaults restores the seeded category pair and clears all todos.
// Called on logout before the local target is reinstalled.
func (s *State) ResetToDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = model.DefaultCategories()
	s.todos = model.DayTodos{}
}

// Categories returns a copy of the category sequence in display order.
func (s *State) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// TodosForDay returns a copy of one day's list. Absent days are empty.
func (s *State) TodosForDay(dayKey string) []model.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.todos[dayKey]
	out := make([]model.TodoItem, len(items))
	copy(out, items)
	return out
}

// AllTodos returns a copy of the whole per-day map, for the calendar grid.
func (s *State) AllTodos() model.DayTodos {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(model.DayTodos, len(s.todos))
	for k, items := range s.todos {
		cp := make([]model.TodoItem, len(items))
		copy(cp, items)
		out[k] = cp
	}
	return out
}

// LoadAll populates in-memory state from the active target. Invoked once
// whenever the active target changes.
//
// Local: a missing category entry falls back to the seeded defaults.
// Remote: an empty category result keeps the current in-memory sequence, so
// a first-time user's seeded defaults survive their first login.
func (s *State) LoadAll(ctx context.Context) {
	s.mu.Lock()
	target := s.target
	remote := s.remote
	s.mu.Unlock()
	if target == nil {
		return
	}

	cats, err := target.LoadCategories(ctx)
	if err != nil {
		// Read failure leaves state at its prior value.
		logger.Error("Failed to load categories", logger.F("error", err))
	} else if len(cats) > 0 {
		s.mu.Lock()
		s.categories = cats
		s.mu.Unlock()
	} else if !remote {
		s.mu.Lock()
		s.categories = model.DefaultCategories()
		s.mu.Unlock()
	}

	todos, err := target.LoadTodos(ctx)
	if err != nil {
		logger.Error("Failed to load todos", logger.F("error", err))
	} else {
		if todos == nil {
			todos = model.DayTodos{}
		}
		s.mu.Lock()
		s.todos = todos
		s.mu.Unlock()
	}

	logger.Info("Loaded state", logger.F("remote", remote),
		logger.F("categories", len(s.Categories())), logger.F("days", len(s.AllTodos())))
}

// LoadAllAsync runs LoadAll in a tracked goroutine. Used for the remote
// target so login never blocks on the network.
func (s *State) LoadAllAsync() {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		s.LoadAll(context.Background())
	}()
}

// SetCategories replaces the in-memory sequence and fires a replace against
// the active target.
func (s *State) SetCategories(cats []model.Category) {
	s.mu.Lock()
	s.categories = make([]model.Category, len(cats))
	copy(s.categories, cats)
	target := s.target
	s.mu.Unlock()

	if target == nil {
		return
	}
	s.persist(func(ctx context.Context) error {
		return target.ReplaceCategories(ctx, cats)
	})
}

// SetDayTodos replaces one day's in-memory list, leaving other days
// untouched, and fires a replace against the active target.
func (s *State) SetDayTodos(dayKey string, items []model.TodoItem) {
	s.mu.Lock()
	cp := make([]model.TodoItem, len(items))
	copy(cp, items)
	if len(cp) == 0 {
		delete(s.todos, dayKey)
	} else {
		s.todos[dayKey] = cp
	}
	target := s.target
	s.mu.Unlock()

	if target == nil {
		return
	}
	s.persist(func(ctx context.Context) error {
		return target.ReplaceTodosForDay(ctx, dayKey, items)
	})
}

// persist runs a durable write in the background. Failures are logged and
// never propagate past the controller; the UI only ever sees the ambient
// syncing indicator.
func (s *State) persist(fn func(ctx context.Context) error) {
	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		if err := fn(context.Background()); err != nil {
			logger.Error("Persistence write failed", logger.F("error", err))
		}
	}()
}

// Flush waits for in-flight persistence writes. Called before process exit.
func (s *State) Flush() {
	s.writes.Wait()
}

// AddTodo validates and appends a todo to a day's list. Empty text after
// trimming is silently a no-op.
func (s *State) AddTodo(dayKey, text, categoryID string) bool {
	trimmed, ok := model.ValidText(text)
	if !ok {
		return false
	}
	if categoryID == "" {
		categoryID = model.DefaultCategoryID
	}

	items := s.TodosForDay(dayKey)
	items = append(items, model.TodoItem{
		ID:         uuid.New().String(),
		Text:       trimmed,
		Completed:  false,
		CreatedAt:  time.Now().UnixMilli(),
		CategoryID: categoryID,
	})
	s.SetDayTodos(dayKey, items)
	return true
}

// ToggleTodo flips one item's completed flag.
func (s *State) ToggleTodo(dayKey, id string) {
	items := s.TodosForDay(dayKey)
	for i := range items {
		if items[i].ID == id {
			items[i].Completed = !items[i].Completed
		}
	}
	s.SetDayTodos(dayKey, items)
}

// DeleteTodo removes one item from a day's list.
func (s *State) DeleteTodo(dayKey, id string) {
	items := s.TodosForDay(dayKey)
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	s.SetDayTodos(dayKey, out)
}

// AddCategory validates and appends a category. Color falls back through the
// palette by position.
func (s *State) AddCategory(name, color string) bool {
	trimmed, ok := model.ValidText(name)
	if !ok {
		return false
	}

	cats := s.Categories()
	if color == "" {
		color = model.PastelColors[len(cats)%len(model.PastelColors)]
	}
	cats = append(cats, model.Category{
		ID:    uuid.New().String(),
		Name:  trimmed,
		Color: color,
	})
	s.SetCategories(cats)
	return true
}

// RenameCategory updates one category's display name. Empty names are
// silently rejected; the sentinel is never editable.
func (s *State) RenameCategory(id, name string) bool {
	if id == model.DefaultCategoryID {
		return false
	}
	trimmed, ok := model.ValidText(name)
	if !ok {
		return false
	}

	cats := s.Categories()
	changed := false
	for i := range cats {
		if cats[i].ID == id {
			cats[i].Name = trimmed
			changed = true
		}
	}
	if changed {
		s.SetCategories(cats)
	}
	return changed
}

// DeleteCategory removes a category. Todos referencing it are left alone and
// resolve under the sentinel from then on.
func (s *State) DeleteCategory(id string) {
	if id == model.DefaultCategoryID {
		return
	}
	cats := s.Categories()
	out := cats[:0]
	for _, c := range cats {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.SetCategories(out)
}

// CountByCategory tallies one day's items per resolved category, for the
// month grid's per-tag badges. Danglers count under the sentinel.
func (s *State) CountByCategory(dayKey string) map[string]int {
	items := s.TodosForDay(dayKey)
	cats := s.Categories()
	counts := make(map[string]int)
	for _, it := range items {
		counts[model.ResolveCategory(cats, it.CategoryID).ID]++
	}
	return counts
}
