// Package store abstracts where categories and todos live: a local on-disk
// guest store, or the remote owner-scoped backend. Both targets expose the
// same load/replace operation set; every replace makes the durable set
// exactly the given sequence.
package store

import (
	"context"
	"sync/atomic"

	"github.com/existflow/daygrid/internal/model"
)

// Target is a persistence backend. The controller picks one based on
// session state and mediates every read and write through it.
type Target interface {
	LoadCategories(ctx context.Context) ([]model.Category, error)
	LoadTodos(ctx context.Context) (model.DayTodos, error)

	// ReplaceCategories makes the stored category set exactly cats.
	ReplaceCategories(ctx context.Context, cats []model.Category) error

	// ReplaceTodosForDay makes the stored list for dayKey exactly items,
	// leaving other days untouched.
	ReplaceTodosForDay(ctx context.Context, dayKey string, items []model.TodoItem) error
}

// syncing counts in-flight remote writes. It is a best-effort UI signal
// only and has no effect on correctness.
var syncing atomic.Int32

func beginSyncing() { syncing.Add(1) }
func endSyncing()   { syncing.Add(-1) }

// Syncing reports whether any remote persistence call is in flight.
func Syncing() bool {
	return syncing.Load() > 0
}
