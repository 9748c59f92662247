// Package schema materializes the entity tables. Creation is an explicit
// one-time setup step run at process startup, before any repository call;
// there is no migration tooling, only CREATE TABLE IF NOT EXISTS over the
// registered models.
package schema

import (
	"context"
	"sync"

	"github.com/uptrace/bun"
)

type entry struct {
	model       any
	foreignKeys []string
}

var (
	mu      sync.RWMutex
	entries []entry
)

// RegisterModel records a bun model, with optional foreign key clauses, to
// be materialized by CreateAll. Safe for concurrent use.
func RegisterModel(model any, foreignKeys ...string) {
	if model == nil {
		return
	}
	mu.Lock()
	entries = append(entries, entry{model: model, foreignKeys: foreignKeys})
	mu.Unlock()
}

// Models returns the registered models in registration order.
func Models() []any {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e.model
	}
	return out
}

// CreateAll creates every registered table that does not exist yet, in
// registration order so referenced tables come first.
func CreateAll(ctx context.Context, db *bun.DB) error {
	mu.RLock()
	defer mu.RUnlock()
	for _, e := range entries {
		q := db.NewCreateTable().Model(e.model).IfNotExists()
		for _, fk := range e.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
