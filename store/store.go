// Package store implements the generic persistence base shared by every
// entity type. A Repo holds an explicit *bun.DB handle and a set of model
// handlers describing identity and projection for one entity, so concrete
// repositories embed it instead of inheriting hidden class-wide state.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/userpulse/userpulse/pkg/types"
)

// Pagination defaults. Negative page or per-page values clamp to these, and
// per-page saturates at MaxPerPage.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ModelHandlers adapts a concrete entity type to the generic repository:
// record construction, int64 identity access, and the ordered field list
// used for dictionary projection.
type ModelHandlers[T any] struct {
	NewRecord func() T
	GetID     func(T) int64
	SetID     func(T, int64)
	Fields    func(T) []Field
}

// Predicate is a textual SQL condition applied to select and delete queries.
type Predicate struct {
	expr string
	args []any
}

// Where builds a predicate from a SQL expression and its arguments.
func Where(expr string, args ...any) Predicate {
	return Predicate{expr: expr, args: args}
}

// Dependents is implemented by repositories whose rows are owned by another
// entity. A repo configured with a Dependents hook deletes owned rows inside
// the same transaction as the parent delete.
type Dependents interface {
	DeleteOwned(ctx context.Context, tx bun.Tx, parentIDs []int64) (int64, error)
}

// Repo provides transactional CRUD, projection, and pagination for one
// entity type. Every operation opens a short-lived statement scope against
// the injected DB and returns before the call completes; no session is held
// across calls.
type Repo[T any] struct {
	db         *bun.DB
	handlers   ModelHandlers[T]
	dependents Dependents
	logger     types.Logger
}

// Option configures optional repository collaborators.
type Option[T any] func(*Repo[T])

// WithLogger overrides the no-op default logger.
func WithLogger[T any](logger types.Logger) Option[T] {
	return func(r *Repo[T]) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDependents declares owned dependents removed ahead of parent rows
// during DeleteWhere.
func WithDependents[T any](dependents Dependents) Option[T] {
	return func(r *Repo[T]) { r.dependents = dependents }
}

// SetDependents wires the owned-dependents hook after construction. Needed
// when the parent and dependent repositories reference each other.
func (r *Repo[T]) SetDependents(dependents Dependents) { r.dependents = dependents }

// NewRepo constructs a repository bound to db for the entity described by
// handlers.
func NewRepo[T any](db *bun.DB, handlers ModelHandlers[T], opts ...Option[T]) *Repo[T] {
	r := &Repo[T]{
		db:       db,
		handlers: handlers,
		logger:   types.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DB exposes the underlying handle so embedding repositories can issue their
// own statements against the same engine.
func (r *Repo[T]) DB() *bun.DB { return r.db }

// Create inserts rec and refreshes its store-assigned identifier. A
// uniqueness or constraint rejection is reported as a wrapped ErrIntegrity,
// never as a raw driver error.
func (r *Repo[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	res, err := r.db.NewInsert().Model(rec).Exec(ctx)
	if err != nil {
		return zero, classify(err)
	}
	if r.handlers.GetID(rec) == 0 {
		if id, idErr := res.LastInsertId(); idErr == nil {
			r.handlers.SetID(rec, id)
		}
	}
	return rec, nil
}

// First returns the earliest-inserted entity matching every predicate, or
// the zero value when nothing matches. A malformed predicate is treated as
// not-found rather than propagated; the underlying error is logged.
func (r *Repo[T]) First(ctx context.Context, preds ...Predicate) (T, error) {
	var zero T
	rec := r.handlers.NewRecord()
	q := r.db.NewSelect().Model(rec)
	for _, p := range preds {
		q = q.Where(p.expr, p.args...)
	}
	if err := q.Order("id ASC").Limit(1).Scan(ctx); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return zero, cerr
		}
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug("store: first lookup failed", "error", err)
		}
		return zero, nil
	}
	return rec, nil
}

// Update persists every current field of rec, matched by primary key. The
// matched row count is not verified; updating a deleted row succeeds without
// writing anything.
func (r *Repo[T]) Update(ctx context.Context, rec T) (T, error) {
	var zero T
	if _, err := r.db.NewUpdate().Model(rec).WherePK().Exec(ctx); err != nil {
		return zero, classify(err)
	}
	return rec, nil
}

// DeleteWhere removes every row matching the predicates and reports whether
// at least one row was removed. Constraint rejections and malformed
// predicates yield false. With a Dependents hook configured, owned rows are
// removed first and both deletes share one transaction.
func (r *Repo[T]) DeleteWhere(ctx context.Context, preds ...Predicate) (bool, error) {
	if r.dependents != nil {
		return r.cascadeDelete(ctx, preds)
	}
	q := r.db.NewDelete().Model(r.handlers.NewRecord())
	for _, p := range preds {
		q = q.Where(p.expr, p.args...)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return false, cerr
		}
		r.logger.Debug("store: delete failed", "error", err)
		return false, nil
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *Repo[T]) cascadeDelete(ctx context.Context, preds []Predicate) (bool, error) {
	removed := false
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var ids []int64
		q := tx.NewSelect().Model(r.handlers.NewRecord()).Column("id")
		for _, p := range preds {
			q = q.Where(p.expr, p.args...)
		}
		if err := q.Scan(ctx, &ids); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if _, err := r.dependents.DeleteOwned(ctx, tx, ids); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model(r.handlers.NewRecord()).
			Where("id IN (?)", bun.In(ids)).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, _ := res.RowsAffected()
		removed = affected > 0
		return nil
	})
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return false, cerr
		}
		r.logger.Debug("store: cascade delete failed", "error", err)
		return false, nil
	}
	return removed, nil
}

// Count returns the number of rows matching the predicates.
func (r *Repo[T]) Count(ctx context.Context, preds ...Predicate) (int, error) {
	q := r.db.NewSelect().Model(r.handlers.NewRecord())
	for _, p := range preds {
		q = q.Where(p.expr, p.args...)
	}
	return q.Count(ctx)
}

// Paginate lists entities ordered by ascending identifier, skipping
// page*perPage rows and returning at most perPage. Pages are disjoint and
// their ordered union reproduces the full set. Out-of-range parameters are
// normalized: negative pages clamp to the first page, non-positive per-page
// falls back to DefaultPerPage, and per-page saturates at MaxPerPage.
func (r *Repo[T]) Paginate(ctx context.Context, p types.Pagination) ([]T, error) {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	recs := make([]T, 0, p.PerPage)
	err := r.db.NewSelect().
		Model(&recs).
		Order("id ASC").
		Offset(p.Page * p.PerPage).
		Limit(p.PerPage).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return recs, nil
}
