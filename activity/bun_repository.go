// Package activity persists user activity events and exposes the
// time-bucketed counts the trend predictor consumes.
package activity

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	"github.com/userpulse/userpulse/pkg/types"
	"github.com/userpulse/userpulse/store"
)

// Bucketing defaults: a fixed-width sliding approximation of a month, not a
// true calendar month.
const (
	DefaultMonths       = 12
	DefaultDaysPerMonth = 30
)

// ErrOwnerMissing reports a create whose user_id resolves to no stored user.
// Nothing is persisted in that case.
var ErrOwnerMissing = errors.New("activity: owning user does not exist")

// UserDirectory answers whether a user identifier resolves to a stored user.
// Implemented by the user repository; declared here so the two packages
// stay decoupled.
type UserDirectory interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// RepositoryConfig wires the Bun-backed activity repository.
type RepositoryConfig struct {
	DB     *bun.DB
	Users  UserDirectory
	Clock  types.Clock
	Logger types.Logger
}

// Repository persists activity events with a referential guard on insert.
type Repository struct {
	*store.Repo[*Activity]
	db    *bun.DB
	users UserDirectory
	clock types.Clock
}

// NewRepository constructs the default activity repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("activity: db required")
	}
	if cfg.Users == nil {
		return nil, errors.New("activity: user directory required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	opts := []store.Option[*Activity]{}
	if cfg.Logger != nil {
		opts = append(opts, store.WithLogger[*Activity](cfg.Logger))
	}
	return &Repository{
		Repo:  store.NewRepo(cfg.DB, Handlers(), opts...),
		db:    cfg.DB,
		users: cfg.Users,
		clock: clock,
	}, nil
}

var _ store.Dependents = (*Repository)(nil)

// Create verifies the owning user exists before inserting. A missing owner
// yields ErrOwnerMissing without touching storage.
func (r *Repository) Create(ctx context.Context, rec *Activity) (*Activity, error) {
	exists, err := r.users.ExistsByID(ctx, rec.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOwnerMissing
	}
	return r.Repo.Create(ctx, rec)
}

// CountByMonth produces months bucket counts for the user's events, index 0
// most recent. Bucket i covers (now-(i+1)*daysPerMonth, now-i*daysPerMonth]
// in days. Non-positive arguments fall back to the defaults.
func (r *Repository) CountByMonth(ctx context.Context, userID int64, months, daysPerMonth int) ([]int, error) {
	if months <= 0 {
		months = DefaultMonths
	}
	if daysPerMonth <= 0 {
		daysPerMonth = DefaultDaysPerMonth
	}
	now := r.clock.Now()
	counts := make([]int, months)
	for i := 0; i < months; i++ {
		upper := now.AddDate(0, 0, -i*daysPerMonth)
		lower := now.AddDate(0, 0, -(i+1)*daysPerMonth)
		n, err := r.db.NewSelect().
			Model((*Activity)(nil)).
			Where("user_id = ?", userID).
			Where("date > ?", lower).
			Where("date <= ?", upper).
			Count(ctx)
		if err != nil {
			return nil, err
		}
		counts[i] = n
	}
	return counts, nil
}

// DeleteOwned implements store.Dependents: it removes every event owned by
// the given users inside the caller's transaction, ahead of the user rows
// themselves.
func (r *Repository) DeleteOwned(ctx context.Context, tx bun.Tx, parentIDs []int64) (int64, error) {
	if len(parentIDs) == 0 {
		return 0, nil
	}
	res, err := tx.NewDelete().
		Model((*Activity)(nil)).
		Where("user_id IN (?)", bun.In(parentIDs)).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
