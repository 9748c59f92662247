package user

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"github.com/userpulse/userpulse/pkg/types"
	"github.com/userpulse/userpulse/store"
)

// RepositoryConfig wires the Bun-backed user repository.
type RepositoryConfig struct {
	DB *bun.DB
	// Dependents removes rows owned by users (activity events) inside the
	// same transaction as a user delete. Usually wired after construction
	// via SetDependents because the two repositories reference each other.
	Dependents store.Dependents
	Clock      types.Clock
	Logger     types.Logger
}

// Repository persists users and answers the aggregate metric queries.
type Repository struct {
	*store.Repo[*User]
	db    *bun.DB
	clock types.Clock
}

// NewRepository constructs the default user repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("user: db required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	opts := []store.Option[*User]{}
	if cfg.Logger != nil {
		opts = append(opts, store.WithLogger[*User](cfg.Logger))
	}
	if cfg.Dependents != nil {
		opts = append(opts, store.WithDependents[*User](cfg.Dependents))
	}
	return &Repository{
		Repo:  store.NewRepo(cfg.DB, Handlers(), opts...),
		db:    cfg.DB,
		clock: clock,
	}, nil
}

// CountRegisteredWithin counts users whose registration date falls inside
// [now-days, now], inclusive on both ends.
func (r *Repository) CountRegisteredWithin(ctx context.Context, days int) (int, error) {
	now := r.clock.Now()
	since := now.AddDate(0, 0, -days)
	return r.db.NewSelect().
		Model((*User)(nil)).
		Where("registration_date >= ?", since).
		Where("registration_date <= ?", now).
		Count(ctx)
}

// TopByNameLength returns the n users with the longest usernames, longest
// first, ties broken by ascending identifier.
func (r *Repository) TopByNameLength(ctx context.Context, n int) ([]*User, error) {
	if n <= 0 {
		return []*User{}, nil
	}
	var users []*User
	err := r.db.NewSelect().
		Model(&users).
		OrderExpr("LENGTH(username) DESC").
		Order("id ASC").
		Limit(n).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FractionEmailEndingWith returns the share of users whose email ends with
// suffix, in [0, 1]. An empty table yields 0.
func (r *Repository) FractionEmailEndingWith(ctx context.Context, suffix string) (float64, error) {
	total, err := r.db.NewSelect().Model((*User)(nil)).Count(ctx)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	matched, err := r.db.NewSelect().
		Model((*User)(nil)).
		Where(`email LIKE ? ESCAPE '\'`, "%"+escapeLike(suffix)).
		Count(ctx)
	if err != nil {
		return 0, err
	}
	return float64(matched) / float64(total), nil
}

// ExistsByID reports whether a user with the given identifier is stored. It
// is the referential guard consulted before activity inserts.
func (r *Repository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.db.NewSelect().
		Model((*User)(nil)).
		Where("id = ?", id).
		Exists(ctx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards so a suffix matches literally.
func escapeLike(s string) string { return likeEscaper.Replace(s) }
