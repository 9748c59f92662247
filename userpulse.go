// Package userpulse wires the user and activity repositories and the
// read-model queries over one injected bun.DB handle. Hosts construct a
// Service once at startup and hand it to their transport layer.
package userpulse

import (
	"errors"

	"github.com/uptrace/bun"

	"github.com/userpulse/userpulse/activity"
	"github.com/userpulse/userpulse/pkg/types"
	"github.com/userpulse/userpulse/query"
	"github.com/userpulse/userpulse/user"
)

// Config captures the dependencies callers provide: the storage handle is
// required, clock and logger default to the system clock and a no-op logger.
type Config struct {
	DB     *bun.DB
	Clock  types.Clock
	Logger types.Logger
}

// Queries exposes the read-model helpers.
type Queries struct {
	LastRegistered *query.RegistrationWindowQuery
	LongestNames   *query.LongestNamesQuery
	EmailDomain    *query.EmailDomainQuery
	ActivityTrend  *query.ActivityTrendQuery
}

// Service is the entry point: repositories plus query facades sharing one
// storage engine.
type Service struct {
	Users      *user.Repository
	Activities *activity.Repository
	queries    Queries
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) (*Service, error) {
	if cfg.DB == nil {
		return nil, errors.New("userpulse: db required")
	}
	users, err := user.NewRepository(user.RepositoryConfig{
		DB:     cfg.DB,
		Clock:  cfg.Clock,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	activities, err := activity.NewRepository(activity.RepositoryConfig{
		DB:     cfg.DB,
		Users:  users,
		Clock:  cfg.Clock,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	// Deleting a user cascades into their activities within one transaction.
	users.SetDependents(activities)

	return &Service{
		Users:      users,
		Activities: activities,
		queries: Queries{
			LastRegistered: query.NewRegistrationWindowQuery(users, cfg.Logger),
			LongestNames:   query.NewLongestNamesQuery(users, cfg.Logger),
			EmailDomain:    query.NewEmailDomainQuery(users, cfg.Logger),
			ActivityTrend:  query.NewActivityTrendQuery(activities, users, cfg.Logger),
		},
	}, nil
}

// Queries returns the query facade.
func (s *Service) Queries() Queries { return s.queries }
