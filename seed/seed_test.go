package seed

import (
	"context"
	"database/sql"
	"math/rand"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/userpulse/userpulse/activity"
	"github.com/userpulse/userpulse/pkg/types"
	"github.com/userpulse/userpulse/user"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newTestSeeder(t *testing.T) (*Seeder, *user.Repository, *activity.Repository) {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})
	ctx := context.Background()
	_, err = db.NewCreateTable().Model((*user.User)(nil)).IfNotExists().Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewCreateTable().Model((*activity.Activity)(nil)).IfNotExists().Exec(ctx)
	require.NoError(t, err)

	clock := fixedClock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	users, err := user.NewRepository(user.RepositoryConfig{DB: db, Clock: clock})
	require.NoError(t, err)
	activities, err := activity.NewRepository(activity.RepositoryConfig{DB: db, Users: users, Clock: clock})
	require.NoError(t, err)

	return New(users, activities, clock, nil), users, activities
}

func TestSeeder_RunCreatesRequestedVolume(t *testing.T) {
	ctx := context.Background()
	seeder, users, activities := newTestSeeder(t)

	created, err := seeder.Run(ctx, Options{
		Users:                8,
		MaxActivitiesPerUser: 5,
		Rand:                 rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	require.Equal(t, 8, created)

	userCount, err := users.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 8, userCount)

	// Every user rolls at least one event and at most the cap.
	activityCount, err := activities.Count(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, activityCount, 8)
	require.LessOrEqual(t, activityCount, 8*5)
}

func TestSeeder_GeneratedRowsAreCoherent(t *testing.T) {
	ctx := context.Background()
	seeder, users, activities := newTestSeeder(t)

	_, err := seeder.Run(ctx, Options{
		Users:                5,
		MaxActivitiesPerUser: 3,
		Rand:                 rand.New(rand.NewSource(7)),
	})
	require.NoError(t, err)

	all, err := users.Paginate(ctx, types.Pagination{PerPage: 100})
	require.NoError(t, err)
	require.Len(t, all, 5)

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, u := range all {
		require.NotEmpty(t, u.Username)
		require.Contains(t, u.Email, "@")
		require.True(t, strings.Contains(u.Email, "."), "email %q has no domain", u.Email)
		require.True(t, u.RegistrationDate.Before(now))

		events, err := activities.Paginate(ctx, types.Pagination{PerPage: 100})
		require.NoError(t, err)
		for _, ev := range events {
			if ev.UserID != u.ID {
				continue
			}
			require.False(t, ev.Date.Before(u.RegistrationDate))
			require.False(t, ev.Date.After(now))
		}
	}
}
