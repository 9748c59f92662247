package activity

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/userpulse/userpulse/store"
	"github.com/userpulse/userpulse/user"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newTestDB(t *testing.T) *bun.DB {
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
	_, err = db.NewCreateTable().Model((*Activity)(nil)).IfNotExists().Exec(ctx)
	require.NoError(t, err)
	return db
}

func newTestRepositories(t *testing.T, clock fixedClock) (*user.Repository, *Repository) {
	t.Helper()
	db := newTestDB(t)
	users, err := user.NewRepository(user.RepositoryConfig{DB: db, Clock: clock})
	require.NoError(t, err)
	activities, err := NewRepository(RepositoryConfig{DB: db, Users: users, Clock: clock})
	require.NoError(t, err)
	users.SetDependents(activities)
	return users, activities
}

func createUser(t *testing.T, users *user.Repository, now time.Time) *user.User {
	t.Helper()
	u, err := users.Create(context.Background(), &user.User{
		Username:         "owner",
		Email:            "owner@example.com",
		RegistrationDate: now.AddDate(0, -6, 0),
	})
	require.NoError(t, err)
	return u
}

func TestRepository_CreateRequiresOwner(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	_, activities := newTestRepositories(t, fixedClock{now: now})

	_, err := activities.Create(ctx, &Activity{UserID: 999, Date: now})
	require.ErrorIs(t, err, ErrOwnerMissing)

	count, err := activities.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestRepository_CreatePersistsForKnownOwner(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	users, activities := newTestRepositories(t, fixedClock{now: now})
	owner := createUser(t, users, now)

	created, err := activities.Create(ctx, &Activity{UserID: owner.ID, Date: now})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
}

func TestRepository_CountByMonthBuckets(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	users, activities := newTestRepositories(t, fixedClock{now: now})
	owner := createUser(t, users, now)

	// 10 days back lands in the most recent 30-day bucket, 40 days back in
	// the one before it.
	for _, daysAgo := range []int{10, 40} {
		_, err := activities.Create(ctx, &Activity{
			UserID: owner.ID,
			Date:   now.AddDate(0, 0, -daysAgo),
		})
		require.NoError(t, err)
	}

	counts, err := activities.CountByMonth(ctx, owner.ID, 2, 30)
	require.NoError(t, err)
	require.Equal(t, []int{1, 1}, counts)

	counts, err = activities.CountByMonth(ctx, owner.ID, 1, 30)
	require.NoError(t, err)
	require.Equal(t, []int{1}, counts)

	// Events from another user never leak into the buckets.
	counts, err = activities.CountByMonth(ctx, owner.ID+1, 2, 30)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0}, counts)
}

func TestRepository_CountByMonthDefaults(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	users, activities := newTestRepositories(t, fixedClock{now: now})
	owner := createUser(t, users, now)

	counts, err := activities.CountByMonth(ctx, owner.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, counts, DefaultMonths)
}

func TestRepository_UserDeleteCascadesIntoActivities(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	users, activities := newTestRepositories(t, fixedClock{now: now})
	owner := createUser(t, users, now)

	other, err := users.Create(ctx, &user.User{
		Username:         "bystander",
		Email:            "bystander@example.com",
		RegistrationDate: now.AddDate(0, -3, 0),
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := activities.Create(ctx, &Activity{UserID: owner.ID, Date: now.AddDate(0, 0, -i)})
		require.NoError(t, err)
	}
	_, err = activities.Create(ctx, &Activity{UserID: other.ID, Date: now})
	require.NoError(t, err)

	removed, err := users.DeleteWhere(ctx, store.Where("id = ?", owner.ID))
	require.NoError(t, err)
	require.True(t, removed)

	orphaned, err := activities.Count(ctx, store.Where("user_id = ?", owner.ID))
	require.NoError(t, err)
	require.Zero(t, orphaned)

	kept, err := activities.Count(ctx, store.Where("user_id = ?", other.ID))
	require.NoError(t, err)
	require.Equal(t, 1, kept)
}
