package query

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/require"
)

type fakeBuckets struct {
	lastUserID int64
	lastMonths int
	lastDays   int

	counts []int
	err    error
}

func (f *fakeBuckets) CountByMonth(_ context.Context, userID int64, months, daysPerMonth int) ([]int, error) {
	f.lastUserID = userID
	f.lastMonths = months
	f.lastDays = daysPerMonth
	return f.counts, f.err
}

type fakeDirectory struct {
	exists bool
	err    error
}

func (f *fakeDirectory) ExistsByID(context.Context, int64) (bool, error) {
	return f.exists, f.err
}

func TestActivityTrendQuery_RequiresUserID(t *testing.T) {
	q := NewActivityTrendQuery(&fakeBuckets{}, &fakeDirectory{exists: true}, nil)

	_, err := q.Query(context.Background(), ActivityTrendInput{})
	require.Error(t, err)
	requireCategory(t, err, goerrors.CategoryValidation)
}

func TestActivityTrendQuery_UnknownUserIsNotFound(t *testing.T) {
	q := NewActivityTrendQuery(&fakeBuckets{}, &fakeDirectory{exists: false}, nil)

	_, err := q.Query(context.Background(), ActivityTrendInput{UserID: 7})
	require.Error(t, err)
	requireCategory(t, err, goerrors.CategoryNotFound)
}

func TestActivityTrendQuery_ComputesTrend(t *testing.T) {
	buckets := &fakeBuckets{counts: []int{4, 3, 2, 1}}
	q := NewActivityTrendQuery(buckets, &fakeDirectory{exists: true}, nil)

	got, err := q.Query(context.Background(), ActivityTrendInput{UserID: 7, Months: 4, DaysPerMonth: 30})
	require.NoError(t, err)
	require.Equal(t, []int{4, 3, 2, 1}, got.Buckets)
	require.InDelta(t, 0, got.Predicted, 1e-9)
	require.InDelta(t, 0, got.Probability, 1e-9)
	require.Equal(t, int64(7), buckets.lastUserID)
	require.Equal(t, 4, buckets.lastMonths)
	require.Equal(t, 30, buckets.lastDays)
}

func TestActivityTrendQuery_RisingTrendClampsProbability(t *testing.T) {
	buckets := &fakeBuckets{counts: []int{1, 2, 3, 4}}
	q := NewActivityTrendQuery(buckets, &fakeDirectory{exists: true}, nil)

	got, err := q.Query(context.Background(), ActivityTrendInput{UserID: 1})
	require.NoError(t, err)
	require.InDelta(t, 5, got.Predicted, 1e-9)
	require.InDelta(t, 1, got.Probability, 1e-9)
}

func TestActivityTrendQuery_WrapsBucketingError(t *testing.T) {
	q := NewActivityTrendQuery(&fakeBuckets{err: errors.New("boom")}, &fakeDirectory{exists: true}, nil)

	_, err := q.Query(context.Background(), ActivityTrendInput{UserID: 1})
	require.Error(t, err)
	requireCategory(t, err, goerrors.CategoryInternal)
}
