package query

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/require"

	"github.com/userpulse/userpulse/user"
)

type fakeMetricsRepo struct {
	lastDays   int
	lastTopN   int
	lastSuffix string

	count    int
	top      []*user.User
	fraction float64
	err      error
}

func (f *fakeMetricsRepo) CountRegisteredWithin(_ context.Context, days int) (int, error) {
	f.lastDays = days
	return f.count, f.err
}

func (f *fakeMetricsRepo) TopByNameLength(_ context.Context, n int) ([]*user.User, error) {
	f.lastTopN = n
	return f.top, f.err
}

func (f *fakeMetricsRepo) FractionEmailEndingWith(_ context.Context, suffix string) (float64, error) {
	f.lastSuffix = suffix
	return f.fraction, f.err
}

func requireCategory(t *testing.T, err error, category goerrors.Category) {
	t.Helper()
	var gerr *goerrors.Error
	require.True(t, goerrors.As(err, &gerr))
	require.Equal(t, category, gerr.Category)
}

func TestRegistrationWindowQuery_DefaultsAndPassthrough(t *testing.T) {
	ctx := context.Background()
	repo := &fakeMetricsRepo{count: 11}
	q := NewRegistrationWindowQuery(repo, nil)

	count, err := q.Query(ctx, RegistrationWindowInput{})
	require.NoError(t, err)
	require.Equal(t, 11, count)
	require.Equal(t, defaultRegistrationWindowDays, repo.lastDays)

	_, err = q.Query(ctx, RegistrationWindowInput{LastDays: 30})
	require.NoError(t, err)
	require.Equal(t, 30, repo.lastDays)
}

func TestRegistrationWindowQuery_RejectsNegativeWindow(t *testing.T) {
	q := NewRegistrationWindowQuery(&fakeMetricsRepo{}, nil)

	_, err := q.Query(context.Background(), RegistrationWindowInput{LastDays: -1})
	require.Error(t, err)
	requireCategory(t, err, goerrors.CategoryValidation)
}

func TestRegistrationWindowQuery_WrapsRepositoryError(t *testing.T) {
	q := NewRegistrationWindowQuery(&fakeMetricsRepo{err: errors.New("boom")}, nil)

	_, err := q.Query(context.Background(), RegistrationWindowInput{LastDays: 7})
	require.Error(t, err)
	requireCategory(t, err, goerrors.CategoryInternal)
}

func TestLongestNamesQuery_DefaultsAndPassthrough(t *testing.T) {
	ctx := context.Background()
	repo := &fakeMetricsRepo{top: []*user.User{{ID: 1, Username: "alexandra"}}}
	q := NewLongestNamesQuery(repo, nil)

	users, err := q.Query(ctx, LongestNamesInput{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, defaultLongestNamesTop, repo.lastTopN)

	_, err = q.Query(ctx, LongestNamesInput{TopN: 3})
	require.NoError(t, err)
	require.Equal(t, 3, repo.lastTopN)
}

func TestLongestNamesQuery_RejectsNegativeTop(t *testing.T) {
	q := NewLongestNamesQuery(&fakeMetricsRepo{}, nil)

	_, err := q.Query(context.Background(), LongestNamesInput{TopN: -5})
	require.Error(t, err)
	requireCategory(t, err, goerrors.CategoryValidation)
}

func TestEmailDomainQuery_RequiresSuffix(t *testing.T) {
	q := NewEmailDomainQuery(&fakeMetricsRepo{}, nil)

	_, err := q.Query(context.Background(), EmailDomainInput{})
	require.Error(t, err)
	requireCategory(t, err, goerrors.CategoryValidation)
}

func TestEmailDomainQuery_Passthrough(t *testing.T) {
	repo := &fakeMetricsRepo{fraction: 0.25}
	q := NewEmailDomainQuery(repo, nil)

	fraction, err := q.Query(context.Background(), EmailDomainInput{Suffix: "@gmail.com"})
	require.NoError(t, err)
	require.InDelta(t, 0.25, fraction, 1e-9)
	require.Equal(t, "@gmail.com", repo.lastSuffix)
}
