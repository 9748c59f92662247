package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/userpulse/userpulse/activity"
	"github.com/userpulse/userpulse/pkg/types"
	"github.com/userpulse/userpulse/trend"
)

// ActivityBuckets is the slice of the activity repository the trend query
// consumes.
type ActivityBuckets interface {
	CountByMonth(ctx context.Context, userID int64, months, daysPerMonth int) ([]int, error)
}

// ActivityTrendInput identifies the user and the bucket layout. Zero months
// or days fall back to the repository defaults (12 buckets of 30 days).
type ActivityTrendInput struct {
	UserID       int64
	Months       int
	DaysPerMonth int
}

// Type implements gocommand.Message.
func (ActivityTrendInput) Type() string { return "query.activity.trend" }

// Validate implements gocommand.Message.
func (input ActivityTrendInput) Validate() error {
	if input.UserID <= 0 {
		return goerrors.New("user id required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

// ActivityTrend is the computed read model: the bucket counts that fed the
// fit, the extrapolated next-period count, and the bounded probability.
type ActivityTrend struct {
	Buckets     []int   `json:"buckets"`
	Predicted   float64 `json:"predicted"`
	Probability float64 `json:"probability"`
}

// ActivityTrendQuery buckets a user's events and runs the trend predictor
// over them.
type ActivityTrendQuery struct {
	buckets ActivityBuckets
	users   activity.UserDirectory
	logger  types.Logger
}

// NewActivityTrendQuery constructs the query helper.
func NewActivityTrendQuery(buckets ActivityBuckets, users activity.UserDirectory, logger types.Logger) *ActivityTrendQuery {
	return &ActivityTrendQuery{buckets: buckets, users: users, logger: safeLogger(logger)}
}

var _ gocommand.Querier[ActivityTrendInput, ActivityTrend] = (*ActivityTrendQuery)(nil)

// Query verifies the user exists, buckets their events, and evaluates the
// predictor. Unknown users produce a not-found error.
func (q *ActivityTrendQuery) Query(ctx context.Context, input ActivityTrendInput) (ActivityTrend, error) {
	if err := input.Validate(); err != nil {
		return ActivityTrend{}, err
	}
	if q.users != nil {
		exists, err := q.users.ExistsByID(ctx, input.UserID)
		if err != nil {
			return ActivityTrend{}, goerrors.Wrap(err, goerrors.CategoryInternal, "user lookup failed").
				WithCode(goerrors.CodeInternal)
		}
		if !exists {
			return ActivityTrend{}, goerrors.New("no such user", goerrors.CategoryNotFound).
				WithCode(goerrors.CodeNotFound)
		}
	}
	counts, err := q.buckets.CountByMonth(ctx, input.UserID, input.Months, input.DaysPerMonth)
	if err != nil {
		return ActivityTrend{}, goerrors.Wrap(err, goerrors.CategoryInternal, "activity bucketing failed").
			WithCode(goerrors.CodeInternal)
	}
	predicted, err := trend.PredictNext(counts)
	if err != nil {
		return ActivityTrend{}, goerrors.Wrap(err, goerrors.CategoryValidation, "trend fit rejected input").
			WithCode(goerrors.CodeBadRequest)
	}
	probability, err := trend.ContinuedActivityProbability(counts)
	if err != nil {
		return ActivityTrend{}, goerrors.Wrap(err, goerrors.CategoryValidation, "trend fit rejected input").
			WithCode(goerrors.CodeBadRequest)
	}
	return ActivityTrend{
		Buckets:     counts,
		Predicted:   predicted,
		Probability: probability,
	}, nil
}
