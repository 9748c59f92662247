// Package query exposes read-model facades over the repositories: input
// normalization, validation, and categorized errors live here so transports
// stay thin.
package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/userpulse/userpulse/pkg/types"
	"github.com/userpulse/userpulse/user"
)

const (
	defaultRegistrationWindowDays = 7
	defaultLongestNamesTop        = 5
)

// UserMetricsRepository is the slice of the user repository the metric
// queries consume.
type UserMetricsRepository interface {
	CountRegisteredWithin(ctx context.Context, days int) (int, error)
	TopByNameLength(ctx context.Context, n int) ([]*user.User, error)
	FractionEmailEndingWith(ctx context.Context, suffix string) (float64, error)
}

// RegistrationWindowInput selects the trailing window, in days. Zero falls
// back to the 7-day default.
type RegistrationWindowInput struct {
	LastDays int
}

// Type implements gocommand.Message.
func (RegistrationWindowInput) Type() string { return "query.user.registration_window" }

// Validate implements gocommand.Message.
func (input RegistrationWindowInput) Validate() error {
	if input.LastDays < 0 {
		return goerrors.New("last_n_days must not be negative", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

// RegistrationWindowQuery counts users registered within the trailing window.
type RegistrationWindowQuery struct {
	repo   UserMetricsRepository
	logger types.Logger
}

// NewRegistrationWindowQuery constructs the query helper.
func NewRegistrationWindowQuery(repo UserMetricsRepository, logger types.Logger) *RegistrationWindowQuery {
	return &RegistrationWindowQuery{repo: repo, logger: safeLogger(logger)}
}

var _ gocommand.Querier[RegistrationWindowInput, int] = (*RegistrationWindowQuery)(nil)

// Query returns the count after normalizing the window.
func (q *RegistrationWindowQuery) Query(ctx context.Context, input RegistrationWindowInput) (int, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}
	days := input.LastDays
	if days == 0 {
		days = defaultRegistrationWindowDays
	}
	count, err := q.repo.CountRegisteredWithin(ctx, days)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "registration window count failed").
			WithCode(goerrors.CodeInternal)
	}
	return count, nil
}

// LongestNamesInput selects how many users to return. Zero falls back to the
// top-5 default.
type LongestNamesInput struct {
	TopN int
}

// Type implements gocommand.Message.
func (LongestNamesInput) Type() string { return "query.user.longest_names" }

// Validate implements gocommand.Message.
func (input LongestNamesInput) Validate() error {
	if input.TopN < 0 {
		return goerrors.New("top_n must not be negative", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

// LongestNamesQuery lists the users with the longest usernames.
type LongestNamesQuery struct {
	repo   UserMetricsRepository
	logger types.Logger
}

// NewLongestNamesQuery constructs the query helper.
func NewLongestNamesQuery(repo UserMetricsRepository, logger types.Logger) *LongestNamesQuery {
	return &LongestNamesQuery{repo: repo, logger: safeLogger(logger)}
}

var _ gocommand.Querier[LongestNamesInput, []*user.User] = (*LongestNamesQuery)(nil)

// Query returns the top-n users, longest username first.
func (q *LongestNamesQuery) Query(ctx context.Context, input LongestNamesInput) ([]*user.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	n := input.TopN
	if n == 0 {
		n = defaultLongestNamesTop
	}
	users, err := q.repo.TopByNameLength(ctx, n)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "longest names lookup failed").
			WithCode(goerrors.CodeInternal)
	}
	return users, nil
}

// EmailDomainInput carries the literal suffix to match against user emails.
type EmailDomainInput struct {
	Suffix string
}

// Type implements gocommand.Message.
func (EmailDomainInput) Type() string { return "query.user.email_domain" }

// Validate implements gocommand.Message.
func (input EmailDomainInput) Validate() error {
	if input.Suffix == "" {
		return goerrors.New("domain suffix required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

// EmailDomainQuery computes the fraction of users whose email ends with the
// given suffix.
type EmailDomainQuery struct {
	repo   UserMetricsRepository
	logger types.Logger
}

// NewEmailDomainQuery constructs the query helper.
func NewEmailDomainQuery(repo UserMetricsRepository, logger types.Logger) *EmailDomainQuery {
	return &EmailDomainQuery{repo: repo, logger: safeLogger(logger)}
}

var _ gocommand.Querier[EmailDomainInput, float64] = (*EmailDomainQuery)(nil)

// Query returns the fraction in [0, 1]; 0 when no users are stored.
func (q *EmailDomainQuery) Query(ctx context.Context, input EmailDomainInput) (float64, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}
	fraction, err := q.repo.FractionEmailEndingWith(ctx, input.Suffix)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "email domain fraction failed").
			WithCode(goerrors.CodeInternal)
	}
	return fraction, nil
}

func safeLogger(logger types.Logger) types.Logger {
	if logger == nil {
		return types.NopLogger{}
	}
	return logger
}
