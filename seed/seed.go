// Package seed generates synthetic users and activity events for
// development and load experiments. Not intended for production data.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/userpulse/userpulse/activity"
	"github.com/userpulse/userpulse/pkg/types"
	"github.com/userpulse/userpulse/user"
)

var emailDomains = []string{"gmail.com", "yandex.ru", "yahoo.com", "mail.ru", "bing.com"}

// Options bound the generated volume.
type Options struct {
	// Users is the number of users to create. Defaults to 50.
	Users int
	// MaxActivitiesPerUser caps the 1..max events rolled per user.
	// Defaults to 100.
	MaxActivitiesPerUser int
	// Rand allows a deterministic source in tests; defaults to a
	// time-seeded one.
	Rand *rand.Rand
}

// Seeder persists generated fixtures through the real repositories so every
// referential guard runs.
type Seeder struct {
	users      *user.Repository
	activities *activity.Repository
	clock      types.Clock
	logger     types.Logger
}

// New constructs a Seeder.
func New(users *user.Repository, activities *activity.Repository, clock types.Clock, logger types.Logger) *Seeder {
	if clock == nil {
		clock = types.SystemClock{}
	}
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Seeder{users: users, activities: activities, clock: clock, logger: logger}
}

// Run inserts the requested volume and returns how many users were created.
func (s *Seeder) Run(ctx context.Context, opts Options) (int, error) {
	if opts.Users <= 0 {
		opts.Users = 50
	}
	if opts.MaxActivitiesPerUser <= 0 {
		opts.MaxActivitiesPerUser = 100
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	created := 0
	for i := 0; i < opts.Users; i++ {
		u, err := s.users.Create(ctx, s.randomUser(rng))
		if err != nil {
			return created, fmt.Errorf("seed: user %d: %w", i, err)
		}
		events := 1 + rng.Intn(opts.MaxActivitiesPerUser)
		for j := 0; j < events; j++ {
			if _, err := s.activities.Create(ctx, s.randomActivity(rng, u)); err != nil {
				return created, fmt.Errorf("seed: activity for user %d: %w", u.ID, err)
			}
		}
		created++
		s.logger.Debug("seed: user created", "id", u.ID, "username", u.Username, "events", events)
	}
	return created, nil
}

// randomUser builds a user registered 90 days to two years back. Most emails
// come from a real-provider pool, the rest are vanity domains.
func (s *Seeder) randomUser(rng *rand.Rand) *user.User {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	local := strings.ToLower(first) + last + fmt.Sprint(1960+rng.Intn(51))

	var domain string
	if rng.Float64() < 0.8 {
		domain = emailDomains[rng.Intn(len(emailDomains))]
	} else {
		tlds := []string{".ru", ".com"}
		domain = strings.ToLower(first) + tlds[rng.Intn(len(tlds))]
	}

	registered := s.clock.Now().
		AddDate(0, 0, -(90 + rng.Intn(365*2-90))).
		Add(-time.Duration(rng.Intn(24*3600)) * time.Second)

	return &user.User{
		Username:         first,
		Email:            local + "@" + domain,
		RegistrationDate: registered,
	}
}

// randomActivity dates the event uniformly inside [registration, now].
func (s *Seeder) randomActivity(rng *rand.Rand, owner *user.User) *activity.Activity {
	window := int(s.clock.Now().Sub(owner.RegistrationDate) / time.Second)
	if window < 1 {
		window = 1
	}
	return &activity.Activity{
		UserID: owner.ID,
		Date:   owner.RegistrationDate.Add(time.Duration(rng.Intn(window)) * time.Second),
	}
}
