// Package service implements the application's use cases on top of a
// storage.Provider. Handlers in the HTTP API and the CLI commands call into a
// Service; they never talk to the store directly for writes.
//
// Every operation that counts as activity (logging energy, checking an anchor,
// completing a project step, capturing a thought) records it against the
// streak after its own write succeeds.
package service

import (
	"context"
	"time"

	"github.com/julianstephens/sanctuary/internal/constants"
	"github.com/julianstephens/sanctuary/internal/insights"
	"github.com/julianstephens/sanctuary/internal/logger"
	"github.com/julianstephens/sanctuary/internal/metrics"
	"github.com/julianstephens/sanctuary/internal/storage"
	"github.com/julianstephens/sanctuary/internal/utils"
)

type Service struct {
	store       storage.Provider
	clock       utils.Clock
	streaks     *insights.StreakTracker
	momentum    *insights.MomentumCalculator
	metrics     *metrics.Metrics
	patternDays int
}

type Option func(*Service)

// WithMetrics publishes domain counters to m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPatternDays sets the default look-back window for energy patterns
func WithPatternDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.patternDays = days
		}
	}
}

func New(store storage.Provider, clock utils.Clock, opts ...Option) *Service {
	s := &Service{
		store:       store,
		clock:       clock,
		streaks:     insights.NewStreakTracker(store, clock),
		momentum:    insights.NewMomentumCalculator(store, clock),
		patternDays: constants.DefaultPatternDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the underlying provider for read-only tooling such as doctor
func (s *Service) Store() storage.Provider {
	return s.store
}

// Clock returns the clock all local dates are derived from
func (s *Service) Clock() utils.Clock {
	return s.clock
}

func (s *Service) now() time.Time {
	return s.clock.Now().Truncate(time.Millisecond)
}

func (s *Service) location() *time.Location {
	return s.clock.Location()
}

func (s *Service) today() string {
	return utils.Today(s.clock)
}

func (s *Service) recordActivity(ctx context.Context, source string) error {
	streak, err := s.streaks.RecordActivity(ctx)
	if err != nil {
		logger.Error("Failed to record activity", "source", source, "error", err)
		return err
	}
	s.metrics.SetStreak(streak.CurrentStreak, streak.LongestStreak)
	return nil
}
