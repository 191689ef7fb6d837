// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/mensahub/mensad/internal/logging"
)

// DefaultInterval is how often the scheduler re-fetches the plan.
const DefaultInterval = 24 * time.Hour

// Scheduler runs a Fetcher on a fixed interval.
type Scheduler struct {
	fetcher  *Fetcher
	interval time.Duration
}

// NewScheduler returns a scheduler fetching every interval. interval <= 0
// selects DefaultInterval.
func NewScheduler(f *Fetcher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{fetcher: f, interval: interval}
}

// Interval returns the configured fetch interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run fetches once immediately, then on every interval tick until ctx is
// cancelled. It blocks.
func (s *Scheduler) Run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debugf("Fetch scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	plan, err := s.fetcher.Fetch(ctx)
	switch {
	case errors.Is(err, ErrUnchanged):
		logging.Infof("Meal plan unchanged")
	case errors.Is(err, context.Canceled):
	case err != nil:
		logging.Errorf("Scheduled fetch failed: %v", err)
	default:
		logging.Infof("Stored meal plan %s (%d days)", plan.Key(), len(plan.Days))
	}
}
