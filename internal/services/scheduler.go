package services

import (
	"time"

	"github.com/spinwin/giveaway-backend/internal/models"
)

// DrawScheduler derives the countdown state of a draw window. It is a pure
// function of the window's deadline against the clock: it signals urgency and
// dueness but never triggers a draw itself, so timing policy stays decoupled
// from execution policy.
type DrawScheduler struct {
	urgencyThreshold time.Duration
	now              func() time.Time
}

// NewDrawScheduler creates a scheduler with the given urgency threshold
func NewDrawScheduler(urgencyThreshold time.Duration) *DrawScheduler {
	return &DrawScheduler{
		urgencyThreshold: urgencyThreshold,
		now:              time.Now,
	}
}

// Remaining returns the time left until the window's deadline; zero or
// negative once due.
func (s *DrawScheduler) Remaining(window *models.DrawWindow) time.Duration {
	return window.Deadline().Sub(s.now())
}

// Status recomputes the window's countdown state. Completed windows keep
// their terminal status.
func (s *DrawScheduler) Status(window *models.DrawWindow) models.DrawStatus {
	if window.Status == models.DrawStatusCompleted {
		return models.DrawStatusCompleted
	}
	remaining := s.Remaining(window)
	switch {
	case remaining <= 0:
		return models.DrawStatusDue
	case remaining < s.urgencyThreshold:
		return models.DrawStatusUrgent
	default:
		return models.DrawStatusPending
	}
}

// IsUrgent reports whether the deadline is closer than the urgency threshold
func (s *DrawScheduler) IsUrgent(window *models.DrawWindow) bool {
	remaining := s.Remaining(window)
	return remaining > 0 && remaining < s.urgencyThreshold
}

// IsDue reports whether the countdown has expired
func (s *DrawScheduler) IsDue(window *models.DrawWindow) bool {
	return s.Remaining(window) <= 0
}

// Countdown builds the read-only view consumed by the countdown display
func (s *DrawScheduler) Countdown(window *models.DrawWindow) *models.CountdownView {
	remaining := s.Remaining(window)
	if remaining < 0 {
		remaining = 0
	}
	return &models.CountdownView{
		Status:           s.Status(window),
		RemainingSeconds: int64(remaining / time.Second),
		Urgent:           s.IsUrgent(window),
		Deadline:         window.Deadline(),
	}
}
