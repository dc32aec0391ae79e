// Package sweeper sends follow-up reminders to users who stalled late in the
// sales funnel.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/zenvy/zenvy-sales-bot/internal/observability/metrics"
	"github.com/zenvy/zenvy-sales-bot/internal/session"
	"github.com/zenvy/zenvy-sales-bot/pkg/logging"
)

const reminderText = "👋 Hi! Just checking—shall we continue your website discussion?"

// Notifier delivers one outbound text message to a recipient phone.
type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

// Sweeper scans sessions and reminds the ones that have gone quiet in the
// budget or payment stage. Earlier stages are left alone: a user who only
// said "hi" has not dropped off anything worth chasing.
type Sweeper struct {
	sessions  session.Store
	notifier  Notifier
	staleness time.Duration
	metrics   *metrics.FunnelMetrics
	logger    *logging.Logger
}

// New creates a sweeper with the given staleness threshold.
func New(sessions session.Store, notifier Notifier, staleness time.Duration, m *metrics.FunnelMetrics, logger *logging.Logger) *Sweeper {
	if sessions == nil {
		panic("sweeper: session store required")
	}
	if notifier == nil {
		panic("sweeper: notifier required")
	}
	if staleness <= 0 {
		staleness = 24 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Sweeper{
		sessions:  sessions,
		notifier:  notifier,
		staleness: staleness,
		metrics:   m,
		logger:    logger,
	}
}

// Sweep walks all sessions once and returns how many reminders were sent.
// A reminded session gets a fresh updated_at, so it will not be re-notified
// until a full threshold elapses again. Rows that cannot be interpreted are
// skipped, never fatal.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweeper: list sessions: %w", err)
	}

	now := time.Now().UTC()
	reminded := 0
	for _, sess := range sessions {
		if sess.Stage != session.StageBudget && sess.Stage != session.StagePayment {
			continue
		}

		last, err := sess.LastActivity()
		if err != nil {
			s.logger.Warn("sweeper: skipping session with unparsable timestamp",
				"phone", sess.Phone, "updated_at", sess.UpdatedAt, "error", err)
			continue
		}
		if now.Sub(last) <= s.staleness {
			continue
		}

		if err := s.remind(ctx, sess, now); err != nil {
			s.logger.Error("sweeper: failed to remind", "error", err, "phone", sess.Phone)
			continue
		}
		reminded++
	}

	if reminded > 0 {
		s.logger.Info("sweeper: reminders sent", "count", reminded)
	}
	return reminded, nil
}

func (s *Sweeper) remind(ctx context.Context, sess *session.Session, now time.Time) error {
	if err := s.notifier.Send(ctx, sess.Phone, reminderText); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	// Refresh updated_at only after the reminder went out, so a failed send
	// leaves the session eligible for the next sweep.
	sess.Touch(now)
	if err := s.sessions.Upsert(ctx, sess); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}

	s.metrics.ObserveReminderSent()
	return nil
}
