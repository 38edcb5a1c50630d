package reminder

import (
	"context"
	"fmt"
	"time"

	notifdomain "pickleclub-backend/internal/notification/domain"
	"pickleclub-backend/internal/reminder/domain"
	"pickleclub-backend/internal/reminder/repository"
	"pickleclub-backend/pkg/fcm"

	"github.com/rs/zerolog"
)

// Sender delivers a push message to a set of device tokens and reports the
// tokens that failed.
type Sender interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) ([]string, error)
}

// TokenLookup resolves a user's active push tokens.
type TokenLookup interface {
	ActiveTokensByUserID(userID string) ([]notifdomain.PushToken, error)
	DeactivateToken(token string) error
}

// Summary is the per-run report: candidate counts per window and what
// happened to each.
type Summary struct {
	Window24Candidates int  `json:"window_24h_candidates"`
	Window1Candidates  int  `json:"window_1h_candidates"`
	Sent               int  `json:"sent"`
	Skipped            int  `json:"skipped"`
	Failed             int  `json:"failed"`
	Success            bool `json:"success"`
}

// Worker scans the two reminder windows and sends at most one push per
// (booking, window) pair. It is stateless between runs; the idempotency log
// is what prevents repeats.
type Worker struct {
	bookings repository.BookingRepository
	logs     repository.NotificationLogRepository
	tokens   TokenLookup
	sender   Sender
	log      zerolog.Logger

	now func() time.Time
}

func NewWorker(bookings repository.BookingRepository, logs repository.NotificationLogRepository, tokens TokenLookup, sender Sender, log zerolog.Logger) *Worker {
	return &Worker{
		bookings: bookings,
		logs:     logs,
		tokens:   tokens,
		sender:   sender,
		log:      log,
		now:      time.Now,
	}
}

// Run executes one pass. Individual send failures never abort the batch;
// the error return is non-nil only when a window's candidate query itself
// fails.
func (w *Worker) Run(ctx context.Context) (*Summary, error) {
	now := w.now()
	summary := &Summary{Success: true}

	// 24-hour window: [now+23h, now+24h]. The ±1h band absorbs cron jitter.
	candidates24, err := w.bookings.FindStartingBetween(now.Add(23*time.Hour), now.Add(24*time.Hour))
	if err != nil {
		summary.Success = false
		return summary, fmt.Errorf("query 24-hour candidates: %w", err)
	}
	summary.Window24Candidates = len(candidates24)
	w.processWindow(ctx, candidates24, domain.Window24Hour, summary)

	// 1-hour window: [now+1h, now+2h].
	candidates1, err := w.bookings.FindStartingBetween(now.Add(1*time.Hour), now.Add(2*time.Hour))
	if err != nil {
		summary.Success = false
		return summary, fmt.Errorf("query 1-hour candidates: %w", err)
	}
	summary.Window1Candidates = len(candidates1)
	w.processWindow(ctx, candidates1, domain.Window1Hour, summary)

	w.log.Info().
		Int("window_24h", summary.Window24Candidates).
		Int("window_1h", summary.Window1Candidates).
		Int("sent", summary.Sent).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("reminder run finished")

	return summary, nil
}

func (w *Worker) processWindow(ctx context.Context, candidates []domain.Booking, window domain.ReminderWindow, summary *Summary) {
	for _, booking := range candidates {
		w.processCandidate(ctx, booking, window, summary)
	}
}

func (w *Worker) processCandidate(ctx context.Context, booking domain.Booking, window domain.ReminderWindow, summary *Summary) {
	logger := w.log.With().Str("booking_id", booking.ID).Str("window", string(window)).Logger()

	sent, err := w.logs.HasSent(booking.ID, window)
	if err != nil {
		logger.Error().Err(err).Msg("idempotency check failed, skipping candidate")
		summary.Failed++
		return
	}
	if sent {
		summary.Skipped++
		return
	}

	tokens, err := w.tokens.ActiveTokensByUserID(booking.UserID)
	if err != nil {
		logger.Error().Err(err).Msg("push token lookup failed, skipping candidate")
		summary.Failed++
		return
	}
	if len(tokens) == 0 {
		logger.Debug().Str("user_id", booking.UserID).Msg("no active push token, skipping")
		summary.Skipped++
		return
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	title, body := ComposeMessage(booking, window)
	failedTokens, err := w.sender.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":       "booking_reminder",
			"booking_id": booking.ID,
			"window":     string(window),
		},
	})

	for _, token := range failedTokens {
		if derr := w.tokens.DeactivateToken(token); derr != nil {
			logger.Warn().Err(derr).Msg("failed to deactivate dead push token")
		}
	}

	switch {
	case err != nil:
		logger.Error().Err(err).Msg("reminder send failed")
		summary.Failed++
		w.record(booking.ID, window, domain.LogFailed, err.Error(), logger)
	case len(failedTokens) == len(tokenStrings):
		logger.Error().Msg("reminder rejected for every device token")
		summary.Failed++
		w.record(booking.ID, window, domain.LogFailed, "all device tokens rejected", logger)
	default:
		summary.Sent++
		w.record(booking.ID, window, domain.LogSent, "", logger)
	}
}

// record writes the idempotency log entry. Best-effort: its own failure is
// logged, never escalated.
func (w *Worker) record(bookingID string, window domain.ReminderWindow, status domain.LogStatus, errMsg string, logger zerolog.Logger) {
	if err := w.logs.Record(bookingID, window, status, errMsg); err != nil {
		logger.Error().Err(err).Msg("notification log write failed")
	}
}

// ComposeMessage renders the push title/body for a booking. Lessons mention
// the coach and, when set, the court; reservations mention the court. Start
// times render on a 12-hour clock.
func ComposeMessage(booking domain.Booking, window domain.ReminderWindow) (string, string) {
	when := booking.StartTime.Local().Format("3:04 PM")

	var lead string
	if window == domain.Window24Hour {
		lead = "tomorrow at " + when
	} else {
		lead = "at " + when
	}

	if booking.Type == domain.BookingLesson {
		title := booking.EventName
		if title == "" {
			title = "Pickleball Lesson"
		}
		body := fmt.Sprintf("Your lesson with %s starts %s.", booking.CoachName, lead)
		if booking.CourtName != "" {
			body = fmt.Sprintf("Your lesson with %s starts %s on %s.", booking.CoachName, lead, booking.CourtName)
		}
		return title, body
	}

	title := booking.EventName
	if title == "" {
		title = "Court Reservation"
	}
	body := fmt.Sprintf("Your reservation on %s starts %s.", booking.CourtName, lead)
	return title, body
}
