package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notifdomain "pickleclub-backend/internal/notification/domain"
	"pickleclub-backend/internal/reminder/domain"
	"pickleclub-backend/pkg/fcm"
)

// ==========================
// Mock Implementations
// ==========================

type mockBookingRepo struct {
	FindStartingBetweenFunc func(from, to time.Time) ([]domain.Booking, error)
}

func (m *mockBookingRepo) FindStartingBetween(from, to time.Time) ([]domain.Booking, error) {
	return m.FindStartingBetweenFunc(from, to)
}

type mockLogRepo struct {
	sent     map[string]bool // bookingID|window
	recorded []domain.NotificationLog

	HasSentErr error
	RecordErr  error
}

func newMockLogRepo() *mockLogRepo {
	return &mockLogRepo{sent: map[string]bool{}}
}

func (m *mockLogRepo) HasSent(bookingID string, window domain.ReminderWindow) (bool, error) {
	if m.HasSentErr != nil {
		return false, m.HasSentErr
	}
	return m.sent[bookingID+"|"+string(window)], nil
}

func (m *mockLogRepo) Record(bookingID string, window domain.ReminderWindow, status domain.LogStatus, errMsg string) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.recorded = append(m.recorded, domain.NotificationLog{
		BookingID: bookingID,
		Window:    window,
		Status:    status,
		Error:     errMsg,
	})
	if status == domain.LogSent {
		m.sent[bookingID+"|"+string(window)] = true
	}
	return nil
}

type mockTokenLookup struct {
	tokens      map[string][]notifdomain.PushToken
	deactivated []string
	LookupErr   error
}

func (m *mockTokenLookup) ActiveTokensByUserID(userID string) ([]notifdomain.PushToken, error) {
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	return m.tokens[userID], nil
}

func (m *mockTokenLookup) DeactivateToken(token string) error {
	m.deactivated = append(m.deactivated, token)
	return nil
}

type mockSender struct {
	calls      [][]string
	failTokens []string
	err        error
}

func (m *mockSender) SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) ([]string, error) {
	m.calls = append(m.calls, tokens)
	if m.err != nil {
		return nil, m.err
	}
	var failed []string
	for _, tok := range tokens {
		for _, f := range m.failTokens {
			if tok == f {
				failed = append(failed, tok)
			}
		}
	}
	return failed, nil
}

func pushToken(userID, token string) notifdomain.PushToken {
	return notifdomain.PushToken{UserID: userID, Token: token, Active: true}
}

func testWorker(bookings *mockBookingRepo, logs *mockLogRepo, tokens *mockTokenLookup, sender *mockSender, now time.Time) *Worker {
	w := NewWorker(bookings, logs, tokens, sender, zerolog.Nop())
	w.now = func() time.Time { return now }
	return w
}

// ==========================
// Tests
// ==========================

func TestRunQueriesBothWindows(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	var ranges [][2]time.Time
	bookings := &mockBookingRepo{FindStartingBetweenFunc: func(from, to time.Time) ([]domain.Booking, error) {
		ranges = append(ranges, [2]time.Time{from, to})
		return nil, nil
	}}
	w := testWorker(bookings, newMockLogRepo(), &mockTokenLookup{}, &mockSender{}, now)

	summary, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Success)

	require.Len(t, ranges, 2)
	assert.Equal(t, now.Add(23*time.Hour), ranges[0][0])
	assert.Equal(t, now.Add(24*time.Hour), ranges[0][1])
	assert.Equal(t, now.Add(1*time.Hour), ranges[1][0])
	assert.Equal(t, now.Add(2*time.Hour), ranges[1][1])
}

func TestRunSendsAndRecordsOnce(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	booking := domain.Booking{
		ID:        "bk-1",
		UserID:    "user-1",
		Type:      domain.BookingLesson,
		CoachName: "Ana",
		StartTime: now.Add(23*time.Hour + 30*time.Minute),
	}
	bookings := &mockBookingRepo{FindStartingBetweenFunc: func(from, to time.Time) ([]domain.Booking, error) {
		if from.Equal(now.Add(23 * time.Hour)) {
			return []domain.Booking{booking}, nil
		}
		return nil, nil
	}}
	logs := newMockLogRepo()
	tokens := &mockTokenLookup{tokens: map[string][]notifdomain.PushToken{
		"user-1": {pushToken("user-1", "tok-a")},
	}}
	sender := &mockSender{}
	w := testWorker(bookings, logs, tokens, sender, now)

	summary, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Window24Candidates)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 0, summary.Failed)

	require.Len(t, logs.recorded, 1)
	assert.Equal(t, "bk-1", logs.recorded[0].BookingID)
	assert.Equal(t, domain.Window24Hour, logs.recorded[0].Window)
	assert.Equal(t, domain.LogSent, logs.recorded[0].Status)

	// A second pass over the same window is a no-op.
	summary, err = w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, sender.calls, 1)
}

func TestRunFansOutToAllActiveTokens(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	bookings := &mockBookingRepo{FindStartingBetweenFunc: func(from, to time.Time) ([]domain.Booking, error) {
		if from.Equal(now.Add(1 * time.Hour)) {
			return []domain.Booking{{ID: "bk-1", UserID: "user-1", Type: domain.BookingReservation, CourtName: "Court 2", StartTime: now.Add(90 * time.Minute)}}, nil
		}
		return nil, nil
	}}
	tokens := &mockTokenLookup{tokens: map[string][]notifdomain.PushToken{
		"user-1": {pushToken("user-1", "tok-phone"), pushToken("user-1", "tok-tablet")},
	}}
	sender := &mockSender{}
	w := testWorker(bookings, newMockLogRepo(), tokens, sender, now)

	_, err := w.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, []string{"tok-phone", "tok-tablet"}, sender.calls[0])
}

func TestRunMissingTokenSkipsWithoutFailingBatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	bookings := &mockBookingRepo{FindStartingBetweenFunc: func(from, to time.Time) ([]domain.Booking, error) {
		if from.Equal(now.Add(1 * time.Hour)) {
			return []domain.Booking{
				{ID: "bk-no-token", UserID: "user-quiet", Type: domain.BookingReservation, CourtName: "Court 1", StartTime: now.Add(time.Hour)},
				{ID: "bk-ok", UserID: "user-1", Type: domain.BookingReservation, CourtName: "Court 2", StartTime: now.Add(time.Hour)},
			}, nil
		}
		return nil, nil
	}}
	logs := newMockLogRepo()
	tokens := &mockTokenLookup{tokens: map[string][]notifdomain.PushToken{
		"user-1": {pushToken("user-1", "tok-a")},
	}}
	w := testWorker(bookings, logs, tokens, &mockSender{}, now)

	summary, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Success)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	// Nothing is recorded for the token-less candidate.
	require.Len(t, logs.recorded, 1)
	assert.Equal(t, "bk-ok", logs.recorded[0].BookingID)
}

func TestRunSendFailureIsolatedPerCandidate(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	bookings := &mockBookingRepo{FindStartingBetweenFunc: func(from, to time.Time) ([]domain.Booking, error) {
		if from.Equal(now.Add(1 * time.Hour)) {
			return []domain.Booking{
				{ID: "bk-1", UserID: "user-1", Type: domain.BookingReservation, CourtName: "Court 1", StartTime: now.Add(time.Hour)},
				{ID: "bk-2", UserID: "user-2", Type: domain.BookingReservation, CourtName: "Court 2", StartTime: now.Add(time.Hour)},
			}, nil
		}
		return nil, nil
	}}
	logs := newMockLogRepo()
	tokens := &mockTokenLookup{tokens: map[string][]notifdomain.PushToken{
		"user-1": {pushToken("user-1", "tok-dead")},
		"user-2": {pushToken("user-2", "tok-live")},
	}}
	// Every multicast reports tok-dead as failed; user-2's send still counts.
	sender := &mockSender{failTokens: []string{"tok-dead"}}
	w := testWorker(bookings, logs, tokens, sender, now)

	summary, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Sent)
	assert.Contains(t, tokens.deactivated, "tok-dead")

	var statuses []domain.LogStatus
	for _, rec := range logs.recorded {
		statuses = append(statuses, rec.Status)
	}
	assert.ElementsMatch(t, []domain.LogStatus{domain.LogFailed, domain.LogSent}, statuses)
}

func TestRunQueryErrorAbortsWithFailure(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	bookings := &mockBookingRepo{FindStartingBetweenFunc: func(from, to time.Time) ([]domain.Booking, error) {
		return nil, errors.New("connection refused")
	}}
	w := testWorker(bookings, newMockLogRepo(), &mockTokenLookup{}, &mockSender{}, now)

	summary, err := w.Run(context.Background())
	assert.Error(t, err)
	assert.False(t, summary.Success)
}

func TestRunLogWriteFailureDoesNotAbort(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	bookings := &mockBookingRepo{FindStartingBetweenFunc: func(from, to time.Time) ([]domain.Booking, error) {
		if from.Equal(now.Add(1 * time.Hour)) {
			return []domain.Booking{{ID: "bk-1", UserID: "user-1", Type: domain.BookingReservation, CourtName: "Court 1", StartTime: now.Add(time.Hour)}}, nil
		}
		return nil, nil
	}}
	logs := newMockLogRepo()
	logs.RecordErr = errors.New("insert failed")
	tokens := &mockTokenLookup{tokens: map[string][]notifdomain.PushToken{
		"user-1": {pushToken("user-1", "tok-a")},
	}}
	w := testWorker(bookings, logs, tokens, &mockSender{}, now)

	summary, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Success)
	assert.Equal(t, 1, summary.Sent)
}

func TestComposeMessageLesson24Hour(t *testing.T) {
	start := time.Date(2025, 6, 2, 15, 0, 0, 0, time.Local)
	booking := domain.Booking{
		Type:      domain.BookingLesson,
		CoachName: "Ana",
		StartTime: start,
	}

	title, body := ComposeMessage(booking, domain.Window24Hour)
	assert.Equal(t, "Pickleball Lesson", title)
	assert.Equal(t, "Your lesson with Ana starts tomorrow at 3:00 PM.", body)
}

func TestComposeMessageLessonWithCourt1Hour(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 30, 0, 0, time.Local)
	booking := domain.Booking{
		Type:      domain.BookingLesson,
		EventName: "Dinking Clinic",
		CoachName: "Luis",
		CourtName: "Court 3",
		StartTime: start,
	}

	title, body := ComposeMessage(booking, domain.Window1Hour)
	assert.Equal(t, "Dinking Clinic", title)
	assert.Equal(t, "Your lesson with Luis starts at 9:30 AM on Court 3.", body)
}

func TestComposeMessageReservation(t *testing.T) {
	start := time.Date(2025, 6, 2, 18, 15, 0, 0, time.Local)
	booking := domain.Booking{
		Type:      domain.BookingReservation,
		CourtName: "Court 2",
		StartTime: start,
	}

	title, body := ComposeMessage(booking, domain.Window1Hour)
	assert.Equal(t, "Court Reservation", title)
	assert.Equal(t, "Your reservation on Court 2 starts at 6:15 PM.", body)
}
