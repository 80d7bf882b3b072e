package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taskboard-api/internal/domain"
)

// --- mocks ---

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, phone, carrier, message string) error {
	return m.Called(ctx, phone, carrier, message).Error(0)
}

func notifyUser() *domain.User {
	phone := "5551234567"
	return &domain.User{
		UserID:     "u1",
		Name:       "Alice",
		Email:      "alice@example.com",
		Phone:      &phone,
		SMSCarrier: "verizon",
	}
}

func overdueAlert(id, title string) domain.Alert {
	return domain.Alert{
		Identifier: domain.AlertIdentifier(domain.AlertOverdue, domain.SourceTask, id),
		Kind:       domain.AlertOverdue,
		Source:     domain.SourceTask,
		SourceID:   id,
		Title:      title,
		Due:        time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
	}
}

func upcomingAlert(id, title string, days int) domain.Alert {
	return domain.Alert{
		Identifier: domain.AlertIdentifier(domain.AlertUpcoming, domain.SourceTask, id),
		Kind:       domain.AlertUpcoming,
		Source:     domain.SourceTask,
		SourceID:   id,
		Title:      title,
		Due:        time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC),
		DaysLeft:   days,
	}
}

func settle(t *testing.T, outcome DispatchOutcome) DispatchResult {
	t.Helper()
	select {
	case res := <-outcome.Settled:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not settle")
		return DispatchResult{}
	}
}

// --- tests ---

func TestDispatch_BothChannelsBothBuckets(t *testing.T) {
	mailer := &mockMailer{}
	sms := &mockSMS{}
	mailer.On("SendEmail", "alice@example.com", mock.Anything, mock.Anything).Return(nil).Twice()
	sms.On("SendSMS", mock.Anything, "5551234567", "verizon", mock.Anything).Return(nil).Twice()

	n := NewNotifier(mailer, sms)
	outcome := n.Dispatch(context.Background(), notifyUser(),
		[]domain.Alert{overdueAlert("1", "late")},
		[]domain.Alert{upcomingAlert("2", "soon", 2)},
		true, true)

	assert.Equal(t, 4, outcome.Attempts)
	assert.Equal(t, 2, outcome.EmailAttempts)
	res := settle(t, outcome)
	assert.Equal(t, DispatchResult{Attempted: 4, Succeeded: 4}, res)
	mailer.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestDispatch_EmptyBucketSendsNothing(t *testing.T) {
	mailer := &mockMailer{}
	sms := &mockSMS{}
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	n := NewNotifier(mailer, sms)
	outcome := n.Dispatch(context.Background(), notifyUser(),
		[]domain.Alert{overdueAlert("1", "late")}, nil, true, true)

	assert.Equal(t, 2, outcome.Attempts)
	assert.Equal(t, 1, outcome.EmailAttempts)
	settle(t, outcome)
	mailer.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestDispatch_ChannelGatesRespected(t *testing.T) {
	mailer := &mockMailer{}
	sms := &mockSMS{}
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	n := NewNotifier(mailer, sms)
	outcome := n.Dispatch(context.Background(), notifyUser(),
		[]domain.Alert{overdueAlert("1", "late")}, nil, false, true)

	assert.Equal(t, 1, outcome.Attempts)
	assert.Equal(t, 0, outcome.EmailAttempts)
	settle(t, outcome)
	mailer.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
	sms.AssertExpectations(t)
}

func TestDispatch_MissingPhoneSkipsSMS(t *testing.T) {
	mailer := &mockMailer{}
	sms := &mockSMS{}
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	user := notifyUser()
	user.Phone = nil
	n := NewNotifier(mailer, sms)
	outcome := n.Dispatch(context.Background(), user,
		[]domain.Alert{overdueAlert("1", "late")}, nil, true, true)

	assert.Equal(t, 1, outcome.Attempts)
	settle(t, outcome)
	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_PartialFailureStillSettles(t *testing.T) {
	mailer := &mockMailer{}
	sms := &mockSMS{}
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	n := NewNotifier(mailer, sms)
	outcome := n.Dispatch(context.Background(), notifyUser(),
		[]domain.Alert{overdueAlert("1", "late")}, nil, true, true)

	res := settle(t, outcome)
	assert.Equal(t, DispatchResult{Attempted: 2, Succeeded: 1}, res)
}

func TestDispatch_NoJobsSettlesImmediately(t *testing.T) {
	n := NewNotifier(&mockMailer{}, &mockSMS{})
	outcome := n.Dispatch(context.Background(), notifyUser(), nil, nil, true, true)

	assert.Equal(t, 0, outcome.Attempts)
	res := settle(t, outcome)
	assert.Equal(t, DispatchResult{}, res)
}

func TestComposeEmail_OverdueBody(t *testing.T) {
	subject, body := composeEmail(notifyUser(), domain.AlertOverdue, []domain.Alert{
		overdueAlert("1", "Ship report"),
	})

	assert.Equal(t, "Overdue Items - Taskboard", subject)
	assert.Contains(t, body, "Hello Alice,")
	assert.Contains(t, body, `- Task: "Ship report" - Was due on Mar 9, 2026`)
}

func TestComposeEmail_UpcomingBody(t *testing.T) {
	subject, body := composeEmail(notifyUser(), domain.AlertUpcoming, []domain.Alert{
		upcomingAlert("2", "Quarterly review", 1),
	})

	assert.Equal(t, "Upcoming Deadlines - Taskboard", subject)
	assert.Contains(t, body, `- Task: "Quarterly review" - Due in 1 day (Mar 12, 2026)`)
}

func TestComposeSMS(t *testing.T) {
	single := composeSMS(domain.AlertOverdue, []domain.Alert{overdueAlert("1", "Ship report")})
	assert.Equal(t, `Taskboard Alert: Task "Ship report" is overdue`, single)

	many := composeSMS(domain.AlertUpcoming, []domain.Alert{
		upcomingAlert("1", "a", 1), upcomingAlert("2", "b", 2),
	})
	assert.Equal(t, "Taskboard Alert: 2 items approaching deadline", many)
}

func TestDaysPhrase(t *testing.T) {
	require.Equal(t, "1 day", daysPhrase(1))
	require.Equal(t, "2 days", daysPhrase(2))
	require.Equal(t, "0 days", daysPhrase(0))
}
