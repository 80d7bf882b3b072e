package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAlertIdentifier(t *testing.T) {
	assert.Equal(t, "reminder-overdue-task-42", AlertIdentifier(AlertOverdue, SourceTask, "42"))
	assert.Equal(t, "reminder-upcoming-project-p1", AlertIdentifier(AlertUpcoming, SourceProject, "p1"))
}

func TestSourceKeyFromIdentifier(t *testing.T) {
	key, ok := SourceKeyFromIdentifier("reminder-overdue-task-42")
	assert.True(t, ok)
	assert.Equal(t, "task-42", key)

	key, ok = SourceKeyFromIdentifier("reminder-upcoming-project-p1")
	assert.True(t, ok)
	assert.Equal(t, "project-p1", key)

	_, ok = SourceKeyFromIdentifier("notification-abc")
	assert.False(t, ok)

	_, ok = SourceKeyFromIdentifier("reminder-bogus-task-1")
	assert.False(t, ok)
}

func TestReminderState_SentLogIsPerKind(t *testing.T) {
	now := time.Now().UTC()
	s := NewReminderState("default")
	s.MarkSent(AlertOverdue, "reminder-overdue-task-1", now)

	assert.True(t, s.HasSent(AlertOverdue, "reminder-overdue-task-1"))
	assert.False(t, s.HasSent(AlertUpcoming, "reminder-overdue-task-1"))
}

func TestReminderState_DismissIsIdempotent(t *testing.T) {
	now := time.Now().UTC()
	s := NewReminderState("default")

	assert.True(t, s.Dismiss("reminder-overdue-task-1", now))
	assert.False(t, s.Dismiss("reminder-overdue-task-1", now.Add(time.Hour)))
	assert.True(t, s.IsDismissed("reminder-overdue-task-1"))
}

func TestReminderState_QuotaStampIsPerCalendarDay(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 1, 0, 0, 0, time.UTC)
	s := NewReminderState("default")

	s.StampQuota("a@example.com", day1)
	assert.True(t, s.HasQuotaStamp("a@example.com", day1))
	assert.False(t, s.HasQuotaStamp("a@example.com", day2))
	assert.False(t, s.HasQuotaStamp("b@example.com", day1))
}

func TestReminderState_PruneEvictsStaleEntries(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s := NewReminderState("default")
	s.MarkSent(AlertOverdue, "reminder-overdue-task-old", now.Add(-8*24*time.Hour))
	s.MarkSent(AlertOverdue, "reminder-overdue-task-fresh", now.Add(-time.Hour))
	s.StampQuota("a@example.com", now.Add(-72*time.Hour))

	removed := s.Prune(now, 7*24*time.Hour, 48*time.Hour, map[string]bool{"task-fresh": true})

	assert.Equal(t, 2, removed)
	assert.False(t, s.HasSent(AlertOverdue, "reminder-overdue-task-old"))
	assert.True(t, s.HasSent(AlertOverdue, "reminder-overdue-task-fresh"))
	assert.Empty(t, s.QuotaStamps)
}

func TestReminderState_PruneKeepsDismissalsForLiveSources(t *testing.T) {
	now := time.Now().UTC()
	s := NewReminderState("default")
	s.Dismiss("reminder-overdue-task-live", now.Add(-365*24*time.Hour))
	s.Dismiss("reminder-overdue-task-gone", now.Add(-time.Hour))

	removed := s.Prune(now, 7*24*time.Hour, 48*time.Hour, map[string]bool{"task-live": true})

	assert.Equal(t, 1, removed)
	assert.True(t, s.IsDismissed("reminder-overdue-task-live"), "dismissals never expire while the entity exists")
	assert.False(t, s.IsDismissed("reminder-overdue-task-gone"))
}
