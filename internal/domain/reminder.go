package domain

import (
	"fmt"
	"strings"
	"time"
)

// AlertKind distinguishes the two deadline conditions an alert can report.
type AlertKind string

const (
	AlertOverdue  AlertKind = "overdue"
	AlertUpcoming AlertKind = "upcoming"
)

// AlertSource names the entity type an alert was derived from.
type AlertSource string

const (
	SourceTask    AlertSource = "task"
	SourceProject AlertSource = "project"
)

// Alert is an ephemeral deadline alert derived from the current task and
// project collections. Alerts are recomputed on every scan and never stored;
// only their identifier may appear in the sent log or the dismissed set.
type Alert struct {
	Identifier string
	Kind       AlertKind
	Source     AlertSource
	SourceID   string
	Title      string // task title or project name
	Due        time.Time
	DaysLeft   int // upcoming alerts only
}

// AlertIdentifier builds the stable dedup key for one alert condition on one
// entity, e.g. "reminder-overdue-task-42". Identical inputs always produce
// the identical identifier.
func AlertIdentifier(kind AlertKind, source AlertSource, sourceID string) string {
	return fmt.Sprintf("reminder-%s-%s-%s", kind, source, sourceID)
}

// SourceKeyFromIdentifier extracts the "{source}-{id}" portion of an alert
// identifier. It reports false for identifiers that are not alert-shaped.
func SourceKeyFromIdentifier(identifier string) (string, bool) {
	rest, ok := strings.CutPrefix(identifier, "reminder-")
	if !ok {
		return "", false
	}
	kind, key, ok := strings.Cut(rest, "-")
	if !ok || (AlertKind(kind) != AlertOverdue && AlertKind(kind) != AlertUpcoming) {
		return "", false
	}
	return key, true
}

// SourceKey returns "{source}-{id}" for an entity, matching the keys produced
// by SourceKeyFromIdentifier.
func SourceKey(source AlertSource, sourceID string) string {
	return string(source) + "-" + sourceID
}

// ReminderState is the engine's whole persisted state, stored as a single
// document and replaced atomically on save. Map values are the time the
// entry was added, which drives retention eviction.
type ReminderState struct {
	InstallationID string               `dynamodbav:"installation_id"`
	SentOverdue    map[string]time.Time `dynamodbav:"sent_overdue"`
	SentUpcoming   map[string]time.Time `dynamodbav:"sent_upcoming"`
	Dismissed      map[string]time.Time `dynamodbav:"dismissed"`
	QuotaStamps    map[string]time.Time `dynamodbav:"quota_stamps"`
	UpdatedAt      time.Time            `dynamodbav:"updated_at"`
}

// NewReminderState returns an empty state for the given installation.
func NewReminderState(installationID string) *ReminderState {
	return &ReminderState{
		InstallationID: installationID,
		SentOverdue:    make(map[string]time.Time),
		SentUpcoming:   make(map[string]time.Time),
		Dismissed:      make(map[string]time.Time),
		QuotaStamps:    make(map[string]time.Time),
	}
}

func (s *ReminderState) sentSet(kind AlertKind) map[string]time.Time {
	if kind == AlertOverdue {
		return s.SentOverdue
	}
	return s.SentUpcoming
}

// HasSent reports whether the identifier was already dispatched for kind.
func (s *ReminderState) HasSent(kind AlertKind, identifier string) bool {
	_, ok := s.sentSet(kind)[identifier]
	return ok
}

// MarkSent records the identifier in the sent log for kind.
func (s *ReminderState) MarkSent(kind AlertKind, identifier string, at time.Time) {
	s.sentSet(kind)[identifier] = at
}

// IsDismissed reports whether the user dismissed the given feed item id.
func (s *ReminderState) IsDismissed(identifier string) bool {
	_, ok := s.Dismissed[identifier]
	return ok
}

// Dismiss records a dismissal. Dismissing the same identifier again is a
// no-op; it reports whether the set changed.
func (s *ReminderState) Dismiss(identifier string, at time.Time) bool {
	if s.IsDismissed(identifier) {
		return false
	}
	s.Dismissed[identifier] = at
	return true
}

// QuotaKey builds the per-user per-calendar-day email quota key.
func QuotaKey(email string, day time.Time) string {
	return email + "|" + day.UTC().Format("2006-01-02")
}

// HasQuotaStamp reports whether an email was already sent to the user on the
// calendar day of now.
func (s *ReminderState) HasQuotaStamp(email string, now time.Time) bool {
	_, ok := s.QuotaStamps[QuotaKey(email, now)]
	return ok
}

// StampQuota marks the user's email quota as consumed for the day of now.
func (s *ReminderState) StampQuota(email string, now time.Time) {
	s.QuotaStamps[QuotaKey(email, now)] = now
}

// Prune evicts stale state: sent-log entries older than sentRetention, quota
// stamps older than stampRetention, and dismissals whose source entity no
// longer exists in liveSources (keys from SourceKey). Dismissals for live
// entities are kept indefinitely so a dismissed reminder never re-arms.
// It returns the number of entries removed.
func (s *ReminderState) Prune(now time.Time, sentRetention, stampRetention time.Duration, liveSources map[string]bool) int {
	removed := 0
	for _, set := range []map[string]time.Time{s.SentOverdue, s.SentUpcoming} {
		for id, addedAt := range set {
			if now.Sub(addedAt) > sentRetention {
				delete(set, id)
				removed++
			}
		}
	}
	for key, stampedAt := range s.QuotaStamps {
		if now.Sub(stampedAt) > stampRetention {
			delete(s.QuotaStamps, key)
			removed++
		}
	}
	for id := range s.Dismissed {
		key, ok := SourceKeyFromIdentifier(id)
		if !ok {
			continue
		}
		if !liveSources[key] {
			delete(s.Dismissed, id)
			removed++
		}
	}
	return removed
}

// Feed item types as rendered to clients.
const (
	FeedItemNotification = "notification"
	FeedItemReminder     = "reminder" // overdue
	FeedItemWarning      = "warning"  // upcoming
)

// Feed sort priorities. Lower sorts first.
const (
	SortPriorityNotification = 1
	SortPriorityOverdue      = 2
	SortPriorityUpcoming     = 3
)

// FeedItem is the unified renderable union of persisted notifications,
// overdue reminders and upcoming warnings.
type FeedItem struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
	IsRead       bool      `json:"is_read"`
	Priority     string    `json:"priority"`
	SortPriority int       `json:"sort_priority"`
}
