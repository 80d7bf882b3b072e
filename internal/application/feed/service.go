package feed

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/taskboard-api/internal/application/reminder"
	"github.com/taskboard-api/internal/domain"
)

// NotificationStore is the persisted-notification collection the feed
// merges and mutates.
type NotificationStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string, at time.Time) error
	Delete(ctx context.Context, notificationID string) error
}

// Service builds the unified notification feed: persisted notifications
// merged with live-computed deadline reminders, dismissal-filtered and
// priority-ordered. It reads the same collections as the scan pipeline but
// never writes the sent log.
type Service struct {
	tasks         reminder.TaskSource
	projects      reminder.ProjectSource
	users         reminder.UserSource
	notifications NotificationStore
	state         reminder.StateStore
	lookaheadDays int
}

func NewService(tasks reminder.TaskSource, projects reminder.ProjectSource, users reminder.UserSource, notifications NotificationStore, state reminder.StateStore, lookaheadDays int) *Service {
	return &Service{
		tasks:         tasks,
		projects:      projects,
		users:         users,
		notifications: notifications,
		state:         state,
		lookaheadDays: lookaheadDays,
	}
}

// Build returns the renderable feed, sorted ascending by priority bucket
// (notifications, then overdue reminders, then upcoming warnings) and newest
// first within each bucket.
func (s *Service) Build(ctx context.Context, now time.Time) ([]domain.FeedItem, error) {
	notifications, result, state, err := s.gather(ctx, now)
	if err != nil {
		return nil, err
	}

	items := make([]domain.FeedItem, 0, len(notifications)+len(result.Overdue)+len(result.Upcoming))
	for _, n := range notifications {
		items = append(items, domain.FeedItem{
			ID:           "notification-" + n.NotificationID,
			Type:         domain.FeedItemNotification,
			Title:        n.Title,
			Message:      n.Message,
			CreatedAt:    n.CreatedAt,
			IsRead:       n.IsRead,
			Priority:     n.Priority,
			SortPriority: domain.SortPriorityNotification,
		})
	}
	for _, a := range result.Overdue {
		items = append(items, overdueItem(a))
	}
	for _, a := range result.Upcoming {
		items = append(items, upcomingItem(a))
	}

	filtered := items[:0]
	for _, item := range items {
		if !state.IsDismissed(item.ID) {
			filtered = append(filtered, item)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].SortPriority != filtered[j].SortPriority {
			return filtered[i].SortPriority < filtered[j].SortPriority
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered, nil
}

// BadgeCount is the number of unread notifications plus non-dismissed
// reminders and warnings.
func (s *Service) BadgeCount(ctx context.Context, now time.Time) (int, error) {
	notifications, result, state, err := s.gather(ctx, now)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range notifications {
		if !n.IsRead {
			count++
		}
	}
	for _, a := range result.Overdue {
		if !state.IsDismissed(a.Identifier) {
			count++
		}
	}
	for _, a := range result.Upcoming {
		if !state.IsDismissed(a.Identifier) {
			count++
		}
	}
	return count, nil
}

// BadgeLabel renders a badge count, capped for display at "99+".
func BadgeLabel(count int) string {
	if count > 99 {
		return "99+"
	}
	return strconv.Itoa(count)
}

// Dismiss permanently suppresses a computed reminder or warning from the
// feed. Dismissing the same identifier twice is a no-op.
func (s *Service) Dismiss(ctx context.Context, identifier string, now time.Time) error {
	if _, ok := domain.SourceKeyFromIdentifier(identifier); !ok {
		return fmt.Errorf("not a dismissible reminder id %q: %w", identifier, domain.ErrBadRequest)
	}
	state, err := s.state.Load(ctx)
	if err != nil {
		return err
	}
	if !state.Dismiss(identifier, now) {
		return nil
	}
	state.UpdatedAt = now
	return s.state.Save(ctx, state)
}

// MarkRead marks a persisted notification as read. Already-read
// notifications are left untouched.
func (s *Service) MarkRead(ctx context.Context, notificationID string, now time.Time) error {
	n, err := s.notifications.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	return s.notifications.MarkAsRead(ctx, notificationID, now)
}

// Remove removes a feed item by its feed id. Notification items are deleted
// from the store; reminder and warning items are dismissed (the underlying
// condition keeps existing but is never re-shown).
func (s *Service) Remove(ctx context.Context, feedItemID string, now time.Time) error {
	if notificationID, ok := strings.CutPrefix(feedItemID, "notification-"); ok {
		return s.notifications.Delete(ctx, notificationID)
	}
	return s.Dismiss(ctx, feedItemID, now)
}

func (s *Service) gather(ctx context.Context, now time.Time) ([]domain.Notification, reminder.ScanResult, *domain.ReminderState, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, reminder.ScanResult{}, nil, err
	}
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, reminder.ScanResult{}, nil, err
	}
	state, err := s.state.Load(ctx)
	if err != nil {
		return nil, reminder.ScanResult{}, nil, err
	}

	// Reminders are installation-wide; notifications belong to the current
	// user. Without a configured user the feed still carries reminders.
	var notifications []domain.Notification
	if user, err := s.users.CurrentUser(ctx); err == nil && user != nil {
		notifications, err = s.notifications.ListByUser(ctx, user.UserID)
		if err != nil {
			return nil, reminder.ScanResult{}, nil, err
		}
	}

	return notifications, reminder.Scan(now, s.lookaheadDays, tasks, projects), state, nil
}

func overdueItem(a domain.Alert) domain.FeedItem {
	item := domain.FeedItem{
		ID:           a.Identifier,
		Type:         domain.FeedItemReminder,
		CreatedAt:    a.Due,
		Priority:     "high",
		SortPriority: domain.SortPriorityOverdue,
	}
	if a.Source == domain.SourceProject {
		item.Title = "Overdue Project"
		item.Message = fmt.Sprintf("Project %q deadline has passed", a.Title)
	} else {
		item.Title = "Overdue Task"
		item.Message = fmt.Sprintf("Task %q is overdue", a.Title)
	}
	return item
}

func upcomingItem(a domain.Alert) domain.FeedItem {
	item := domain.FeedItem{
		ID:           a.Identifier,
		Type:         domain.FeedItemWarning,
		CreatedAt:    a.Due,
		Priority:     "high",
		SortPriority: domain.SortPriorityUpcoming,
	}
	label := "Task"
	if a.Source == domain.SourceProject {
		label = "Project"
	}
	item.Title = label + " Deadline Approaching"
	item.Message = fmt.Sprintf("%s %q is due in %s", label, a.Title, daysText(a.DaysLeft))
	return item
}

func daysText(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
