package domain

import "time"

// Notification is a persisted in-app notification created by application
// events (task assignments, project updates, ...). It is independent of the
// computed deadline reminders and merged with them in the feed.
type Notification struct {
	NotificationID string     `json:"id" dynamodbav:"notification_id"`
	UserID         string     `json:"user_id" dynamodbav:"user_id"`
	Type           string     `json:"type" dynamodbav:"type"` // info, success, warning, error
	Title          string     `json:"title" dynamodbav:"title"`
	Message        string     `json:"message" dynamodbav:"message"`
	Priority       string     `json:"priority" dynamodbav:"priority"` // low, normal, high
	IsRead         bool       `json:"is_read" dynamodbav:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty" dynamodbav:"read_at"`
	CreatedAt      time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateNotificationRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Type     string `json:"type" validate:"omitempty,oneof=info success warning error"`
	Title    string `json:"title" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high"`
}
