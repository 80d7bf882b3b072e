package domain

import "time"

// NotificationPrefs holds a user's per-channel opt-in flags.
type NotificationPrefs struct {
	Email bool `json:"email" dynamodbav:"email"`
	SMS   bool `json:"sms" dynamodbav:"sms"`
}

type User struct {
	UserID        string            `json:"id" dynamodbav:"user_id"`
	Name          string            `json:"name" dynamodbav:"name"`
	Email         string            `json:"email" dynamodbav:"email"`
	Phone         *string           `json:"phone" dynamodbav:"phone"`
	SMSCarrier    string            `json:"sms_carrier,omitempty" dynamodbav:"sms_carrier"`
	Notifications NotificationPrefs `json:"notifications" dynamodbav:"notifications"`
	Enable        bool              `json:"enable" dynamodbav:"enable"`
	CreatedAt     time.Time         `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time         `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      *string `json:"phone"`
	SMSCarrier string  `json:"sms_carrier"`
}

type UpdateUserRequest struct {
	Name          *string            `json:"name"`
	Email         *string            `json:"email" validate:"omitempty,email"`
	Phone         *string            `json:"phone"`
	SMSCarrier    *string            `json:"sms_carrier"`
	Notifications *NotificationPrefs `json:"notifications"`
}
