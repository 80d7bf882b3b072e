package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	// Reminder engine knobs.
	InstallationID   string        // partition key of the single engine state document
	ReminderUserID   string        // the user the engine scans and notifies for
	ScanInterval     time.Duration // periodic scan cadence
	InitialScanDelay time.Duration // one-shot scan shortly after startup
	LookaheadDays    int           // upcoming-deadline window
	SentRetention    time.Duration // sent-log entry eviction window
	StampRetention   time.Duration // quota stamp eviction window
	SMSTransport     string        // "gateway" (email-to-SMS) or "sns"
	SMSCarrierDomain string        // default carrier gateway domain

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Tasks         string
	Projects      string
	Users         string
	Notifications string
	Attachments   string
	ReminderState string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Tasks:         getEnv("DYNAMO_TABLE_TASKS", "tasks"),
			Projects:      getEnv("DYNAMO_TABLE_PROJECTS", "projects"),
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			Attachments:   getEnv("DYNAMO_TABLE_ATTACHMENTS", "attachments"),
			ReminderState: getEnv("DYNAMO_TABLE_REMINDER_STATE", "reminder_state"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "taskboard-attachments"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		InstallationID:   getEnv("REMINDER_INSTALLATION_ID", "default"),
		ReminderUserID:   getEnv("REMINDER_USER_ID", ""),
		ScanInterval:     getEnvDuration("REMINDER_SCAN_INTERVAL", 5*time.Minute),
		InitialScanDelay: getEnvDuration("REMINDER_INITIAL_DELAY", 10*time.Second),
		LookaheadDays:    getEnvInt("REMINDER_LOOKAHEAD_DAYS", 3),
		SentRetention:    getEnvDuration("REMINDER_SENT_RETENTION", 7*24*time.Hour),
		StampRetention:   getEnvDuration("REMINDER_STAMP_RETENTION", 48*time.Hour),
		SMSTransport:     getEnv("SMS_TRANSPORT", "gateway"),
		SMSCarrierDomain: getEnv("SMS_CARRIER_DOMAIN", "vtext.com"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
