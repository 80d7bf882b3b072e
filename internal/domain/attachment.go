package domain

import "time"

// Attachment is a file uploaded against a task, stored in S3 with its
// metadata in DynamoDB.
type Attachment struct {
	AttachmentID string    `json:"id" dynamodbav:"attachment_id"`
	TaskID       string    `json:"task_id" dynamodbav:"task_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Object       string    `json:"-" dynamodbav:"object"` // S3 key
	ContentType  string    `json:"content_type" dynamodbav:"content_type"`
	Size         int64     `json:"size" dynamodbav:"size"`
	Hash         string    `json:"hash" dynamodbav:"hash"`
	UploadedBy   string    `json:"uploaded_by" dynamodbav:"uploaded_by"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
}
