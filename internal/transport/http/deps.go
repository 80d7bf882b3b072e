package http

import (
	"github.com/taskboard-api/internal/application/feed"
	"github.com/taskboard-api/internal/application/reminder"
	"github.com/taskboard-api/internal/infrastructure/dynamo"
	s3infra "github.com/taskboard-api/internal/infrastructure/s3"
)

// Deps holds all infrastructure dependencies for the router. The reminder and
// feed services are built in main because the scheduler shares them.
type Deps struct {
	TaskRepo         *dynamo.TaskRepo
	ProjectRepo      *dynamo.ProjectRepo
	UserRepo         *dynamo.UserRepo
	NotificationRepo *dynamo.NotificationRepo
	AttachmentRepo   *dynamo.AttachmentRepo
	S3Store          *s3infra.Store

	ReminderSvc *reminder.Service
	FeedSvc     *feed.Service
}
