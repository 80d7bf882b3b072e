package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/taskboard-api/internal/application/attachment"
	"github.com/taskboard-api/internal/application/notification"
	"github.com/taskboard-api/internal/application/project"
	"github.com/taskboard-api/internal/application/task"
	"github.com/taskboard-api/internal/application/user"
	"github.com/taskboard-api/internal/config"
	"github.com/taskboard-api/internal/transport/http/handler"
	appmiddleware "github.com/taskboard-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to write-heavy endpoints.
	writeRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	taskSvc := task.NewService(deps.TaskRepo)
	projectSvc := project.NewService(deps.ProjectRepo)
	userSvc := user.NewService(deps.UserRepo)
	attachmentSvc := attachment.NewService(deps.S3Store, deps.AttachmentRepo, deps.TaskRepo)
	notificationSvc := notification.NewService(deps.NotificationRepo)

	healthH := handler.NewHealthHandler()
	taskH := handler.NewTaskHandler(taskSvc)
	projectH := handler.NewProjectHandler(projectSvc)
	userH := handler.NewUserHandler(userSvc)
	attachmentH := handler.NewAttachmentHandler(attachmentSvc)
	feedH := handler.NewFeedHandler(deps.FeedSvc)
	notifH := handler.NewNotificationHandler(notificationSvc, deps.FeedSvc)
	reminderH := handler.NewReminderHandler(deps.ReminderSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/test", healthH.Test)
		r.Post("/test", healthH.Test)

		r.Get("/tasks", taskH.List)
		r.With(writeRL.Limit).Post("/tasks", taskH.Create)
		r.Get("/tasks/{id}", taskH.Get)
		r.Put("/tasks/{id}", taskH.Update)
		r.Delete("/tasks/{id}", taskH.Delete)
		r.Get("/tasks/{id}/attachments", attachmentH.ListByTask)
		r.With(writeRL.Limit).Post("/tasks/{id}/attachments", attachmentH.Upload)

		r.Get("/projects", projectH.List)
		r.With(writeRL.Limit).Post("/projects", projectH.Create)
		r.Get("/projects/{id}", projectH.Get)
		r.Put("/projects/{id}", projectH.Update)
		r.Delete("/projects/{id}", projectH.Delete)

		r.With(writeRL.Limit).Post("/users", userH.Create)
		r.Get("/users/{id}", userH.Get)
		r.Put("/users/{id}", userH.Update)
		r.Delete("/users/{id}", userH.Disable)

		r.Get("/attachments/{id}", attachmentH.Download)
		r.Delete("/attachments/{id}", attachmentH.Delete)

		r.Get("/feed", feedH.List)
		r.Get("/feed/badge", feedH.Badge)
		r.Delete("/feed/{id}", feedH.Remove)

		r.With(writeRL.Limit).Post("/notifications", notifH.Create)
		r.Put("/notifications/{id}/read", notifH.MarkAsRead)

		r.With(writeRL.Limit).Post("/reminders/scan", reminderH.TriggerScan)
	})

	return r
}
