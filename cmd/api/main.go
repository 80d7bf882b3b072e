package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/taskboard-api/internal/application/feed"
	"github.com/taskboard-api/internal/application/reminder"
	"github.com/taskboard-api/internal/application/user"
	"github.com/taskboard-api/internal/config"
	"github.com/taskboard-api/internal/infrastructure/dynamo"
	s3infra "github.com/taskboard-api/internal/infrastructure/s3"
	"github.com/taskboard-api/internal/infrastructure/smsgateway"
	"github.com/taskboard-api/internal/infrastructure/smtp"
	"github.com/taskboard-api/internal/infrastructure/sns"
	"github.com/taskboard-api/internal/scheduler"
	transporthttp "github.com/taskboard-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// S3 store.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SMS transport: the email-to-SMS carrier gateway by default, SNS when
	// configured. SNS failing to initialise falls back to the gateway.
	var smsSender reminder.SMSSender = smsgateway.New(mailer, cfg.SMSCarrierDomain)
	if cfg.SMSTransport == "sns" {
		if sender, err := sns.NewSender(cfg); err == nil {
			smsSender = sender
		} else {
			log.Printf("WARN: SNS sender not available, using carrier gateway: %v", err)
		}
	}

	taskRepo := dynamo.NewTaskRepo(dynamoClient, cfg.DynamoTables.Tasks)
	projectRepo := dynamo.NewProjectRepo(dynamoClient, cfg.DynamoTables.Projects)
	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)
	attachmentRepo := dynamo.NewAttachmentRepo(dynamoClient, cfg.DynamoTables.Attachments)
	stateRepo := dynamo.NewReminderStateRepo(dynamoClient, cfg.DynamoTables.ReminderState, cfg.InstallationID)

	userSource := user.NewSource(userRepo, cfg.ReminderUserID)
	notifier := reminder.NewNotifier(mailer, smsSender)
	reminderSvc := reminder.NewService(reminder.ServiceDeps{
		Tasks:          taskRepo,
		Projects:       projectRepo,
		Users:          userSource,
		State:          stateRepo,
		Notifier:       notifier,
		LookaheadDays:  cfg.LookaheadDays,
		SentRetention:  cfg.SentRetention,
		StampRetention: cfg.StampRetention,
	})
	feedSvc := feed.NewService(taskRepo, projectRepo, userSource, notificationRepo, stateRepo, cfg.LookaheadDays)

	sched := scheduler.New(reminderSvc, cfg.ScanInterval, cfg.InitialScanDelay)
	if err := sched.Start(context.Background()); err != nil {
		log.Fatalf("scheduler error: %v", err)
	}

	deps := &transporthttp.Deps{
		TaskRepo:         taskRepo,
		ProjectRepo:      projectRepo,
		UserRepo:         userRepo,
		NotificationRepo: notificationRepo,
		AttachmentRepo:   attachmentRepo,
		S3Store:          s3Store,
		ReminderSvc:      reminderSvc,
		FeedSvc:          feedSvc,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	sched.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
