package attachment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/taskboard-api/internal/domain"
	"github.com/taskboard-api/internal/infrastructure/dynamo"
	s3infra "github.com/taskboard-api/internal/infrastructure/s3"
	"github.com/taskboard-api/internal/pkg/id"
)

type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	TaskID      string
	UploadedBy  string
}

type Service interface {
	Upload(ctx context.Context, input UploadInput) (*domain.Attachment, error)
	Download(ctx context.Context, attachmentID string) (io.ReadCloser, *domain.Attachment, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.Attachment, error)
	Delete(ctx context.Context, attachmentID string) error
}

type service struct {
	s3       *s3infra.Store
	repo     *dynamo.AttachmentRepo
	taskRepo *dynamo.TaskRepo
}

func NewService(s3 *s3infra.Store, repo *dynamo.AttachmentRepo, taskRepo *dynamo.TaskRepo) Service {
	return &service{s3: s3, repo: repo, taskRepo: taskRepo}
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.Attachment, error) {
	if _, err := s.taskRepo.Get(ctx, input.TaskID); err != nil {
		return nil, err
	}

	safeName := sanitizeFilename(input.Filename)
	attachmentID := id.New()
	key := fmt.Sprintf("attachments/%s/%s-%s", input.TaskID, attachmentID, safeName)
	hasher := sha256.New()
	tee := io.TeeReader(input.Reader, hasher)
	if _, err := s.s3.Upload(ctx, key, tee, input.ContentType); err != nil {
		return nil, err
	}

	a := &domain.Attachment{
		AttachmentID: attachmentID,
		TaskID:       input.TaskID,
		Name:         safeName,
		Object:       key,
		ContentType:  input.ContentType,
		Size:         input.Size,
		Hash:         hex.EncodeToString(hasher.Sum(nil)),
		UploadedBy:   input.UploadedBy,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Download(ctx context.Context, attachmentID string) (io.ReadCloser, *domain.Attachment, error) {
	a, err := s.repo.Get(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.s3.Download(ctx, a.Object)
	if err != nil {
		return nil, nil, err
	}
	return rc, a, nil
}

func (s *service) ListByTask(ctx context.Context, taskID string) ([]domain.Attachment, error) {
	return s.repo.ListByTask(ctx, taskID)
}

func (s *service) Delete(ctx context.Context, attachmentID string) error {
	a, err := s.repo.Get(ctx, attachmentID)
	if err != nil {
		return err
	}
	if err := s.s3.Delete(ctx, a.Object); err != nil {
		return err
	}
	return s.repo.Delete(ctx, attachmentID)
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}
