package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taskboard-api/internal/application/notification"
	"github.com/taskboard-api/internal/domain"
	"github.com/taskboard-api/internal/pkg/validate"
)

// NotificationReader marks persisted notifications as read.
type NotificationReader interface {
	MarkRead(ctx context.Context, notificationID string, now time.Time) error
}

// NotificationHandler creates and mutates persisted notifications. Listing
// goes through the feed.
type NotificationHandler struct {
	svc    notification.Service
	reader NotificationReader
}

func NewNotificationHandler(svc notification.Service, reader NotificationReader) *NotificationHandler {
	return &NotificationHandler{svc: svc, reader: reader}
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// MarkAsRead marks a notification as read. Marking an already-read
// notification succeeds without rewriting it.
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.reader.MarkRead(r.Context(), chi.URLParam(r, "id"), time.Now().UTC()); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "notification read"})
}
