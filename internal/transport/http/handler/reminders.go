package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/taskboard-api/internal/application/reminder"
)

// ScanRunner runs one reminder scan cycle.
type ScanRunner interface {
	RunScanCycle(ctx context.Context, now time.Time) error
}

// ReminderHandler exposes the manual scan trigger.
type ReminderHandler struct {
	svc ScanRunner
}

func NewReminderHandler(svc ScanRunner) *ReminderHandler {
	return &ReminderHandler{svc: svc}
}

// TriggerScan runs one scan cycle immediately. A cycle already in progress
// yields 409 rather than queueing a second one.
func (h *ReminderHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RunScanCycle(r.Context(), time.Now().UTC()); err != nil {
		if errors.Is(err, reminder.ErrScanInFlight) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "scan completed"})
}
