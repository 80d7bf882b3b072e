package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taskboard-api/internal/application/feed"
	"github.com/taskboard-api/internal/domain"
)

// FeedService is the feed surface the handler requires.
type FeedService interface {
	Build(ctx context.Context, now time.Time) ([]domain.FeedItem, error)
	BadgeCount(ctx context.Context, now time.Time) (int, error)
	Remove(ctx context.Context, feedItemID string, now time.Time) error
}

// FeedHandler serves the unified notification feed, its badge count, and
// feed-item removal.
type FeedHandler struct {
	svc FeedService
}

func NewFeedHandler(svc FeedService) *FeedHandler { return &FeedHandler{svc: svc} }

func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Build(r.Context(), time.Now().UTC())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FeedEnvelope{Items: items, Total: len(items)})
}

func (h *FeedHandler) Badge(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.BadgeCount(r.Context(), time.Now().UTC())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BadgeEnvelope{Count: count, Label: feed.BadgeLabel(count)})
}

// Remove deletes a notification item or permanently dismisses a reminder item.
func (h *FeedHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "id"), time.Now().UTC()); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "feed item removed"})
}
