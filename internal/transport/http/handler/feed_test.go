package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taskboard-api/internal/domain"
)

// --- mock ---

type mockFeedSvc struct{ mock.Mock }

func (m *mockFeedSvc) Build(ctx context.Context, now time.Time) ([]domain.FeedItem, error) {
	args := m.Called(ctx, now)
	if v, _ := args.Get(0).([]domain.FeedItem); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFeedSvc) BadgeCount(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *mockFeedSvc) Remove(ctx context.Context, feedItemID string, now time.Time) error {
	return m.Called(ctx, feedItemID, now).Error(0)
}

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// --- tests ---

func TestFeedList_HappyPath(t *testing.T) {
	svc := &mockFeedSvc{}
	svc.On("Build", mock.Anything, mock.Anything).Return([]domain.FeedItem{
		{ID: "notification-n1", Type: domain.FeedItemNotification, SortPriority: domain.SortPriorityNotification},
		{ID: "reminder-overdue-task-7", Type: domain.FeedItemReminder, SortPriority: domain.SortPriorityOverdue},
	}, nil)
	h := NewFeedHandler(svc)

	r := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	rr := httptest.NewRecorder()
	h.List(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp FeedEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "notification-n1", resp.Items[0].ID)
	svc.AssertExpectations(t)
}

func TestFeedList_ServiceError(t *testing.T) {
	svc := &mockFeedSvc{}
	svc.On("Build", mock.Anything, mock.Anything).Return(nil, errors.New("dynamo down"))
	h := NewFeedHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/v1/feed", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestFeedBadge_LabelCapped(t *testing.T) {
	svc := &mockFeedSvc{}
	svc.On("BadgeCount", mock.Anything, mock.Anything).Return(412, nil)
	h := NewFeedHandler(svc)

	rr := httptest.NewRecorder()
	h.Badge(rr, httptest.NewRequest(http.MethodGet, "/v1/feed/badge", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp BadgeEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 412, resp.Count)
	assert.Equal(t, "99+", resp.Label)
}

func TestFeedRemove_HappyPath(t *testing.T) {
	svc := &mockFeedSvc{}
	svc.On("Remove", mock.Anything, "reminder-overdue-task-7", mock.Anything).Return(nil)
	h := NewFeedHandler(svc)

	r := withChiID(httptest.NewRequest(http.MethodDelete, "/v1/feed/reminder-overdue-task-7", nil), "reminder-overdue-task-7")
	rr := httptest.NewRecorder()
	h.Remove(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestFeedRemove_BadIdentifier(t *testing.T) {
	svc := &mockFeedSvc{}
	svc.On("Remove", mock.Anything, "garbage", mock.Anything).Return(domain.ErrBadRequest)
	h := NewFeedHandler(svc)

	r := withChiID(httptest.NewRequest(http.MethodDelete, "/v1/feed/garbage", nil), "garbage")
	rr := httptest.NewRecorder()
	h.Remove(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
