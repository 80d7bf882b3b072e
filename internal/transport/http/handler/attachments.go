package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskboard-api/internal/application/attachment"
)

const maxUploadBytes = 25 << 20 // 25 MiB

// AttachmentHandler handles task attachment upload, download and removal.
type AttachmentHandler struct {
	svc attachment.Service
}

func NewAttachmentHandler(svc attachment.Service) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// Upload accepts a multipart form with a "file" part and stores it against
// the task in the URL.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	a, err := h.svc.Upload(r.Context(), attachment.UploadInput{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		TaskID:      chi.URLParam(r, "id"),
		UploadedBy:  r.FormValue("uploaded_by"),
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AttachmentHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	attachments, err := h.svc.ListByTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attachments)
}

func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	rc, a, err := h.svc.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+a.Name+`"`)
	_, _ = io.Copy(w, rc)
}

func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "attachment deleted"})
}
