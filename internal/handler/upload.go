package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/dukerupert/rsvp/internal/apperr"
	"github.com/dukerupert/rsvp/internal/blob"
)

// Multipart framing on top of the largest accepted image.
const uploadOverhead = 1 << 20

type UploadHandler struct {
	blobStore *blob.Store
	logger    *slog.Logger
}

func NewUploadHandler(bs *blob.Store, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{blobStore: bs, logger: logger}
}

// Upload stores one cover image from the multipart field "file".
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, blob.MaxImageSize+uploadOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "file size must be "+humanize.IBytes(blob.MaxImageSize)+" or less")
			return
		}
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := blob.CheckImage(contentType, header.Size); err != nil {
		writeAppError(w, h.logger, err, "upload failed")
		return
	}
	if !h.blobStore.Configured() {
		writeError(w, http.StatusServiceUnavailable, "image uploads are not configured")
		return
	}

	obj, err := h.blobStore.PutImage(r.Context(), header.Filename, contentType, header.Size, file)
	if err != nil {
		if errors.Is(err, apperr.ErrUploadRejected) {
			writeAppError(w, h.logger, err, "upload failed")
			return
		}
		h.logger.Error("upload image", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	writeJSON(w, http.StatusOK, obj)
}
