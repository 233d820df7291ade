package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"blogapi/internal/apperror"
	"blogapi/internal/auth"
	"blogapi/internal/authz"
)

const (
	uploadField = "file"
	// room for multipart boundaries and part headers
	multipartOverhead = 1 << 20
	maxFormMemory     = 32 << 20
)

func (h *Handlers) fileTooLarge() error {
	return apperror.New(apperror.KindFileTooLarge,
		fmt.Sprintf("file is too large (max %s)", humanize.Bytes(uint64(h.Cfg.MaxUploadSize))))
}

// UploadFile stores the multipart "file" field for the calling user.
func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Enforcer.Authorize(ctx, authz.ResourceFile, authz.ActionWrite); err != nil {
		WriteError(w, err)
		return
	}
	claims, _ := auth.ClaimsFromContext(ctx)

	if h.Cfg.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+multipartOverhead)
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, h.fileTooLarge())
			return
		}
		WriteError(w, apperror.Wrap(apperror.KindInvalidInput, "could not parse multipart form", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		WriteError(w, apperror.Wrap(apperror.KindInvalidInput, "form field \"file\" is required", err))
		return
	}
	defer file.Close()

	upload, err := h.UploadService.Upload(ctx, claims.Subject, header.Filename,
		header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeSuccess(w, upload, http.StatusCreated)
}

// DownloadFile streams the stored bytes with the content type recorded at
// upload time.
func (h *Handlers) DownloadFile(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["uuid"]
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteError(w, apperror.Wrap(apperror.KindInvalidUUID, "invalid uuid "+raw, err))
		return
	}

	upload, body, err := h.UploadService.Download(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", upload.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": upload.Filename}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		slog.Warn("stream upload", "uuid", id, "error", err)
	}
}
