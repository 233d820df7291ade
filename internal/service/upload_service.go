package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"blogapi/internal/apperror"
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/storage"
)

// bytes read from the upload when the client did not declare a type
const sniffLength = 3072

type UploadService interface {
	Upload(ctx context.Context, owner uuid.UUID, filename, contentType string, file io.Reader, size int64) (*models.Upload, error)
	Download(ctx context.Context, id uuid.UUID) (*models.Upload, io.ReadCloser, error)
	Remove(ctx context.Context, id uuid.UUID) error
	RemoveOwnedBy(ctx context.Context, owner uuid.UUID) error
	GetUpload(ctx context.Context, id uuid.UUID) (*models.Upload, error)
	ListUploads(ctx context.Context) ([]models.Upload, error)
}

type uploadService struct {
	uploadRepo repository.UploadRepository
	store      storage.ObjectStore
	maxSize    int64
}

func NewUploadService(uploadRepo repository.UploadRepository, store storage.ObjectStore, maxSize int64) UploadService {
	return &uploadService{
		uploadRepo: uploadRepo,
		store:      store,
		maxSize:    maxSize,
	}
}

// Upload stores the bytes under a fresh owner-scoped key and then records
// them. The object is removed again when the record cannot be written.
func (s *uploadService) Upload(ctx context.Context, owner uuid.UUID, filename, contentType string, file io.Reader, size int64) (*models.Upload, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return nil, apperror.New(apperror.KindFileTooLarge,
			fmt.Sprintf("file is too large (max %s)", humanize.Bytes(uint64(s.maxSize))))
	}

	contentType = normalizeContentType(contentType)
	if needsSniffing(contentType) {
		head := make([]byte, sniffLength)
		n, err := io.ReadFull(file, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, apperror.Wrap(apperror.KindInvalidInput, "could not read file", err)
		}
		head = head[:n]
		if n > 0 {
			contentType = normalizeContentType(mimetype.Detect(head).String())
		}
		file = io.MultiReader(bytes.NewReader(head), file)
	}

	if needsSniffing(contentType) {
		return nil, apperror.New(apperror.KindMissingContentType, "content type is missing")
	}
	if !contentTypeAllowed(contentType) {
		return nil, apperror.New(apperror.KindInvalidContentType,
			fmt.Sprintf("content type %s is not allowed", contentType))
	}

	filename = filepath.Base(filename)
	if filename == "." || filename == string(filepath.Separator) {
		filename = "file"
	}

	upload := &models.Upload{
		UUID:        uuid.New(),
		Filename:    filename,
		ContentType: contentType,
		StorageKey:  storage.ObjectKey(owner),
		CreatedBy:   owner,
	}

	if err := s.store.PutObject(ctx, upload.StorageKey, file, size, contentType, upload.Filename); err != nil {
		return nil, err
	}

	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		if rmErr := s.store.RemoveObject(ctx, upload.StorageKey); rmErr != nil {
			slog.Error("orphaned object after failed insert", "key", upload.StorageKey, "error", rmErr)
		}
		return nil, err
	}

	return upload, nil
}

// Download opens the stored bytes of an upload. The caller closes the reader.
func (s *uploadService) Download(ctx context.Context, id uuid.UUID) (*models.Upload, io.ReadCloser, error) {
	upload, err := s.uploadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.store.GetObject(ctx, upload.StorageKey)
	if err != nil {
		return nil, nil, err
	}

	return upload, body, nil
}

// Remove deletes the object first; the record goes only once the object is
// gone, so a store failure leaves both in place.
func (s *uploadService) Remove(ctx context.Context, id uuid.UUID) error {
	upload, err := s.uploadRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.remove(ctx, upload)
}

// RemoveOwnedBy removes every file the owner uploaded. It stops at the first
// failure; files removed up to that point stay removed.
func (s *uploadService) RemoveOwnedBy(ctx context.Context, owner uuid.UUID) error {
	uploads, err := s.uploadRepo.GetByOwner(ctx, owner)
	if err != nil {
		return err
	}

	for i := range uploads {
		if err := s.remove(ctx, &uploads[i]); err != nil {
			return err
		}
	}

	return nil
}

// remove deletes the object before the record, so a storage failure leaves
// the record pointing at bytes that still exist.
func (s *uploadService) remove(ctx context.Context, upload *models.Upload) error {
	if err := s.store.RemoveObject(ctx, upload.StorageKey); err != nil {
		return err
	}

	return s.uploadRepo.Delete(ctx, upload.UUID)
}

func (s *uploadService) GetUpload(ctx context.Context, id uuid.UUID) (*models.Upload, error) {
	return s.uploadRepo.GetByID(ctx, id)
}

func (s *uploadService) ListUploads(ctx context.Context) ([]models.Upload, error) {
	return s.uploadRepo.GetAll(ctx)
}
