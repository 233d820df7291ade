package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogapi/internal/models"
)

const (
	insertUploadQuery = `INSERT INTO uploads (uuid, filename, content_type, storage_key, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	selectUploadByIDQuery     = `SELECT uuid, filename, content_type, storage_key, created_by, created_at, updated_at FROM uploads WHERE uuid = $1`
	selectUploadsQuery        = `SELECT uuid, filename, content_type, storage_key, created_by, created_at, updated_at FROM uploads ORDER BY created_at DESC`
	selectUploadsByOwnerQuery = `SELECT uuid, filename, content_type, storage_key, created_by, created_at, updated_at FROM uploads
		WHERE created_by = $1 ORDER BY created_at`
	deleteUploadQuery = `DELETE FROM uploads WHERE uuid = $1`
)

type uploadRepository struct {
	db *sqlx.DB
}

func NewUploadRepository(db *sqlx.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, upload *models.Upload) error {
	if upload.UUID == uuid.Nil {
		upload.UUID = uuid.New()
	}
	now := time.Now().UTC()
	upload.CreatedAt = now
	upload.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, insertUploadQuery,
		upload.UUID, upload.Filename, upload.ContentType, upload.StorageKey,
		upload.CreatedBy, upload.CreatedAt, upload.UpdatedAt)
	if err != nil {
		return queryError(err)
	}

	return nil
}

func (r *uploadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Upload, error) {
	var upload models.Upload

	if err := r.db.GetContext(ctx, &upload, selectUploadByIDQuery, id); err != nil {
		return nil, getError(err, "file "+id.String())
	}

	return &upload, nil
}

func (r *uploadRepository) GetAll(ctx context.Context) ([]models.Upload, error) {
	uploads := []models.Upload{}

	if err := r.db.SelectContext(ctx, &uploads, selectUploadsQuery); err != nil {
		return nil, queryError(err)
	}

	return uploads, nil
}

func (r *uploadRepository) GetByOwner(ctx context.Context, owner uuid.UUID) ([]models.Upload, error) {
	uploads := []models.Upload{}

	if err := r.db.SelectContext(ctx, &uploads, selectUploadsByOwnerQuery, owner); err != nil {
		return nil, queryError(err)
	}

	return uploads, nil
}

func (r *uploadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, deleteUploadQuery, id)
	if err != nil {
		return queryError(err)
	}

	return expectAffected(result, "file "+id.String())
}
