package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"blogapi/internal/apperror"
	"blogapi/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TagRepository interface {
	FindOrCreate(ctx context.Context, names []string) ([]models.Tag, error)
	GetAll(ctx context.Context) ([]models.Tag, error)
	GetByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]models.Tag, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tags []string) error
	Update(ctx context.Context, post *models.Post, tags []string) error
	ChangeStatus(ctx context.Context, id uuid.UUID, status models.Status) (*models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetAll(ctx context.Context, status *models.Status) ([]models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UploadRepository interface {
	Create(ctx context.Context, upload *models.Upload) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Upload, error)
	GetAll(ctx context.Context) ([]models.Upload, error)
	GetByOwner(ctx context.Context, owner uuid.UUID) ([]models.Upload, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TablesRepository interface {
	CountTablesDB(ctx context.Context) (int, error)
}

type Repository struct {
	User   UserRepository
	Post   PostRepository
	Tag    TagRepository
	Upload UploadRepository
	Tables TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:   NewUserRepository(db),
		Post:   NewPostRepository(db),
		Tag:    NewTagRepository(db),
		Upload: NewUploadRepository(db),
		Tables: NewTablesRepository(db),
	}
}

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// queryError turns a driver error into an apperror. Unique and foreign key
// violations are a conflict, everything else is an infrastructure failure.
func queryError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return apperror.Wrap(apperror.KindConflict,
				fmt.Sprintf("a record with this value already exists (%s)", pqErr.Constraint), err)
		case foreignKeyViolation:
			return apperror.Wrap(apperror.KindConflict,
				fmt.Sprintf("the record is still referenced (%s)", pqErr.Constraint), err)
		}
	}
	return apperror.QueryFailed(err)
}

// getError is queryError plus sql.ErrNoRows mapped to a not-found error.
func getError(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NotFound(what + " not found")
	}
	return queryError(err)
}

func expectAffected(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.QueryFailed(err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(what + " not found")
	}
	return nil
}

// WithTransaction runs fn in a transaction, rolling back when fn fails.
func WithTransaction(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.QueryFailed(err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.QueryFailed(err)
	}

	return nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
