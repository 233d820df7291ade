package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"blogapi/internal/models"
)

const (
	insertUserQuery = `INSERT INTO users (uuid, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	selectUserByIDQuery    = `SELECT uuid, email, password_hash, role, created_at, updated_at FROM users WHERE uuid = $1`
	selectUserByEmailQuery = `SELECT uuid, email, password_hash, role, created_at, updated_at FROM users WHERE email = $1`
	selectUsersByIDsQuery  = `SELECT uuid, email, password_hash, role, created_at, updated_at FROM users WHERE uuid = ANY($1::uuid[])`
	selectUsersQuery       = `SELECT uuid, email, password_hash, role, created_at, updated_at FROM users ORDER BY created_at`
	countUsersQuery        = `SELECT COUNT(*) FROM users`
	updateUserRoleQuery    = `UPDATE users SET role = $1, updated_at = $2 WHERE uuid = $3
		RETURNING uuid, email, password_hash, role, created_at, updated_at`
	deleteUserQuery = `DELETE FROM users WHERE uuid = $1`
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.UUID == uuid.Nil {
		user.UUID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, insertUserQuery,
		user.UUID, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return queryError(err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User

	if err := r.db.GetContext(ctx, &user, selectUserByIDQuery, id); err != nil {
		return nil, getError(err, "user "+id.String())
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	if err := r.db.GetContext(ctx, &user, selectUserByEmailQuery, email); err != nil {
		return nil, getError(err, "user "+email)
	}

	return &user, nil
}

// GetByIDs returns the users that exist among ids, in no particular order.
func (r *userRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}

	if err := r.db.SelectContext(ctx, &users, selectUsersByIDsQuery, pq.Array(uuidStrings(ids))); err != nil {
		return nil, queryError(err)
	}

	return users, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}

	if err := r.db.SelectContext(ctx, &users, selectUsersQuery); err != nil {
		return nil, queryError(err)
	}

	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int

	if err := r.db.GetContext(ctx, &count, countUsersQuery); err != nil {
		return 0, queryError(err)
	}

	return count, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	var user models.User

	err := r.db.GetContext(ctx, &user, updateUserRoleQuery, role, time.Now().UTC(), id)
	if err != nil {
		return nil, getError(err, "user "+id.String())
	}

	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, deleteUserQuery, id)
	if err != nil {
		return queryError(err)
	}

	return expectAffected(result, "user "+id.String())
}
