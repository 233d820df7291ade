package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"blogapi/internal/apperror"
	"blogapi/internal/auth"
	"blogapi/internal/models"
	"blogapi/internal/repository"
)

type UserInput struct {
	Email                string `validate:"required,email,max=255"`
	Password             string `validate:"required,min=6,max=128"`
	PasswordConfirmation string `validate:"required"`
}

type UserService interface {
	FirstUser(ctx context.Context, in UserInput) (*models.User, error)
	NewUser(ctx context.Context, in UserInput) (*models.User, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	userRepo  repository.UserRepository
	uploads   UploadService
	passwords *auth.PasswordHasher
	validate  *validator.Validate
}

func NewUserService(userRepo repository.UserRepository, uploads UploadService, passwords *auth.PasswordHasher, validate *validator.Validate) UserService {
	return &userService{
		userRepo:  userRepo,
		uploads:   uploads,
		passwords: passwords,
		validate:  validate,
	}
}

// FirstUser bootstraps the installation with an admin. It only works while
// the users table is empty.
func (s *userService) FirstUser(ctx context.Context, in UserInput) (*models.User, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperror.New(apperror.KindAdminAlreadyExists, "an admin already exists")
	}

	return s.create(ctx, in, models.RoleAdmin)
}

func (s *userService) NewUser(ctx context.Context, in UserInput) (*models.User, error) {
	return s.create(ctx, in, models.RoleEditor)
}

func (s *userService) create(ctx context.Context, in UserInput, role models.Role) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, invalidInput(err)
	}

	if in.Password != in.PasswordConfirmation {
		return nil, apperror.New(apperror.KindPasswordMismatch, "password and confirmation do not match")
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: s.passwords.Hash(in.Password),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) ChangeRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperror.New(apperror.KindInvalidInput, "unknown role "+string(role))
	}

	return s.userRepo.UpdateRole(ctx, id, role)
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) GetUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *userService) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	return s.userRepo.GetByIDs(ctx, ids)
}

// DeleteUser removes the user's stored files first. The uploads table
// refuses to lose its owner, so the user row can only go once they are gone.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.uploads.RemoveOwnedBy(ctx, id); err != nil {
		return err
	}

	return s.userRepo.Delete(ctx, id)
}
