package service

import (
	"context"

	"blogapi/internal/apperror"
	"blogapi/internal/auth"
	"blogapi/internal/models"
	"blogapi/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	passwords *auth.PasswordHasher
	tokens    *auth.TokenCodec
}

func NewAuthService(userRepo repository.UserRepository, passwords *auth.PasswordHasher, tokens *auth.TokenCodec) AuthService {
	return &authService{
		userRepo:  userRepo,
		passwords: passwords,
		tokens:    tokens,
	}
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	invalid := apperror.New(apperror.KindInvalidCredentials, "invalid email or password")

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return "", nil, invalid
		}
		return "", nil, err
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		return "", nil, invalid
	}

	token, err := s.tokens.Sign(user.UUID, string(user.Role))
	if err != nil {
		return "", nil, apperror.Wrap(apperror.KindInternal, "could not issue token", err)
	}

	return token, user, nil
}
