package service

import (
	"github.com/go-playground/validator/v10"

	"blogapi/internal/apperror"
	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/repository"
	"blogapi/internal/storage"
)

type Service struct {
	User   UserService
	Auth   AuthService
	Post   PostService
	Upload UploadService
	Tables TablesService
}

func NewService(rep *repository.Repository, cfg *config.Config, store storage.ObjectStore, tokens *auth.TokenCodec) *Service {
	validate := validator.New()
	passwords := auth.NewPasswordHasher(cfg.Auth.SecretKey)

	uploads := NewUploadService(rep.Upload, store, cfg.MaxUploadSize)

	return &Service{
		User:   NewUserService(rep.User, uploads, passwords, validate),
		Auth:   NewAuthService(rep.User, passwords, tokens),
		Post:   NewPostService(rep.Post, rep.Tag, validate),
		Upload: uploads,
		Tables: NewTablesService(rep.Tables),
	}
}

func invalidInput(err error) error {
	return apperror.Wrap(apperror.KindInvalidInput, err.Error(), err)
}
