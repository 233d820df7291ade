package test

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"blogapi/internal/models"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, owner uuid.UUID, filename, contentType string, file io.Reader, size int64) (*models.Upload, error) {
	args := m.Called(ctx, owner, filename, contentType, file, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Upload), args.Error(1)
}

func (m *MockUploadService) Download(ctx context.Context, id uuid.UUID) (*models.Upload, io.ReadCloser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Upload), args.Get(1).(io.ReadCloser), args.Error(2)
}

func (m *MockUploadService) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUploadService) RemoveOwnedBy(ctx context.Context, owner uuid.UUID) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockUploadService) GetUpload(ctx context.Context, id uuid.UUID) (*models.Upload, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Upload), args.Error(1)
}

func (m *MockUploadService) ListUploads(ctx context.Context) ([]models.Upload, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Upload), args.Error(1)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) CountTables(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
