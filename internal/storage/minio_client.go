package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"blogapi/internal/apperror"
	"blogapi/internal/config"
)

// ObjectStore keeps upload bytes addressed by an opaque key.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, file io.Reader, size int64, contentType, filename string) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, key string) error
}

type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(ctx context.Context, cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	m := &MinIOClient{client: client, bucket: cfg.MinIO.BucketName}
	if err := m.ensureBucket(ctx, cfg.MinIO.Region); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context, region string) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", m.bucket, err)
	}

	slog.Info("bucket created", "bucket", m.bucket)
	return nil
}

func (m *MinIOClient) PutObject(ctx context.Context, key string, file io.Reader, size int64, contentType, filename string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": filename,
			},
		})
	if err != nil {
		return apperror.StorageFailed(fmt.Errorf("put %s: %w", key, err))
	}
	return nil
}

// GetObject opens the object for streaming. The caller closes the reader.
func (m *MinIOClient) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, objectError(key, err)
	}

	// GetObject is lazy; Stat surfaces a missing key before any bytes are written
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, objectError(key, err)
	}

	return obj, nil
}

func (m *MinIOClient) RemoveObject(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return apperror.StorageFailed(fmt.Errorf("remove %s: %w", key, err))
	}
	return nil
}

func objectError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return apperror.Wrap(apperror.KindNotFound, "file content not found", err)
	}
	return apperror.StorageFailed(fmt.Errorf("get %s: %w", key, err))
}

// ObjectKey returns a fresh key in the owner's namespace. It never contains
// the original filename.
func ObjectKey(owner uuid.UUID) string {
	return owner.String() + "/" + uuid.NewString()
}
