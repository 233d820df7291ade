package gql

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"blogapi/internal/apperror"
	"blogapi/internal/authz"
	"blogapi/internal/models"
)

type FileResolver struct {
	f *models.Upload
}

func (f *FileResolver) UUID() graphql.ID { return toID(f.f.UUID) }

func (f *FileResolver) Filename() string { return f.f.Filename }

func (f *FileResolver) ContentType() string { return f.f.ContentType }

func (f *FileResolver) CreatedAt() graphql.Time { return graphql.Time{Time: f.f.CreatedAt} }

func (f *FileResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: f.f.UpdatedAt} }

func (r *Resolver) File(ctx context.Context, args struct{ UUID graphql.ID }) (*FileResolver, error) {
	if err := r.guard(ctx, authz.ResourceFile, authz.ActionRead); err != nil {
		return nil, err
	}
	id, err := parseID(args.UUID)
	if err != nil {
		return nil, resolverError(err)
	}

	upload, err := r.uploads.GetUpload(ctx, id)
	if apperror.IsKind(err, apperror.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, resolverError(err)
	}
	return &FileResolver{upload}, nil
}

func (r *Resolver) AllFiles(ctx context.Context) ([]*FileResolver, error) {
	uploads, err := r.uploads.ListUploads(ctx)
	if err != nil {
		return nil, resolverError(err)
	}

	out := make([]*FileResolver, len(uploads))
	for i := range uploads {
		out[i] = &FileResolver{&uploads[i]}
	}
	return out, nil
}

func (r *Resolver) RemoveFile(ctx context.Context, args struct{ UUID graphql.ID }) (graphql.ID, error) {
	if err := r.guard(ctx, authz.ResourceFile, authz.ActionWrite); err != nil {
		return "", err
	}
	id, err := parseID(args.UUID)
	if err != nil {
		return "", resolverError(err)
	}

	if err := r.uploads.Remove(ctx, id); err != nil {
		return "", resolverError(err)
	}
	return args.UUID, nil
}
