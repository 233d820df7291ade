package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"blogapi/internal/apperror"
	"blogapi/internal/models"
	"blogapi/internal/repository"
)

// PostInput is the editable part of a post. A nil Tags slice on update
// keeps the current tags; an empty one clears them.
type PostInput struct {
	Title string   `validate:"required,max=255"`
	Raw   string   `validate:"required"`
	HTML  string   `validate:"required"`
	Tags  []string `validate:"max=32,dive,max=64"`
}

type PostService interface {
	CreatePost(ctx context.Context, author uuid.UUID, in PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, in PostInput) (*models.Post, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status models.Status) (*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	ListPosts(ctx context.Context, status *models.Status) ([]models.Post, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	TagsByPostIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Tag, error)
}

type postService struct {
	postRepo repository.PostRepository
	tagRepo  repository.TagRepository
	validate *validator.Validate
}

func NewPostService(postRepo repository.PostRepository, tagRepo repository.TagRepository, validate *validator.Validate) PostService {
	return &postService{
		postRepo: postRepo,
		tagRepo:  tagRepo,
		validate: validate,
	}
}

func (p *postService) CreatePost(ctx context.Context, author uuid.UUID, in PostInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := p.validate.Struct(in); err != nil {
		return nil, invalidInput(err)
	}

	post := &models.Post{
		UUID:      uuid.New(),
		Title:     in.Title,
		Status:    models.StatusDraft,
		Raw:       in.Raw,
		HTML:      in.HTML,
		CreatedBy: author,
	}
	post.Slug = makeSlug(post.Title, post.UUID)

	if err := p.postRepo.Create(ctx, post, in.Tags); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) UpdatePost(ctx context.Context, id uuid.UUID, in PostInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := p.validate.Struct(in); err != nil {
		return nil, invalidInput(err)
	}

	post := &models.Post{
		UUID:  id,
		Title: in.Title,
		Slug:  makeSlug(in.Title, id),
		Raw:   in.Raw,
		HTML:  in.HTML,
	}

	if err := p.postRepo.Update(ctx, post, in.Tags); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) ChangeStatus(ctx context.Context, id uuid.UUID, status models.Status) (*models.Post, error) {
	if !status.Valid() {
		return nil, apperror.New(apperror.KindInvalidInput, "unknown status "+string(status))
	}

	return p.postRepo.ChangeStatus(ctx, id, status)
}

func (p *postService) DeletePost(ctx context.Context, id uuid.UUID) error {
	return p.postRepo.Delete(ctx, id)
}

func (p *postService) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return p.postRepo.GetByID(ctx, id)
}

func (p *postService) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return p.postRepo.GetBySlug(ctx, slug)
}

func (p *postService) ListPosts(ctx context.Context, status *models.Status) ([]models.Post, error) {
	if status != nil && !status.Valid() {
		return nil, apperror.New(apperror.KindInvalidInput, "unknown status "+string(*status))
	}

	return p.postRepo.GetAll(ctx, status)
}

func (p *postService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return p.tagRepo.GetAll(ctx)
}

func (p *postService) TagsByPostIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Tag, error) {
	return p.tagRepo.GetByPostIDs(ctx, ids)
}

// makeSlug falls back to the post id for titles without any sluggable
// characters.
func makeSlug(title string, id uuid.UUID) string {
	if s := slug.Make(title); s != "" {
		return s
	}
	return id.String()
}
