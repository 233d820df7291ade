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
	postColumns     = `uuid, title, slug, status, raw, html, created_by, created_at, updated_at`
	insertPostQuery = `INSERT INTO posts (uuid, title, slug, status, raw, html, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	updatePostQuery = `UPDATE posts SET title = $1, slug = $2, raw = $3, html = $4, updated_at = $5 WHERE uuid = $6
		RETURNING ` + postColumns
	updatePostStatusQuery = `UPDATE posts SET status = $1, updated_at = $2 WHERE uuid = $3
		RETURNING ` + postColumns
	selectPostByIDQuery       = `SELECT ` + postColumns + ` FROM posts WHERE uuid = $1`
	selectPostBySlugQuery     = `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`
	selectPostsQuery          = `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`
	selectPostsByStatusQuery  = `SELECT ` + postColumns + ` FROM posts WHERE status = $1 ORDER BY created_at DESC`
	selectPostTagsQuery       = `SELECT t.uuid, t.name, t.created_at, t.updated_at FROM tags t
		JOIN post_tags pt ON pt.tag_uuid = t.uuid WHERE pt.post_uuid = $1 ORDER BY t.name`
	deletePostQuery           = `DELETE FROM posts WHERE uuid = $1`
	deletePostTagsQuery       = `DELETE FROM post_tags WHERE post_uuid = $1`
	insertPostTagsQuery       = `INSERT INTO post_tags (uuid, post_uuid, tag_uuid)
		SELECT unnest($1::uuid[]), $2, unnest($3::uuid[])`
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a draft post and attaches its tags in one transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post, tags []string) error {
	if post.UUID == uuid.Nil {
		post.UUID = uuid.New()
	}
	if post.Status == "" {
		post.Status = models.StatusDraft
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	return WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, insertPostQuery,
			post.UUID, post.Title, post.Slug, post.Status, post.Raw, post.HTML,
			post.CreatedBy, post.CreatedAt, post.UpdatedAt)
		if err != nil {
			return queryError(err)
		}

		post.Tags, err = replacePostTags(ctx, tx, post.UUID, tags)
		return err
	})
}

// Update rewrites the post content. A nil tag list keeps the current tags,
// read after the row lock is taken; any other list replaces the whole set.
func (r *postRepository) Update(ctx context.Context, post *models.Post, tags []string) error {
	return WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var updated models.Post
		err := tx.GetContext(ctx, &updated, updatePostQuery,
			post.Title, post.Slug, post.Raw, post.HTML, time.Now().UTC(), post.UUID)
		if err != nil {
			return getError(err, "post "+post.UUID.String())
		}

		if tags == nil {
			updated.Tags = []models.Tag{}
			err = tx.SelectContext(ctx, &updated.Tags, selectPostTagsQuery, post.UUID)
			if err != nil {
				err = queryError(err)
			}
		} else {
			updated.Tags, err = replacePostTags(ctx, tx, post.UUID, tags)
		}
		if err != nil {
			return err
		}

		*post = updated
		return nil
	})
}

func (r *postRepository) ChangeStatus(ctx context.Context, id uuid.UUID, status models.Status) (*models.Post, error) {
	var post models.Post

	err := r.db.GetContext(ctx, &post, updatePostStatusQuery, status, time.Now().UTC(), id)
	if err != nil {
		return nil, getError(err, "post "+id.String())
	}

	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post

	if err := r.db.GetContext(ctx, &post, selectPostByIDQuery, id); err != nil {
		return nil, getError(err, "post "+id.String())
	}

	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post

	if err := r.db.GetContext(ctx, &post, selectPostBySlugQuery, slug); err != nil {
		return nil, getError(err, "post "+slug)
	}

	return &post, nil
}

// GetAll lists posts newest first, optionally restricted to one status.
func (r *postRepository) GetAll(ctx context.Context, status *models.Status) ([]models.Post, error) {
	posts := []models.Post{}

	var err error
	if status != nil {
		err = r.db.SelectContext(ctx, &posts, selectPostsByStatusQuery, *status)
	} else {
		err = r.db.SelectContext(ctx, &posts, selectPostsQuery)
	}
	if err != nil {
		return nil, queryError(err)
	}

	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, deletePostQuery, id)
	if err != nil {
		return queryError(err)
	}

	return expectAffected(result, "post "+id.String())
}

// replacePostTags drops every join row of the post, then links it to the
// found-or-created tags.
func replacePostTags(ctx context.Context, tx *sqlx.Tx, postID uuid.UUID, names []string) ([]models.Tag, error) {
	if _, err := tx.ExecContext(ctx, deletePostTagsQuery, postID); err != nil {
		return nil, queryError(err)
	}

	tags, err := findOrCreateTags(ctx, tx, names)
	if err != nil {
		return nil, err
	}

	if len(tags) == 0 {
		return tags, nil
	}

	joinIDs := make([]string, len(tags))
	tagIDs := make([]string, len(tags))
	for i, tag := range tags {
		joinIDs[i] = uuid.NewString()
		tagIDs[i] = tag.UUID.String()
	}

	if _, err := tx.ExecContext(ctx, insertPostTagsQuery, pq.Array(joinIDs), postID, pq.Array(tagIDs)); err != nil {
		return nil, queryError(err)
	}

	return tags, nil
}
