package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"blogapi/internal/models"
)

const (
	selectTagsByNamesQuery = `SELECT uuid, name, created_at, updated_at FROM tags WHERE name = ANY($1) ORDER BY name`
	selectTagsQuery        = `SELECT uuid, name, created_at, updated_at FROM tags ORDER BY name`
	// concurrent callers may insert the same names; the unique index on
	// name makes the losing insert a no-op
	upsertTagsQuery = `INSERT INTO tags (uuid, name, created_at, updated_at)
		SELECT unnest($1::uuid[]), unnest($2::text[]), $3, $3
		ON CONFLICT (name) DO NOTHING`
	selectTagsByPostIDsQuery = `SELECT pt.post_uuid, t.uuid, t.name, t.created_at, t.updated_at
		FROM tags t
		JOIN post_tags pt ON pt.tag_uuid = t.uuid
		JOIN posts p ON p.uuid = pt.post_uuid
		WHERE p.uuid = ANY($1::uuid[])
		ORDER BY t.name`
)

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

// FindOrCreate returns a row for every requested name, inserting only the
// names that do not exist yet.
func (r *tagRepository) FindOrCreate(ctx context.Context, names []string) ([]models.Tag, error) {
	return findOrCreateTags(ctx, r.db, names)
}

func (r *tagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}

	if err := r.db.SelectContext(ctx, &tags, selectTagsQuery); err != nil {
		return nil, queryError(err)
	}

	return tags, nil
}

type postTagRow struct {
	PostUUID uuid.UUID `db:"post_uuid"`
	models.Tag
}

// GetByPostIDs loads the tags of many posts with one query. Posts without
// tags are absent from the result.
func (r *tagRepository) GetByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]models.Tag, error) {
	result := make(map[uuid.UUID][]models.Tag, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var rows []postTagRow
	if err := r.db.SelectContext(ctx, &rows, selectTagsByPostIDsQuery, pq.Array(uuidStrings(postIDs))); err != nil {
		return nil, queryError(err)
	}

	for _, row := range rows {
		result[row.PostUUID] = append(result[row.PostUUID], row.Tag)
	}

	return result, nil
}

func findOrCreateTags(ctx context.Context, q sqlx.ExtContext, names []string) ([]models.Tag, error) {
	names = normalizeTagNames(names)
	if len(names) == 0 {
		return []models.Tag{}, nil
	}

	existing := []models.Tag{}
	if err := sqlx.SelectContext(ctx, q, &existing, selectTagsByNamesQuery, pq.Array(names)); err != nil {
		return nil, queryError(err)
	}

	found := make(map[string]struct{}, len(existing))
	for _, tag := range existing {
		found[tag.Name] = struct{}{}
	}

	var missing []string
	for _, name := range names {
		if _, ok := found[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) == 0 {
		return existing, nil
	}

	ids := make([]string, len(missing))
	for i := range missing {
		ids[i] = uuid.NewString()
	}

	if _, err := q.ExecContext(ctx, upsertTagsQuery, pq.Array(ids), pq.Array(missing), time.Now().UTC()); err != nil {
		return nil, queryError(err)
	}

	tags := []models.Tag{}
	if err := sqlx.SelectContext(ctx, q, &tags, selectTagsByNamesQuery, pq.Array(names)); err != nil {
		return nil, queryError(err)
	}

	return tags, nil
}

// normalizeTagNames trims names, drops empty ones and removes duplicates
// while keeping the first occurrence order.
func normalizeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
