package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/apperror"
	"blogapi/internal/models"
)

var postColumnNames = []string{"uuid", "title", "slug", "status", "raw", "html", "created_by", "created_at", "updated_at"}

func TestPostRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	authorID := uuid.New()
	rustID, backendID := uuid.New(), uuid.New()

	t.Run("new tag is created and both are linked", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		post := &models.Post{
			UUID:      uuid.New(),
			Title:     "Hello",
			Slug:      "hello",
			Raw:       "# Hello",
			HTML:      "<h1>Hello</h1>",
			CreatedBy: authorID,
		}

		mock.ExpectBegin()
		mock.ExpectExec(insertPostQuery).
			WithArgs(post.UUID.String(), "Hello", "hello", "Draft", "# Hello", "<h1>Hello</h1>",
				authorID.String(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(deletePostTagsQuery).WithArgs(post.UUID.String()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(selectTagsByNamesQuery).WithArgs(pgArray{"rust", "backend"}).
			WillReturnRows(sqlmock.NewRows(tagColumns).AddRow(rustID.String(), "rust", now, now))
		mock.ExpectExec(upsertTagsQuery).
			WithArgs(sqlmock.AnyArg(), pgArray{"backend"}, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(selectTagsByNamesQuery).WithArgs(pgArray{"rust", "backend"}).
			WillReturnRows(sqlmock.NewRows(tagColumns).
				AddRow(backendID.String(), "backend", now, now).
				AddRow(rustID.String(), "rust", now, now))
		mock.ExpectExec(insertPostTagsQuery).
			WithArgs(sqlmock.AnyArg(), post.UUID.String(), pgArray{backendID.String(), rustID.String()}).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := repo.Create(ctx, post, []string{"rust", "backend"})

		require.NoError(t, err)
		assert.Equal(t, models.StatusDraft, post.Status)
		assert.Len(t, post.Tags, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("tag failure rolls the post back", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(insertPostQuery).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(deletePostTagsQuery).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(selectTagsByNamesQuery).WillReturnError(errors.New("connection lost"))
		mock.ExpectRollback()

		err := repo.Create(ctx, &models.Post{Title: "T", Slug: "t", CreatedBy: authorID}, []string{"go"})

		assert.True(t, apperror.IsKind(err, apperror.KindQueryFailed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("post without tags skips the join insert", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(insertPostQuery).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(deletePostTagsQuery).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		post := &models.Post{Title: "T", Slug: "t", CreatedBy: authorID}
		err := repo.Create(ctx, post, nil)

		require.NoError(t, err)
		assert.Empty(t, post.Tags)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	id, authorID := uuid.New(), uuid.New()

	t.Run("replaces the tag set", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)
		goID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(updatePostQuery).
			WithArgs("New title", "new-title", "raw", "<p>raw</p>", sqlmock.AnyArg(), id.String()).
			WillReturnRows(sqlmock.NewRows(postColumnNames).
				AddRow(id.String(), "New title", "new-title", "Published", "raw", "<p>raw</p>", authorID.String(), now, now))
		mock.ExpectExec(deletePostTagsQuery).WithArgs(id.String()).WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectQuery(selectTagsByNamesQuery).WithArgs(pgArray{"go"}).
			WillReturnRows(sqlmock.NewRows(tagColumns).AddRow(goID.String(), "go", now, now))
		mock.ExpectExec(insertPostTagsQuery).
			WithArgs(sqlmock.AnyArg(), id.String(), pgArray{goID.String()}).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		post := &models.Post{UUID: id, Title: "New title", Slug: "new-title", Raw: "raw", HTML: "<p>raw</p>"}
		err := repo.Update(ctx, post, []string{"go"})

		require.NoError(t, err)
		assert.Equal(t, models.StatusPublished, post.Status)
		assert.Equal(t, authorID, post.CreatedBy)
		require.Len(t, post.Tags, 1)
		assert.Equal(t, "go", post.Tags[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil tags keep the set inside the transaction", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(updatePostQuery).
			WithArgs("New title", "new-title", "raw", "<p>raw</p>", sqlmock.AnyArg(), id.String()).
			WillReturnRows(sqlmock.NewRows(postColumnNames).
				AddRow(id.String(), "New title", "new-title", "Draft", "raw", "<p>raw</p>", authorID.String(), now, now))
		mock.ExpectQuery(selectPostTagsQuery).WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(tagColumns).
				AddRow(uuid.NewString(), "go", now, now).
				AddRow(uuid.NewString(), "sql", now, now))
		mock.ExpectCommit()

		post := &models.Post{UUID: id, Title: "New title", Slug: "new-title", Raw: "raw", HTML: "<p>raw</p>"}
		err := repo.Update(ctx, post, nil)

		require.NoError(t, err)
		require.Len(t, post.Tags, 2)
		assert.Equal(t, "sql", post.Tags[1].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing post", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(updatePostQuery).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Update(ctx, &models.Post{UUID: id}, nil)

		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_ChangeStatus(t *testing.T) {
	ctx := context.Background()
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	id, authorID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(updatePostStatusQuery).
		WithArgs("Published", sqlmock.AnyArg(), id.String()).
		WillReturnRows(sqlmock.NewRows(postColumnNames).
			AddRow(id.String(), "T", "t", "Published", "r", "h", authorID.String(), now, now))

	post, err := repo.ChangeStatus(ctx, id, models.StatusPublished)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, post.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetAll(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	authorID := uuid.New()

	t.Run("filtered by status", func(t *testing.T) {
		db, mock := setupMockDB(t)
		status := models.StatusPublished

		mock.ExpectQuery(selectPostsByStatusQuery).WithArgs("Published").
			WillReturnRows(sqlmock.NewRows(postColumnNames).
				AddRow(uuid.NewString(), "T", "t", "Published", "r", "h", authorID.String(), now, now))

		posts, err := NewPostRepository(db).GetAll(ctx, &status)

		require.NoError(t, err)
		assert.Len(t, posts, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all statuses", func(t *testing.T) {
		db, mock := setupMockDB(t)

		mock.ExpectQuery(selectPostsQuery).WillReturnRows(sqlmock.NewRows(postColumnNames))

		posts, err := NewPostRepository(db).GetAll(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	id := uuid.New()

	mock.ExpectQuery(selectPostBySlugQuery).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(deletePostQuery).WithArgs(id.String()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deletePostQuery).WithArgs(id.String()).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.GetBySlug(ctx, "missing")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	assert.NoError(t, repo.Delete(ctx, id))
	assert.True(t, apperror.IsKind(repo.Delete(ctx, id), apperror.KindNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}
