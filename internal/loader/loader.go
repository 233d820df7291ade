// Package loader batches author and tag lookups issued while a single
// GraphQL response is being built.
package loader

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"blogapi/internal/models"
)

const batchWait = 2 * time.Millisecond

type ctxKey struct{}

type UserSource interface {
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

type TagSource interface {
	TagsByPostIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Tag, error)
}

// Loaders lives for one request only; results are never shared across
// requests.
type Loaders struct {
	UsersByID    *dataloader.Loader[uuid.UUID, *models.User]
	TagsByPostID *dataloader.Loader[uuid.UUID, []models.Tag]
}

func NewLoaders(users UserSource, tags TagSource) *Loaders {
	return &Loaders{
		UsersByID: dataloader.NewBatchedLoader(usersBatch(users),
			dataloader.WithWait[uuid.UUID, *models.User](batchWait)),
		TagsByPostID: dataloader.NewBatchedLoader(tagsBatch(tags),
			dataloader.WithWait[uuid.UUID, []models.Tag](batchWait)),
	}
}

// usersBatch resolves a missing id to nil rather than an error.
func usersBatch(users UserSource) dataloader.BatchFunc[uuid.UUID, *models.User] {
	return func(ctx context.Context, ids []uuid.UUID) []*dataloader.Result[*models.User] {
		results := make([]*dataloader.Result[*models.User], len(ids))

		found, err := users.GetUsersByIDs(ctx, ids)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[*models.User]{Error: err}
			}
			return results
		}

		byID := make(map[uuid.UUID]*models.User, len(found))
		for i := range found {
			byID[found[i].UUID] = &found[i]
		}
		for i, id := range ids {
			results[i] = &dataloader.Result[*models.User]{Data: byID[id]}
		}

		return results
	}
}

func tagsBatch(tags TagSource) dataloader.BatchFunc[uuid.UUID, []models.Tag] {
	return func(ctx context.Context, ids []uuid.UUID) []*dataloader.Result[[]models.Tag] {
		results := make([]*dataloader.Result[[]models.Tag], len(ids))

		byPost, err := tags.TagsByPostIDs(ctx, ids)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[[]models.Tag]{Error: err}
			}
			return results
		}

		for i, id := range ids {
			list := byPost[id]
			if list == nil {
				list = []models.Tag{}
			}
			results[i] = &dataloader.Result[[]models.Tag]{Data: list}
		}

		return results
	}
}

func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) (*Loaders, bool) {
	l, ok := ctx.Value(ctxKey{}).(*Loaders)
	return l, ok
}

// Middleware attaches a fresh set of loaders to every request.
func Middleware(users UserSource, tags TagSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(users, tags))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
