package gql

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/graph-gophers/graphql-go"

	"blogapi/internal/apperror"
	"blogapi/internal/auth"
	"blogapi/internal/authz"
	"blogapi/internal/loader"
	"blogapi/internal/service"
)

// Resolver is the root of both Query and Mutation.
type Resolver struct {
	enforcer *authz.Enforcer
	users    service.UserService
	auth     service.AuthService
	posts    service.PostService
	uploads  service.UploadService
}

func NewResolver(enforcer *authz.Enforcer, svc *service.Service) *Resolver {
	return &Resolver{
		enforcer: enforcer,
		users:    svc.User,
		auth:     svc.Auth,
		posts:    svc.Post,
		uploads:  svc.Upload,
	}
}

// resolverError hands the executor the *apperror.Error itself so its
// extensions reach the response. Infrastructure causes are logged here and
// withheld from the caller.
func resolverError(err error) error {
	if err == nil {
		return nil
	}
	appErr := apperror.From(err)
	if appErr.Internal() {
		slog.Error("graphql resolver failed", "kind", appErr.Kind, "error", appErr.Err)
	}
	return appErr
}

func (r *Resolver) guard(ctx context.Context, resource authz.Resource, action authz.Action) error {
	return resolverError(r.enforcer.Authorize(ctx, resource, action))
}

// allowed is the non-failing form of guard for visibility decisions.
func (r *Resolver) allowed(ctx context.Context, resource authz.Resource, action authz.Action) bool {
	claims, ok := auth.ClaimsFromContext(ctx)
	return ok && r.enforcer.Enforce(claims.Role, string(resource), string(action))
}

func (r *Resolver) loaders(ctx context.Context) *loader.Loaders {
	if l, ok := loader.FromContext(ctx); ok {
		return l
	}
	return loader.NewLoaders(r.users, r.posts)
}

func parseID(id graphql.ID) (uuid.UUID, error) {
	parsed, err := uuid.Parse(string(id))
	if err != nil {
		return uuid.Nil, apperror.Wrap(apperror.KindInvalidUUID, "invalid uuid "+string(id), err)
	}
	return parsed, nil
}

func toID(id uuid.UUID) graphql.ID {
	return graphql.ID(id.String())
}
