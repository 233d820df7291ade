package gql

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"blogapi/internal/apperror"
	"blogapi/internal/auth"
	"blogapi/internal/authz"
	"blogapi/internal/models"
	"blogapi/internal/service"
)

type UserResolver struct {
	u *models.User
}

func (u *UserResolver) UUID() graphql.ID { return toID(u.u.UUID) }

func (u *UserResolver) Email() string { return u.u.Email }

func (u *UserResolver) Role() string { return string(u.u.Role) }

func (u *UserResolver) CreatedAt() graphql.Time { return graphql.Time{Time: u.u.CreatedAt} }

func (u *UserResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: u.u.UpdatedAt} }

type userInput struct {
	Email                string
	Password             string
	PasswordConfirmation string
}

func (in userInput) toService() service.UserInput {
	return service.UserInput{
		Email:                in.Email,
		Password:             in.Password,
		PasswordConfirmation: in.PasswordConfirmation,
	}
}

type changeRoleInput struct {
	UUID graphql.ID
	Role string
}

func (r *Resolver) Me(ctx context.Context) (*UserResolver, error) {
	if err := r.guard(ctx, "", ""); err != nil {
		return nil, err
	}
	claims, _ := auth.ClaimsFromContext(ctx)

	user, err := r.users.GetUser(ctx, claims.Subject)
	if apperror.IsKind(err, apperror.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, resolverError(err)
	}

	return &UserResolver{user}, nil
}

func (r *Resolver) User(ctx context.Context, args struct{ UUID graphql.ID }) (*UserResolver, error) {
	if err := r.guard(ctx, authz.ResourceUser, authz.ActionRead); err != nil {
		return nil, err
	}
	id, err := parseID(args.UUID)
	if err != nil {
		return nil, resolverError(err)
	}

	user, err := r.users.GetUser(ctx, id)
	if apperror.IsKind(err, apperror.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, resolverError(err)
	}

	return &UserResolver{user}, nil
}

func (r *Resolver) Users(ctx context.Context) ([]*UserResolver, error) {
	if err := r.guard(ctx, authz.ResourceUser, authz.ActionRead); err != nil {
		return nil, err
	}

	users, err := r.users.GetUsers(ctx)
	if err != nil {
		return nil, resolverError(err)
	}

	out := make([]*UserResolver, len(users))
	for i := range users {
		out[i] = &UserResolver{&users[i]}
	}
	return out, nil
}

// FirstUser needs no identity: it only succeeds on an empty installation.
func (r *Resolver) FirstUser(ctx context.Context, args struct{ Input userInput }) (*UserResolver, error) {
	user, err := r.users.FirstUser(ctx, args.Input.toService())
	if err != nil {
		return nil, resolverError(err)
	}
	return &UserResolver{user}, nil
}

func (r *Resolver) NewUser(ctx context.Context, args struct{ Input userInput }) (*UserResolver, error) {
	if err := r.guard(ctx, authz.ResourceUser, authz.ActionWrite); err != nil {
		return nil, err
	}

	user, err := r.users.NewUser(ctx, args.Input.toService())
	if err != nil {
		return nil, resolverError(err)
	}
	return &UserResolver{user}, nil
}

func (r *Resolver) ChangeRole(ctx context.Context, args struct{ Input changeRoleInput }) (*UserResolver, error) {
	if err := r.guard(ctx, authz.ResourceUser, authz.ActionWrite); err != nil {
		return nil, err
	}
	id, err := parseID(args.Input.UUID)
	if err != nil {
		return nil, resolverError(err)
	}

	user, err := r.users.ChangeRole(ctx, id, models.Role(args.Input.Role))
	if err != nil {
		return nil, resolverError(err)
	}
	return &UserResolver{user}, nil
}

func (r *Resolver) DeleteUser(ctx context.Context, args struct{ UUID graphql.ID }) (graphql.ID, error) {
	if err := r.guard(ctx, authz.ResourceUser, authz.ActionWrite); err != nil {
		return "", err
	}
	id, err := parseID(args.UUID)
	if err != nil {
		return "", resolverError(err)
	}

	if err := r.users.DeleteUser(ctx, id); err != nil {
		return "", resolverError(err)
	}
	return args.UUID, nil
}
