package gql

import "context"

type TokenResolver struct {
	token string
}

func (t *TokenResolver) Token() string { return t.token }

type loginInput struct {
	Email    string
	Password string
}

func (r *Resolver) Login(ctx context.Context, args struct{ Input loginInput }) (*TokenResolver, error) {
	token, _, err := r.auth.Login(ctx, args.Input.Email, args.Input.Password)
	if err != nil {
		return nil, resolverError(err)
	}
	return &TokenResolver{token}, nil
}
