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

type PostResolver struct {
	root *Resolver
	p    *models.Post
}

func (p *PostResolver) UUID() graphql.ID { return toID(p.p.UUID) }

func (p *PostResolver) Title() string { return p.p.Title }

func (p *PostResolver) Slug() string { return p.p.Slug }

func (p *PostResolver) Status() string { return string(p.p.Status) }

func (p *PostResolver) Raw() string { return p.p.Raw }

func (p *PostResolver) HTML() string { return p.p.HTML }

func (p *PostResolver) CreatedAt() graphql.Time { return graphql.Time{Time: p.p.CreatedAt} }

func (p *PostResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: p.p.UpdatedAt} }

// Author goes through the request's user loader so a list of posts costs a
// single users query.
func (p *PostResolver) Author(ctx context.Context) (*UserResolver, error) {
	user, err := p.root.loaders(ctx).UsersByID.Load(ctx, p.p.CreatedBy)()
	if err != nil {
		return nil, resolverError(err)
	}
	if user == nil {
		return nil, nil
	}
	return &UserResolver{user}, nil
}

func (p *PostResolver) Tags(ctx context.Context) ([]*TagResolver, error) {
	tags := p.p.Tags
	if tags == nil {
		loaded, err := p.root.loaders(ctx).TagsByPostID.Load(ctx, p.p.UUID)()
		if err != nil {
			return nil, resolverError(err)
		}
		tags = loaded
	}

	out := make([]*TagResolver, len(tags))
	for i := range tags {
		out[i] = &TagResolver{&tags[i]}
	}
	return out, nil
}

type TagResolver struct {
	t *models.Tag
}

func (t *TagResolver) UUID() graphql.ID { return toID(t.t.UUID) }

func (t *TagResolver) Name() string { return t.t.Name }

type newPostInput struct {
	Title string
	Raw   string
	HTML  string
	Tags  *[]string
}

type updatePostInput struct {
	UUID  graphql.ID
	Title string
	Raw   string
	HTML  string
	Tags  *[]string
}

type changePostStatusInput struct {
	UUID   graphql.ID
	Status string
}

func postInput(title, raw, html string, tags *[]string) service.PostInput {
	in := service.PostInput{Title: title, Raw: raw, HTML: html}
	if tags != nil {
		in.Tags = append([]string{}, *tags...)
	}
	return in
}

func (r *Resolver) postResolvers(posts []models.Post) []*PostResolver {
	out := make([]*PostResolver, len(posts))
	for i := range posts {
		out[i] = &PostResolver{root: r, p: &posts[i]}
	}
	return out
}

// visiblePost hides unpublished posts from callers without post:read. A
// hidden post is indistinguishable from a missing one.
func (r *Resolver) visiblePost(ctx context.Context, post *models.Post, err error) (*PostResolver, error) {
	if apperror.IsKind(err, apperror.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, resolverError(err)
	}
	if post.Status != models.StatusPublished && !r.allowed(ctx, authz.ResourcePost, authz.ActionRead) {
		return nil, nil
	}
	return &PostResolver{root: r, p: post}, nil
}

func (r *Resolver) Post(ctx context.Context, args struct{ UUID graphql.ID }) (*PostResolver, error) {
	id, err := parseID(args.UUID)
	if err != nil {
		return nil, resolverError(err)
	}

	post, err := r.posts.GetPost(ctx, id)
	return r.visiblePost(ctx, post, err)
}

func (r *Resolver) PostBySlug(ctx context.Context, args struct{ Slug string }) (*PostResolver, error) {
	post, err := r.posts.GetPostBySlug(ctx, args.Slug)
	return r.visiblePost(ctx, post, err)
}

// AllPosts narrows anonymous and unprivileged callers to published posts.
func (r *Resolver) AllPosts(ctx context.Context, args struct{ Status *string }) ([]*PostResolver, error) {
	var status *models.Status
	if args.Status != nil {
		s := models.Status(*args.Status)
		status = &s
	}

	if !r.allowed(ctx, authz.ResourcePost, authz.ActionRead) {
		if status != nil && *status != models.StatusPublished {
			return []*PostResolver{}, nil
		}
		published := models.StatusPublished
		status = &published
	}

	posts, err := r.posts.ListPosts(ctx, status)
	if err != nil {
		return nil, resolverError(err)
	}
	return r.postResolvers(posts), nil
}

func (r *Resolver) Tags(ctx context.Context) ([]*TagResolver, error) {
	tags, err := r.posts.ListTags(ctx)
	if err != nil {
		return nil, resolverError(err)
	}

	out := make([]*TagResolver, len(tags))
	for i := range tags {
		out[i] = &TagResolver{&tags[i]}
	}
	return out, nil
}

// NewPost is authored by the caller and always starts as a draft.
func (r *Resolver) NewPost(ctx context.Context, args struct{ Input newPostInput }) (*PostResolver, error) {
	if err := r.guard(ctx, authz.ResourcePost, authz.ActionWrite); err != nil {
		return nil, err
	}
	claims, _ := auth.ClaimsFromContext(ctx)

	in := args.Input
	post, err := r.posts.CreatePost(ctx, claims.Subject, postInput(in.Title, in.Raw, in.HTML, in.Tags))
	if err != nil {
		return nil, resolverError(err)
	}
	return &PostResolver{root: r, p: post}, nil
}

func (r *Resolver) UpdatePost(ctx context.Context, args struct{ Input updatePostInput }) (*PostResolver, error) {
	if err := r.guard(ctx, authz.ResourcePost, authz.ActionWrite); err != nil {
		return nil, err
	}
	in := args.Input
	id, err := parseID(in.UUID)
	if err != nil {
		return nil, resolverError(err)
	}

	post, err := r.posts.UpdatePost(ctx, id, postInput(in.Title, in.Raw, in.HTML, in.Tags))
	if err != nil {
		return nil, resolverError(err)
	}
	return &PostResolver{root: r, p: post}, nil
}

func (r *Resolver) ChangePostStatus(ctx context.Context, args struct{ Input changePostStatusInput }) (*PostResolver, error) {
	if err := r.guard(ctx, authz.ResourcePost, authz.ActionWrite); err != nil {
		return nil, err
	}
	id, err := parseID(args.Input.UUID)
	if err != nil {
		return nil, resolverError(err)
	}

	post, err := r.posts.ChangeStatus(ctx, id, models.Status(args.Input.Status))
	if err != nil {
		return nil, resolverError(err)
	}
	return &PostResolver{root: r, p: post}, nil
}

func (r *Resolver) DeletePost(ctx context.Context, args struct{ UUID graphql.ID }) (graphql.ID, error) {
	if err := r.guard(ctx, authz.ResourcePost, authz.ActionWrite); err != nil {
		return "", err
	}
	id, err := parseID(args.UUID)
	if err != nil {
		return "", resolverError(err)
	}

	if err := r.posts.DeletePost(ctx, id); err != nil {
		return "", resolverError(err)
	}
	return args.UUID, nil
}
