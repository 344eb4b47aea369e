package posts

import (
	"context"

	"github.com/goliatone/go-press/domain"
	"github.com/goliatone/go-press/post"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PostRepository is the persistence contract the catalog service depends on.
type PostRepository interface {
	Create(ctx context.Context, record *post.Post) (*post.Post, error)
	Update(ctx context.Context, record *post.Post) (*post.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	GetBySlug(ctx context.Context, slug string) (*post.Post, error)
	List(ctx context.Context) ([]*post.Post, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*post.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func NewPostRepository(db *bun.DB) repository.Repository[*post.Post] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*post.Post]{
		NewRecord: func() *post.Post { return &post.Post{} },
		GetID: func(p *post.Post) uuid.UUID {
			return p.ID
		},
		SetID: func(p *post.Post, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *post.Post) string {
			return p.Slug
		},
	})
}
