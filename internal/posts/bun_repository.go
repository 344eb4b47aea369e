package posts

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-press/domain"
	"github.com/goliatone/go-press/post"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunPostRepository persists catalog records through bun.
type BunPostRepository struct {
	repo repository.Repository[*post.Post]
}

var _ PostRepository = (*BunPostRepository)(nil)

func NewBunPostRepository(db *bun.DB) *BunPostRepository {
	return NewBunPostRepositoryWithCache(db, nil, nil)
}

// NewBunPostRepositoryWithCache constructs a post repository with optional
// read-through caching.
func NewBunPostRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPostRepository {
	base := NewPostRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunPostRepository{repo: wrapped}
}

func (r *BunPostRepository) Create(ctx context.Context, record *post.Post) (*post.Post, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("post repository create: %w", err)
	}
	return created, nil
}

func (r *BunPostRepository) Update(ctx context.Context, record *post.Post) (*post.Post, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "post", record.Slug)
	}
	return updated, nil
}

func (r *BunPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "post", id.String())
	}
	return record, nil
}

func (r *BunPostRepository) GetBySlug(ctx context.Context, slug string) (*post.Post, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "post", slug)
	}
	return record, nil
}

func (r *BunPostRepository) List(ctx context.Context) ([]*post.Post, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.published_at DESC NULLS LAST").
				OrderExpr("?TableAlias.slug ASC")
		}),
	)
	return records, err
}

func (r *BunPostRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*post.Post, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.status = ?", status).
				OrderExpr("?TableAlias.published_at DESC NULLS LAST").
				OrderExpr("?TableAlias.slug ASC")
		}),
	)
	return records, err
}

func (r *BunPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &post.Post{ID: id})
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &post.NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
