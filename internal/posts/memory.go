package posts

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-press/domain"
	"github.com/goliatone/go-press/post"
	"github.com/google/uuid"
)

// MemoryPostRepository is an in-memory implementation for scaffolding and tests.
type MemoryPostRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*post.Post
	slugIndex map[string]uuid.UUID
}

var _ PostRepository = (*MemoryPostRepository)(nil)

// NewMemoryPostRepository creates an empty in-memory catalog.
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		records:   make(map[uuid.UUID]*post.Post),
		slugIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryPostRepository) Create(_ context.Context, record *post.Post) (*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.slugIndex[record.Slug]; ok && id != record.ID {
		return nil, post.ErrSlugExists
	}
	copied := clonePost(record)
	m.records[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return clonePost(copied), nil
}

func (m *MemoryPostRepository) Update(_ context.Context, record *post.Post) (*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok {
		return nil, &post.NotFoundError{Resource: "post", Key: record.ID.String()}
	}
	if existing.Slug != record.Slug {
		delete(m.slugIndex, existing.Slug)
	}
	copied := clonePost(record)
	m.records[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return clonePost(copied), nil
}

func (m *MemoryPostRepository) GetByID(_ context.Context, id uuid.UUID) (*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, &post.NotFoundError{Resource: "post", Key: id.String()}
	}
	return clonePost(record), nil
}

func (m *MemoryPostRepository) GetBySlug(_ context.Context, slug string) (*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &post.NotFoundError{Resource: "post", Key: slug}
	}
	return clonePost(m.records[id]), nil
}

func (m *MemoryPostRepository) List(_ context.Context) ([]*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*post.Post, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, clonePost(record))
	}
	sortPosts(out)
	return out, nil
}

func (m *MemoryPostRepository) ListByStatus(_ context.Context, status domain.Status) ([]*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*post.Post
	for _, record := range m.records {
		if record.Status == status {
			out = append(out, clonePost(record))
		}
	}
	sortPosts(out)
	return out, nil
}

func (m *MemoryPostRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return &post.NotFoundError{Resource: "post", Key: id.String()}
	}
	delete(m.slugIndex, record.Slug)
	delete(m.records, id)
	return nil
}

// sortPosts orders newest published first, ties broken by slug so listings
// stay deterministic.
func sortPosts(records []*post.Post) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].PublishedAt, records[j].PublishedAt
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return records[i].Slug < records[j].Slug
	})
}

func clonePost(src *post.Post) *post.Post {
	if src == nil {
		return nil
	}

	copied := *src
	if len(src.Tags) > 0 {
		copied.Tags = append([]string(nil), src.Tags...)
	}
	if src.Metadata != nil {
		copied.Metadata = make(map[string]any, len(src.Metadata))
		for k, v := range src.Metadata {
			copied.Metadata[k] = v
		}
	}
	if src.Summary != nil {
		summary := *src.Summary
		copied.Summary = &summary
	}
	if src.PublishedAt != nil {
		published := *src.PublishedAt
		copied.PublishedAt = &published
	}
	return &copied
}
