package post

import (
	"time"

	"github.com/goliatone/go-press/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Post is the canonical catalog record for a Markdown article. The catalog
// mirrors the front matter of the source file (layout, title, author,
// release) plus the rendered body and bookkeeping columns used to detect
// changed sources across imports.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Slug        string         `bun:"slug,notnull,unique" json:"slug"`
	Title       string         `bun:"title,notnull" json:"title"`
	Author      string         `bun:"author,notnull" json:"author"`
	Layout      string         `bun:"layout,notnull,default:'post'" json:"layout"`
	Summary     *string        `bun:"summary" json:"summary,omitempty"`
	Tags        []string       `bun:"tags,type:jsonb" json:"tags,omitempty"`
	Status      domain.Status  `bun:"status,notnull,default:'draft'" json:"status"`
	Body        string         `bun:"body,notnull" json:"body"`
	BodyHTML    string         `bun:"body_html" json:"body_html,omitempty"`
	SourcePath  string         `bun:"source_path" json:"source_path,omitempty"`
	Checksum    string         `bun:"checksum" json:"checksum,omitempty"`
	Metadata    map[string]any `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	PublishedAt *time.Time     `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// IsVisible reports whether the post should appear in generated output.
func (p *Post) IsVisible() bool {
	if p == nil {
		return false
	}
	return p.Status == domain.StatusPublished
}
