package migrations

import (
	"context"
	"fmt"

	"github.com/goliatone/go-press/post"
	"github.com/uptrace/bun"
)

// Models lists every bun model the catalog persists. Table creation and the
// embedded SQL migrations must stay in sync with this list.
func Models() []any {
	return []any{
		(*post.Post)(nil),
	}
}

// Run creates the catalog tables when they do not exist yet. It is idempotent
// and safe to call on every module start.
func Run(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("migrations: database is required")
	}
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("migrations: create table %T: %w", model, err)
		}
	}
	return nil
}
