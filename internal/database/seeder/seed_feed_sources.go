package seeder

import (
	"context"
	"fmt"

	"talentmatch/internal/database"
)

type FeedSourcesSeeder struct{}

func (FeedSourcesSeeder) Name() string { return "feed_sources" }

func (FeedSourcesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "feed_sources", "id", "name", "base_url"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Name    string
		BaseURL string
	}{
		{Name: "France Travail", BaseURL: "https://candidat.francetravail.fr"},
		{Name: "Manual", BaseURL: ""},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO feed_sources (id, name, base_url)
			 VALUES (gen_random_uuid(), $1, NULLIF($2, ''))
			 ON CONFLICT (name) DO NOTHING`,
			it.Name,
			it.BaseURL,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
