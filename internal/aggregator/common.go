package aggregator

import (
	"context"
	"net/url"
	"strings"

	"talentmatch/internal/database"

	"github.com/google/uuid"
)

// ensureFeedSource resolves the feed_sources row for name, creating it on
// first run so a fresh database needs no manual setup.
func ensureFeedSource(ctx context.Context, db database.DB, name, baseURL string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, `SELECT id FROM feed_sources WHERE name = $1`, name).Scan(&id)
	if err == nil && id != uuid.Nil {
		return id, nil
	}

	id = uuid.New()
	_, err = db.Exec(ctx,
		`INSERT INTO feed_sources (id, name, base_url, created_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (name) DO UPDATE SET base_url = EXCLUDED.base_url`,
		id, name, baseURL)
	if err != nil {
		return uuid.Nil, err
	}

	// Re-read to pick up the id of a row the conflict clause kept.
	if err := db.QueryRow(ctx, `SELECT id FROM feed_sources WHERE name = $1`, name).Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u.Fragment = ""
	return u.String()
}

func httpHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		"Accept-Language": "fr-FR,fr;q=0.9,en;q=0.6",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	}
}

func pickNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
