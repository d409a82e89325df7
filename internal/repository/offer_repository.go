package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"talentmatch/internal/database"
	"talentmatch/internal/domain/offer"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrOfferNotFound = errors.New("offer not found")

type OfferUpsert struct {
	SourceID        uuid.UUID
	ExternalID      string
	Title           string
	Company         string
	Location        string
	Description     string
	RawDescription  string
	URL             string
	ExperienceMinYr *int
	PostedAt        *time.Time
	IsActive        bool
}

type OfferRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (offer.Offer, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ListActiveIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
	ListActiveWithoutSkills(ctx context.Context, limit, offset int) ([]offer.Offer, error)
	Upsert(ctx context.Context, items []OfferUpsert) error
}

type PostgresOfferRepository struct {
	db database.DB
}

func NewPostgresOfferRepository(db database.DB) *PostgresOfferRepository {
	return &PostgresOfferRepository{db: db}
}

const offerColumns = `id, COALESCE(source_id, '00000000-0000-0000-0000-000000000000'::uuid),
	COALESCE(external_id, ''), title, COALESCE(company, ''), COALESCE(location, ''),
	COALESCE(description, ''), COALESCE(raw_description, ''), COALESCE(url, ''),
	experience_min_years, is_active, posted_at`

func (r *PostgresOfferRepository) GetByID(ctx context.Context, id uuid.UUID) (offer.Offer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+offerColumns+` FROM job_offers WHERE id = $1`, id)

	var o offer.Offer
	err := row.Scan(&o.ID, &o.SourceID, &o.ExternalID, &o.Title, &o.Company, &o.Location,
		&o.Description, &o.RawDescription, &o.URL, &o.ExperienceMinYr, &o.IsActive, &o.PostedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return offer.Offer{}, ErrOfferNotFound
		}
		return offer.Offer{}, err
	}
	return o, nil
}

func (r *PostgresOfferRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM job_offers WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresOfferRepository) ListActiveIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT id FROM job_offers WHERE is_active ORDER BY posted_at DESC NULLS LAST, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveWithoutSkills feeds the batch extraction pipeline: active
// offers that have no skill requirement rows yet.
func (r *PostgresOfferRepository) ListActiveWithoutSkills(ctx context.Context, limit, offset int) ([]offer.Offer, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+offerColumns+` FROM job_offers o
		 WHERE o.is_active
		   AND NOT EXISTS (SELECT 1 FROM offer_skills os WHERE os.offer_id = o.id)
		 ORDER BY o.posted_at DESC NULLS LAST, o.id
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]offer.Offer, 0, limit)
	for rows.Next() {
		var o offer.Offer
		if err := rows.Scan(&o.ID, &o.SourceID, &o.ExternalID, &o.Title, &o.Company, &o.Location,
			&o.Description, &o.RawDescription, &o.URL, &o.ExperienceMinYr, &o.IsActive, &o.PostedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresOfferRepository) Upsert(ctx context.Context, items []OfferUpsert) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	for _, it := range items {
		if strings.TrimSpace(it.Title) == "" || strings.TrimSpace(it.ExternalID) == "" {
			continue
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO job_offers
			   (id, source_id, external_id, title, company, location, description, raw_description,
			    url, experience_min_years, is_active, posted_at, created_at, updated_at)
			 VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''), NULLIF($7,''),
			    NULLIF($8,''), $9, $10, $11, NOW(), NOW())
			 ON CONFLICT (source_id, external_id) DO UPDATE SET
			   title = EXCLUDED.title,
			   company = EXCLUDED.company,
			   location = EXCLUDED.location,
			   description = EXCLUDED.description,
			   raw_description = EXCLUDED.raw_description,
			   url = EXCLUDED.url,
			   experience_min_years = EXCLUDED.experience_min_years,
			   is_active = EXCLUDED.is_active,
			   posted_at = EXCLUDED.posted_at,
			   updated_at = NOW()`,
			it.SourceID, it.ExternalID, it.Title, it.Company, it.Location, it.Description,
			it.RawDescription, it.URL, it.ExperienceMinYr, it.IsActive, it.PostedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
