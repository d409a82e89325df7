package repository

import (
	"context"

	"talentmatch/internal/database"
	"talentmatch/internal/domain/offer"

	"github.com/google/uuid"
)

type OfferSkillUpsert struct {
	SkillID    uuid.UUID
	IsRequired bool
	Weight     float64
	Confidence float64
}

type OfferSkillRepository interface {
	FindByOfferID(ctx context.Context, offerID uuid.UUID) ([]offer.SkillRequirement, error)
	UpsertForOffer(ctx context.Context, offerID uuid.UUID, items []OfferSkillUpsert) error
}

type PostgresOfferSkillRepository struct {
	db database.DB
}

func NewPostgresOfferSkillRepository(db database.DB) *PostgresOfferSkillRepository {
	return &PostgresOfferSkillRepository{db: db}
}

func (r *PostgresOfferSkillRepository) FindByOfferID(ctx context.Context, offerID uuid.UUID) ([]offer.SkillRequirement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT os.offer_id, os.skill_id, s.slug, s.name, os.is_required,
		        COALESCE(os.weight, 1), COALESCE(os.confidence, 0)
		 FROM offer_skills os
		 JOIN skills s ON s.id = os.skill_id
		 WHERE os.offer_id = $1
		 ORDER BY s.name ASC`, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]offer.SkillRequirement, 0)
	for rows.Next() {
		var sr offer.SkillRequirement
		if err := rows.Scan(&sr.OfferID, &sr.SkillID, &sr.SkillSlug, &sr.SkillName,
			&sr.IsRequired, &sr.Weight, &sr.Confidence); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresOfferSkillRepository) UpsertForOffer(ctx context.Context, offerID uuid.UUID, items []OfferSkillUpsert) error {
	if offerID == uuid.Nil {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := tx.Exec(ctx, `DELETE FROM offer_skills WHERE offer_id = $1`, offerID); err != nil {
		return err
	}

	for _, it := range items {
		if it.SkillID == uuid.Nil {
			continue
		}
		w := it.Weight
		if w <= 0 {
			w = 1
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO offer_skills (offer_id, skill_id, is_required, weight, confidence)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (offer_id, skill_id) DO UPDATE SET
			   is_required = EXCLUDED.is_required,
			   weight = EXCLUDED.weight,
			   confidence = EXCLUDED.confidence`,
			offerID, it.SkillID, it.IsRequired, w, it.Confidence); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
