package repository

import (
	"context"
	"time"

	"talentmatch/internal/database"

	"github.com/google/uuid"
)

// MatchTrace is the audit record of one scoring computation. Traces are
// append-only: no update or delete path exists in the core.
type MatchTrace struct {
	ID          uuid.UUID
	CandidateID uuid.UUID
	OfferID     uuid.UUID
	Score       int
	DistanceKm  *float64
	CreatedAt   time.Time
}

type MatchTraceRepository interface {
	Insert(ctx context.Context, t MatchTrace) error
}

type PostgresMatchTraceRepository struct {
	db database.DB
}

func NewPostgresMatchTraceRepository(db database.DB) *PostgresMatchTraceRepository {
	return &PostgresMatchTraceRepository{db: db}
}

func (r *PostgresMatchTraceRepository) Insert(ctx context.Context, t MatchTrace) error {
	if t.CandidateID == uuid.Nil || t.OfferID == uuid.Nil {
		return nil
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO match_traces (id, candidate_id, offer_id, score, distance_km, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.CandidateID, t.OfferID, t.Score, t.DistanceKm, t.CreatedAt)
	return err
}
