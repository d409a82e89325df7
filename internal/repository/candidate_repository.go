package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"talentmatch/internal/database"
	"talentmatch/internal/domain/candidate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCandidateNotFound = errors.New("candidate not found")

type CandidateRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error)
	GetByEmail(ctx context.Context, email string) (candidate.Candidate, error)
	Create(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error)
	SkillsByCandidateID(ctx context.Context, id uuid.UUID) ([]candidate.CandidateSkill, error)
	ListWithDeclaredSkills(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

const candidateColumns = `id, email, password_hash, COALESCE(full_name, ''), COALESCE(location, ''),
	experience_years, mobility_km, skills_declared_at IS NOT NULL, created_at`

func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	row := r.db.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	return scanCandidate(row)
}

func (r *PostgresCandidateRepository) GetByEmail(ctx context.Context, email string) (candidate.Candidate, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.db.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE email = $1`, email)
	return scanCandidate(row)
}

func (r *PostgresCandidateRepository) Create(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))

	_, err := r.db.Exec(ctx,
		`INSERT INTO candidates (id, email, password_hash, full_name, location, experience_years, mobility_km, created_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, NOW())`,
		c.ID, c.Email, c.PasswordHash, c.FullName, c.Location, c.ExperienceYears, c.MobilityKm)
	if err != nil {
		return candidate.Candidate{}, err
	}
	return r.GetByID(ctx, c.ID)
}

func (r *PostgresCandidateRepository) SkillsByCandidateID(ctx context.Context, id uuid.UUID) ([]candidate.CandidateSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT cs.id, cs.candidate_id, cs.skill_id, s.slug, s.name,
		        COALESCE(cs.proficiency_level, 0), cs.last_used_on
		 FROM candidate_skills cs
		 JOIN skills s ON s.id = cs.skill_id
		 WHERE cs.candidate_id = $1
		 ORDER BY s.name ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]candidate.CandidateSkill, 0)
	for rows.Next() {
		var cs candidate.CandidateSkill
		if err := rows.Scan(&cs.ID, &cs.CandidateID, &cs.SkillID, &cs.SkillSlug, &cs.SkillName, &cs.ProficiencyLevel, &cs.LastUsedOn); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCandidateRepository) ListWithDeclaredSkills(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT id FROM candidates
		 WHERE skills_declared_at IS NOT NULL
		 ORDER BY created_at ASC
		 LIMIT $1 OFFSET $2`, limit, offset)
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

func scanCandidate(row database.Row) (candidate.Candidate, error) {
	var c candidate.Candidate
	err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.FullName, &c.Location,
		&c.ExperienceYears, &c.MobilityKm, &c.SkillsDeclared, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return candidate.Candidate{}, ErrCandidateNotFound
		}
		return candidate.Candidate{}, err
	}
	return c, nil
}
