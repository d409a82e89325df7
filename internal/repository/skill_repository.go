package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"talentmatch/internal/database"
	"talentmatch/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrSkillNotFound = errors.New("skill not found")
	ErrSkillInUse    = errors.New("skill still referenced by candidates or offers")
)

// SkillCatalogRepository is the persistence side of the skill catalog.
// Mutations (Create/Merge/Delete) are admin operations; the matching core
// only reads through ListEntries/FindBySlug/Search.
type SkillCatalogRepository interface {
	ListEntries(ctx context.Context) ([]skill.Skill, error)
	FindBySlug(ctx context.Context, slug string) (skill.Skill, error)
	Search(ctx context.Context, query string, limit int) ([]skill.Skill, error)
	Version(ctx context.Context) (string, error)

	Create(ctx context.Context, name, category string) (skill.Skill, error)
	Merge(ctx context.Context, fromID, intoID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresSkillCatalogRepository struct {
	db database.DB
}

func NewPostgresSkillCatalogRepository(db database.DB) *PostgresSkillCatalogRepository {
	return &PostgresSkillCatalogRepository{db: db}
}

const skillEntryQuery = `
	SELECT s.id, s.slug, s.name, COALESCE(s.category, ''),
	       COALESCE(array_agg(a.alias) FILTER (WHERE a.alias IS NOT NULL), '{}')
	FROM skills s
	LEFT JOIN skill_aliases a ON a.skill_id = s.id`

func (r *PostgresSkillCatalogRepository) ListEntries(ctx context.Context) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx, skillEntryQuery+`
		GROUP BY s.id, s.slug, s.name, s.category
		ORDER BY s.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSkills(rows)
}

func (r *PostgresSkillCatalogRepository) FindBySlug(ctx context.Context, slug string) (skill.Skill, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return skill.Skill{}, ErrSkillNotFound
	}

	rows, err := r.db.Query(ctx, skillEntryQuery+`
		WHERE s.slug = $1
		GROUP BY s.id, s.slug, s.name, s.category
		LIMIT 1`, slug)
	if err != nil {
		return skill.Skill{}, err
	}
	defer rows.Close()

	out, err := scanSkills(rows)
	if err != nil {
		return skill.Skill{}, err
	}
	if len(out) == 0 {
		return skill.Skill{}, ErrSkillNotFound
	}
	return out[0], nil
}

func (r *PostgresSkillCatalogRepository) Search(ctx context.Context, query string, limit int) ([]skill.Skill, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []skill.Skill{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	slugged := skill.NormalizeSlug(query)
	rows, err := r.db.Query(ctx, skillEntryQuery+`
		WHERE s.slug = $1 OR s.slug LIKE $2 OR s.name ILIKE $3
		GROUP BY s.id, s.slug, s.name, s.category
		ORDER BY (s.slug = $1) DESC, (s.slug LIKE $2) DESC, s.name ASC
		LIMIT $4`,
		slugged, slugged+"%", "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSkills(rows)
}

// Version is a cheap stamp that changes on every catalog mutation; the
// read-through cache keys entry snapshots by it.
func (r *PostgresSkillCatalogRepository) Version(ctx context.Context) (string, error) {
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(MAX((EXTRACT(EPOCH FROM updated_at) * 1000)::BIGINT), 0) FROM skills`)

	var count, maxEpoch int64
	if err := row.Scan(&count, &maxEpoch); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%d", count, maxEpoch), nil
}

func (r *PostgresSkillCatalogRepository) Create(ctx context.Context, name, category string) (skill.Skill, error) {
	name = strings.TrimSpace(name)
	slug := skill.NormalizeSlug(name)
	if name == "" || slug == "" {
		return skill.Skill{}, fmt.Errorf("empty skill name")
	}

	id := uuid.New()
	_, err := r.db.Exec(ctx,
		`INSERT INTO skills (id, slug, name, category, created_at, updated_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NOW(), NOW())
		 ON CONFLICT (slug) DO NOTHING`,
		id, slug, name, strings.TrimSpace(category))
	if err != nil {
		return skill.Skill{}, err
	}

	return r.FindBySlug(ctx, slug)
}

// Merge repoints every candidate and offer reference from one skill to
// another, keeps the old name as an alias, and removes the old row.
func (r *PostgresSkillCatalogRepository) Merge(ctx context.Context, fromID, intoID uuid.UUID) error {
	if fromID == uuid.Nil || intoID == uuid.Nil || fromID == intoID {
		return fmt.Errorf("invalid merge pair")
	}

	var fromSlug, fromName string
	row := r.db.QueryRow(ctx, `SELECT slug, name FROM skills WHERE id = $1`, fromID)
	if err := row.Scan(&fromSlug, &fromName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return ErrSkillNotFound
		}
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	// Drop rows that would collide with an existing reference to the
	// target skill, then repoint the rest.
	steps := []struct{ drop, move string }{
		{
			drop: `DELETE FROM candidate_skills cs USING candidate_skills dup
			       WHERE cs.skill_id = $1 AND dup.skill_id = $2 AND dup.candidate_id = cs.candidate_id`,
			move: `UPDATE candidate_skills SET skill_id = $2 WHERE skill_id = $1`,
		},
		{
			drop: `DELETE FROM offer_skills os USING offer_skills dup
			       WHERE os.skill_id = $1 AND dup.skill_id = $2 AND dup.offer_id = os.offer_id`,
			move: `UPDATE offer_skills SET skill_id = $2 WHERE skill_id = $1`,
		},
	}
	for _, s := range steps {
		if _, err := tx.Exec(ctx, s.drop, fromID, intoID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, s.move, fromID, intoID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE skill_aliases SET skill_id = $2 WHERE skill_id = $1 AND alias NOT IN
		 (SELECT alias FROM skill_aliases WHERE skill_id = $2)`, fromID, intoID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM skill_aliases WHERE skill_id = $1`, fromID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO skill_aliases (skill_id, alias) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		intoID, fromName); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM skills WHERE id = $1`, fromID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE skills SET updated_at = NOW() WHERE id = $1`, intoID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes a skill only when nothing references it.
func (r *PostgresSkillCatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrSkillNotFound
	}

	var used bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM candidate_skills WHERE skill_id = $1)
		     OR EXISTS(SELECT 1 FROM offer_skills WHERE skill_id = $1)`, id)
	if err := row.Scan(&used); err != nil {
		return err
	}
	if used {
		return ErrSkillInUse
	}

	affected, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSkillNotFound
	}
	_, _ = r.db.Exec(ctx, `DELETE FROM skill_aliases WHERE skill_id = $1`, id)
	return nil
}

func scanSkills(rows database.Rows) ([]skill.Skill, error) {
	out := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.Slug, &s.Name, &s.Category, &s.Aliases); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
