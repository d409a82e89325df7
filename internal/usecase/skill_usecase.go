package usecase

import (
	"context"
	"errors"
	"strings"

	"talentmatch/internal/domain/skill"
	"talentmatch/internal/repository"

	"github.com/google/uuid"
)

const defaultSearchLimit = 20

// CatalogInvalidator drops cached catalog snapshots after a mutation.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context)
}

type SkillUsecase interface {
	List(ctx context.Context) ([]skill.Skill, error)
	Search(ctx context.Context, query string, limit int) ([]skill.Skill, error)
	GetBySlug(ctx context.Context, slug string) (skill.Skill, error)
	Create(ctx context.Context, name, category string) (skill.Skill, error)
	Merge(ctx context.Context, fromID, intoID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Skills struct {
	repo  repository.SkillCatalogRepository
	cache CatalogInvalidator
}

func NewSkillUsecase(repo repository.SkillCatalogRepository, cache CatalogInvalidator) *Skills {
	return &Skills{repo: repo, cache: cache}
}

func (u *Skills) List(ctx context.Context) ([]skill.Skill, error) {
	out, err := u.repo.ListEntries(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Skills) Search(ctx context.Context, query string, limit int) ([]skill.Skill, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []skill.Skill{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = defaultSearchLimit
	}
	out, err := u.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Skills) GetBySlug(ctx context.Context, slug string) (skill.Skill, error) {
	slug = skill.NormalizeSlug(slug)
	if slug == "" {
		return skill.Skill{}, ErrSkillNotFound
	}
	s, err := u.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, ErrInternal
	}
	return s, nil
}

func (u *Skills) Create(ctx context.Context, name, category string) (skill.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" || skill.NormalizeSlug(name) == "" {
		return skill.Skill{}, ErrInvalidInput
	}

	if _, err := u.repo.FindBySlug(ctx, skill.NormalizeSlug(name)); err == nil {
		return skill.Skill{}, ErrSkillConflict
	} else if !errors.Is(err, repository.ErrSkillNotFound) {
		return skill.Skill{}, ErrInternal
	}

	s, err := u.repo.Create(ctx, name, strings.TrimSpace(category))
	if err != nil {
		return skill.Skill{}, ErrInternal
	}
	u.invalidate(ctx)
	return s, nil
}

// Merge folds the duplicate skill fromID into intoID: profile and offer
// references move over, the old name survives as an alias.
func (u *Skills) Merge(ctx context.Context, fromID, intoID uuid.UUID) error {
	if fromID == uuid.Nil || intoID == uuid.Nil {
		return ErrInvalidInput
	}
	if fromID == intoID {
		return ErrSkillSelfMerge
	}

	if err := u.repo.Merge(ctx, fromID, intoID); err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return ErrSkillNotFound
		}
		return ErrInternal
	}
	u.invalidate(ctx)
	return nil
}

func (u *Skills) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrSkillNotFound):
			return ErrSkillNotFound
		case errors.Is(err, repository.ErrSkillInUse):
			return ErrSkillInUse
		default:
			return ErrInternal
		}
	}
	u.invalidate(ctx)
	return nil
}

func (u *Skills) invalidate(ctx context.Context) {
	if u.cache != nil {
		u.cache.Invalidate(ctx)
	}
}
