package cache

import (
	"context"
	"errors"
	"testing"

	"talentmatch/internal/domain/skill"
	"talentmatch/internal/repository"

	"github.com/google/uuid"
)

type scriptedSkillRepo struct {
	skills     []skill.Skill
	version    string
	listCalls  int
	versionErr error
	listErr    error
}

func (s *scriptedSkillRepo) ListEntries(context.Context) ([]skill.Skill, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.skills, nil
}

func (s *scriptedSkillRepo) FindBySlug(context.Context, string) (skill.Skill, error) {
	return skill.Skill{}, repository.ErrSkillNotFound
}

func (s *scriptedSkillRepo) Search(context.Context, string, int) ([]skill.Skill, error) {
	return nil, nil
}

func (s *scriptedSkillRepo) Version(context.Context) (string, error) {
	if s.versionErr != nil {
		return "", s.versionErr
	}
	return s.version, nil
}

func (s *scriptedSkillRepo) Create(context.Context, string, string) (skill.Skill, error) {
	return skill.Skill{}, nil
}

func (s *scriptedSkillRepo) Merge(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (s *scriptedSkillRepo) Delete(context.Context, uuid.UUID) error           { return nil }

// A nil Redis wrapper degrades every cache call to a no-op, which makes
// the in-process tier testable on its own.
func TestCachedCatalogServesFromMemoryWhileVersionStable(t *testing.T) {
	repo := &scriptedSkillRepo{
		version: "1-100",
		skills:  []skill.Skill{{ID: uuid.New(), Slug: "go", Name: "Go", Aliases: []string{"golang"}}},
	}
	cc := NewCachedCatalog(repo, nil, 0)

	for i := 0; i < 3; i++ {
		entries, err := cc.Entries(context.Background())
		if err != nil {
			t.Fatalf("entries: %v", err)
		}
		if len(entries) != 1 || entries[0].Slug != "go" || len(entries[0].Aliases) != 1 {
			t.Fatalf("unexpected entries: %+v", entries)
		}
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected a single database read, got %d", repo.listCalls)
	}
}

func TestCachedCatalogReloadsOnVersionChange(t *testing.T) {
	repo := &scriptedSkillRepo{
		version: "1-100",
		skills:  []skill.Skill{{ID: uuid.New(), Slug: "go", Name: "Go"}},
	}
	cc := NewCachedCatalog(repo, nil, 0)

	if _, err := cc.Entries(context.Background()); err != nil {
		t.Fatalf("entries: %v", err)
	}

	repo.version = "2-200"
	repo.skills = append(repo.skills, skill.Skill{ID: uuid.New(), Slug: "python", Name: "Python"})

	entries, err := cc.Entries(context.Background())
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected reload after version bump, got %d entries", len(entries))
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected 2 database reads, got %d", repo.listCalls)
	}
}

func TestCachedCatalogInvalidateForcesReload(t *testing.T) {
	repo := &scriptedSkillRepo{version: "1-100", skills: []skill.Skill{{ID: uuid.New(), Slug: "go", Name: "Go"}}}
	cc := NewCachedCatalog(repo, nil, 0)

	if _, err := cc.Entries(context.Background()); err != nil {
		t.Fatalf("entries: %v", err)
	}
	cc.Invalidate(context.Background())
	if _, err := cc.Entries(context.Background()); err != nil {
		t.Fatalf("entries: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected reload after invalidate, got %d reads", repo.listCalls)
	}
}

func TestCachedCatalogServesStaleOnVersionProbeFailure(t *testing.T) {
	repo := &scriptedSkillRepo{version: "1-100", skills: []skill.Skill{{ID: uuid.New(), Slug: "go", Name: "Go"}}}
	cc := NewCachedCatalog(repo, nil, 0)

	if _, err := cc.Entries(context.Background()); err != nil {
		t.Fatalf("entries: %v", err)
	}

	repo.versionErr = errors.New("db down")
	entries, err := cc.Entries(context.Background())
	if err != nil {
		t.Fatalf("expected stale snapshot, got err: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("unexpected stale entries: %+v", entries)
	}
}

func TestCachedCatalogColdStartFailure(t *testing.T) {
	repo := &scriptedSkillRepo{versionErr: errors.New("db down")}
	cc := NewCachedCatalog(repo, nil, 0)

	if _, err := cc.Entries(context.Background()); err == nil {
		t.Fatalf("expected error with no snapshot available")
	}
}
