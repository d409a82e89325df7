package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeCatalog struct {
	entries []CatalogEntry
	err     error
}

func (f fakeCatalog) Entries(context.Context) ([]CatalogEntry, error) {
	return f.entries, f.err
}

func testCatalog() fakeCatalog {
	return fakeCatalog{entries: []CatalogEntry{
		{SkillID: uuid.New(), Slug: "python", Name: "Python"},
		{SkillID: uuid.New(), Slug: "docker", Name: "Docker"},
		{SkillID: uuid.New(), Slug: "kubernetes", Name: "Kubernetes", Aliases: []string{"k8s"}},
		{SkillID: uuid.New(), Slug: "go", Name: "Go", Aliases: []string{"golang"}},
	}}
}

func TestExtractRequiredAndOptional(t *testing.T) {
	e := NewExtractor(testCatalog(), DefaultMarkers())

	text := "Nous recherchons un développeur avec Python (requis) et Docker (un plus)."
	skills, meta, err := e.Extract(context.Background(), text, Hints{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(skills))
	}

	if skills[0].Slug != "python" || !skills[0].Required {
		t.Fatalf("expected python required first, got %+v", skills[0])
	}
	if skills[1].Slug != "docker" || skills[1].Required {
		t.Fatalf("expected docker optional second, got %+v", skills[1])
	}
	for _, s := range skills {
		if s.Confidence <= 0.5 {
			t.Fatalf("expected confidence above 0.5 for exact name match, got %v", s.Confidence)
		}
	}
	if meta.SkillCount != 2 {
		t.Fatalf("expected skill count 2, got %d", meta.SkillCount)
	}
	if meta.Confidence <= 0 || meta.Confidence > 1 {
		t.Fatalf("mean confidence out of range: %v", meta.Confidence)
	}
}

func TestExtractNoMarkerDefaultsToOptional(t *testing.T) {
	e := NewExtractor(testCatalog(), DefaultMarkers())

	skills, _, err := e.Extract(context.Background(), "Environnement technique : Docker.", Hints{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills) != 1 || skills[0].Required {
		t.Fatalf("expected a single optional skill, got %+v", skills)
	}
}

func TestExtractAliasConfidenceLowerThanName(t *testing.T) {
	e := NewExtractor(testCatalog(), DefaultMarkers())

	skills, _, err := e.Extract(context.Background(), "Déploiement sur k8s.", Hints{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills) != 1 || skills[0].Slug != "kubernetes" {
		t.Fatalf("expected kubernetes via alias, got %+v", skills)
	}
	if skills[0].Confidence != 0.5 {
		t.Fatalf("expected alias confidence 0.5, got %v", skills[0].Confidence)
	}
	if skills[0].MatchedPhrase != "k8s" {
		t.Fatalf("expected matched phrase k8s, got %q", skills[0].MatchedPhrase)
	}
}

func TestExtractOccurrencesRaiseConfidence(t *testing.T) {
	e := NewExtractor(testCatalog(), DefaultMarkers())

	text := "Python partout. Python pour l'API. Python pour les scripts."
	skills, _, err := e.Extract(context.Background(), text, Hints{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills) != 1 {
		t.Fatalf("expected 1 skill, got %d", len(skills))
	}
	if skills[0].Occurrences != 3 {
		t.Fatalf("expected 3 occurrences, got %d", skills[0].Occurrences)
	}
	// 0.7 base plus 0.1 per extra occurrence.
	if skills[0].Confidence < 0.89 || skills[0].Confidence > 0.91 {
		t.Fatalf("expected confidence ~0.9, got %v", skills[0].Confidence)
	}
}

func TestExtractAdjacentMentionsEachCount(t *testing.T) {
	e := NewExtractor(testCatalog(), DefaultMarkers())

	// A single space both closes one mention and opens the next.
	skills, _, err := e.Extract(context.Background(), "python python", Hints{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills) != 1 {
		t.Fatalf("expected 1 skill, got %d", len(skills))
	}
	if skills[0].Occurrences != 2 {
		t.Fatalf("expected 2 occurrences, got %d", skills[0].Occurrences)
	}
	if skills[0].Confidence < 0.79 || skills[0].Confidence > 0.81 {
		t.Fatalf("expected confidence ~0.8, got %v", skills[0].Confidence)
	}
}

func TestExtractWordBoundaries(t *testing.T) {
	e := NewExtractor(testCatalog(), DefaultMarkers())

	// "go" inside "argot" or "golang-like" words must not match the Go entry.
	skills, _, err := e.Extract(context.Background(), "Argot et égouts, rien de technique.", Hints{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills) != 0 {
		t.Fatalf("expected no skills, got %+v", skills)
	}
}

func TestExtractUsesTitleHint(t *testing.T) {
	e := NewExtractor(testCatalog(), DefaultMarkers())

	skills, _, err := e.Extract(context.Background(), "Poste en région parisienne.", Hints{Title: "Développeur Python"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills) != 1 || skills[0].Slug != "python" {
		t.Fatalf("expected python from title hint, got %+v", skills)
	}
}

func TestExtractEmptyText(t *testing.T) {
	e := NewExtractor(testCatalog(), DefaultMarkers())

	skills, meta, err := e.Extract(context.Background(), "   ", Hints{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills) != 0 || meta.SkillCount != 0 || meta.Confidence != 0 {
		t.Fatalf("expected empty result, got %+v %+v", skills, meta)
	}
}

func TestExtractCatalogUnavailable(t *testing.T) {
	e := NewExtractor(fakeCatalog{err: errors.New("boom")}, DefaultMarkers())

	_, _, err := e.Extract(context.Background(), "Python requis.", Hints{})
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestExtractDeterministicOrdering(t *testing.T) {
	e := NewExtractor(testCatalog(), DefaultMarkers())

	text := "Docker d'abord, puis Python, enfin Kubernetes."
	first, _, err := e.Extract(context.Background(), text, Hints{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _, err := e.Extract(context.Background(), text, Hints{})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed", i)
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d: result differs at %d: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
	if first[0].Slug != "docker" || first[1].Slug != "python" || first[2].Slug != "kubernetes" {
		t.Fatalf("expected text order docker,python,kubernetes, got %+v", first)
	}
}
