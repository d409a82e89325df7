package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"talentmatch/internal/domain/extraction"
	"talentmatch/internal/domain/matching"

	"github.com/google/uuid"
)

type fakeFetcher struct {
	text string
	err  error
}

func (f fakeFetcher) FetchText(context.Context, string) (string, error) {
	return f.text, f.err
}

func parseCatalog() staticCatalog {
	return staticCatalog{
		{SkillID: uuid.New(), Slug: "python", Name: "Python"},
		{SkillID: uuid.New(), Slug: "docker", Name: "Docker"},
	}
}

func TestParseExternalOfferMissingContent(t *testing.T) {
	uc := NewOfferParseUsecase(extraction.NewExtractor(parseCatalog(), extraction.DefaultMarkers()), nil)

	_, err := uc.ParseExternalOffer(context.Background(), ParseOfferInput{Title: "Dev"})
	if !errors.Is(err, ErrMissingContent) {
		t.Fatalf("expected ErrMissingContent, got %v", err)
	}
}

func TestParseExternalOfferFromDescription(t *testing.T) {
	uc := NewOfferParseUsecase(extraction.NewExtractor(parseCatalog(), extraction.DefaultMarkers()), nil)

	out, err := uc.ParseExternalOffer(context.Background(), ParseOfferInput{
		Title:       "Développeur Backend",
		Company:     "  Acme  ",
		Description: "Python (requis) et Docker apprécié.",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %+v", out.Skills)
	}
	if out.Company != "Acme" {
		t.Fatalf("expected trimmed company, got %q", out.Company)
	}
	if out.RelevanceScore <= 0 {
		t.Fatalf("expected positive relevance, got %d", out.RelevanceScore)
	}
	if out.Metadata.SkillCount != 2 {
		t.Fatalf("unexpected metadata: %+v", out.Metadata)
	}
	if !strings.Contains(out.Explanation, "2 compétence(s)") || !strings.Contains(out.Explanation, "1 requise(s)") {
		t.Fatalf("unexpected explanation: %q", out.Explanation)
	}
}

func TestParseExternalOfferFetchesURL(t *testing.T) {
	uc := NewOfferParseUsecase(
		extraction.NewExtractor(parseCatalog(), extraction.DefaultMarkers()),
		fakeFetcher{text: "Nous cherchons un profil Python requis."})

	out, err := uc.ParseExternalOffer(context.Background(), ParseOfferInput{URL: "https://example.fr/offre/42"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Skills) != 1 || out.Skills[0].Slug != "python" || !out.Skills[0].Required {
		t.Fatalf("expected required python from fetched page, got %+v", out.Skills)
	}
}

func TestParseExternalOfferFetchFailure(t *testing.T) {
	uc := NewOfferParseUsecase(
		extraction.NewExtractor(parseCatalog(), extraction.DefaultMarkers()),
		fakeFetcher{err: errors.New("timeout")})

	_, err := uc.ParseExternalOffer(context.Background(), ParseOfferInput{URL: "https://example.fr/offre/42"})
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestParseExternalOfferEmptyFetchedPage(t *testing.T) {
	uc := NewOfferParseUsecase(
		extraction.NewExtractor(parseCatalog(), extraction.DefaultMarkers()),
		fakeFetcher{text: "   "})

	_, err := uc.ParseExternalOffer(context.Background(), ParseOfferInput{URL: "https://example.fr/offre/42"})
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestParseExternalOfferNoFetcherConfigured(t *testing.T) {
	uc := NewOfferParseUsecase(extraction.NewExtractor(parseCatalog(), extraction.DefaultMarkers()), nil)

	_, err := uc.ParseExternalOffer(context.Background(), ParseOfferInput{URL: "https://example.fr/offre/42"})
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestParseExternalOfferZeroRelevanceWithoutSkills(t *testing.T) {
	uc := NewOfferParseUsecase(extraction.NewExtractor(parseCatalog(), extraction.DefaultMarkers()), nil)

	out, err := uc.ParseExternalOffer(context.Background(), ParseOfferInput{
		Description: "Offre de boulangerie, pétrissage et cuisson.",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.RelevanceScore != 0 || len(out.Skills) != 0 {
		t.Fatalf("expected zero relevance and no skills, got %+v", out)
	}
	if len(out.Recommendations) != 1 || out.Recommendations[0].Type != matching.RecommendationEnrichText {
		t.Fatalf("expected enrich-description recommendation, got %+v", out.Recommendations)
	}
}

func TestParseExternalOfferCatalogDown(t *testing.T) {
	uc := NewOfferParseUsecase(
		extraction.NewExtractor(brokenCatalog{}, extraction.DefaultMarkers()), nil)

	_, err := uc.ParseExternalOffer(context.Background(), ParseOfferInput{Description: "Python requis."})
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

type brokenCatalog struct{}

func (brokenCatalog) Entries(context.Context) ([]extraction.CatalogEntry, error) {
	return nil, errors.New("db down")
}
