package usecase

import (
	"context"
	"errors"
	"math"
	"strings"

	"talentmatch/internal/domain/extraction"
	"talentmatch/internal/domain/matching"
)

// PageFetcher downloads an external offer page and returns its visible
// text. The aggregator provides a colly implementation with a chromedp
// fallback for script-rendered pages.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

type ParseOfferInput struct {
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
}

type ParseOfferOutput struct {
	Title          string
	Company        string
	Location       string
	Skills         []extraction.DetectedSkill
	Metadata       extraction.Metadata
	RelevanceScore int

	Explanation     string
	Recommendations []matching.Recommendation
}

type OfferParseUsecase interface {
	ParseExternalOffer(ctx context.Context, in ParseOfferInput) (ParseOfferOutput, error)
}

type OfferParse struct {
	extractor *extraction.Extractor
	fetcher   PageFetcher
}

func NewOfferParseUsecase(extractor *extraction.Extractor, fetcher PageFetcher) *OfferParse {
	return &OfferParse{extractor: extractor, fetcher: fetcher}
}

func (u *OfferParse) ParseExternalOffer(ctx context.Context, in ParseOfferInput) (ParseOfferOutput, error) {
	text := strings.TrimSpace(in.Description)
	url := strings.TrimSpace(in.URL)

	if text == "" && url == "" {
		return ParseOfferOutput{}, ErrMissingContent
	}

	if text == "" {
		if u.fetcher == nil {
			return ParseOfferOutput{}, ErrFetchFailed
		}
		fetched, err := u.fetcher.FetchText(ctx, url)
		if err != nil {
			return ParseOfferOutput{}, ErrFetchFailed
		}
		text = strings.TrimSpace(fetched)
		if text == "" {
			return ParseOfferOutput{}, ErrFetchFailed
		}
	}

	detected, meta, err := u.extractor.Extract(ctx, text, extraction.Hints{
		Title:   in.Title,
		Company: in.Company,
	})
	if err != nil {
		if errors.Is(err, extraction.ErrCatalogUnavailable) {
			return ParseOfferOutput{}, ErrCatalogUnavailable
		}
		return ParseOfferOutput{}, ErrInternal
	}

	relevance := relevanceScore(meta)
	required, optional := 0, 0
	for _, s := range detected {
		if s.Required {
			required++
		} else {
			optional++
		}
	}
	explanation, recs := matching.ExplainParse(required, optional, relevance)

	return ParseOfferOutput{
		Title:           strings.TrimSpace(in.Title),
		Company:         strings.TrimSpace(in.Company),
		Location:        strings.TrimSpace(in.Location),
		Skills:          detected,
		Metadata:        meta,
		RelevanceScore:  relevance,
		Explanation:     explanation,
		Recommendations: recs,
	}, nil
}

// relevanceScore condenses extraction quality into a 0-100 hint: how
// confident we are that the text is a parsable job offer. Zero detected
// skills means zero relevance; beyond that, mean confidence dominates and
// skill count saturates at eight.
func relevanceScore(meta extraction.Metadata) int {
	if meta.SkillCount == 0 {
		return 0
	}
	breadth := float64(meta.SkillCount) / 8
	if breadth > 1 {
		breadth = 1
	}
	v := 100 * (0.6*meta.Confidence + 0.4*breadth)
	return int(math.Round(v))
}
