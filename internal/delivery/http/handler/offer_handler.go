package handler

import (
	"errors"

	"talentmatch/internal/delivery/http/dto"
	"talentmatch/internal/delivery/http/middleware"
	"talentmatch/internal/domain/matching"
	"talentmatch/internal/pkg/response"
	"talentmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type OfferHandler struct {
	parseUC usecase.OfferParseUsecase
	matchUC usecase.MatchingUsecase
}

type parseOfferRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

func NewOfferHandler(parseUC usecase.OfferParseUsecase, matchUC usecase.MatchingUsecase) *OfferHandler {
	return &OfferHandler{parseUC: parseUC, matchUC: matchUC}
}

func (h *OfferHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/parse", h.Parse)
	r.Get("/:offer_id/match", h.Match)
}

func (h *OfferHandler) Parse(c fiber.Ctx) error {
	var req parseOfferRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	out, err := h.parseUC.ParseExternalOffer(c.Context(), usecase.ParseOfferInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		URL:         req.URL,
	})
	if err != nil {
		return mapOfferUsecaseError(err)
	}

	resp := dto.ParsedOfferResponse{
		Title:          out.Title,
		Company:        out.Company,
		Location:       out.Location,
		RelevanceScore: out.RelevanceScore,
		SkillsDetected: dto.SkillsDetectedResponse{
			Required: make([]dto.DetectedSkillResponse, 0, len(out.Skills)),
			Optional: make([]dto.DetectedSkillResponse, 0, len(out.Skills)),
		},
		Explanation:     out.Explanation,
		Recommendations: make([]dto.RecommendationResponse, 0, len(out.Recommendations)),
		Metadata: dto.ParseMetadataResponse{
			Confidence: out.Metadata.Confidence,
			SkillCount: out.Metadata.SkillCount,
		},
	}
	for _, r := range out.Recommendations {
		resp.Recommendations = append(resp.Recommendations, dto.RecommendationResponse{
			Type:     r.Type,
			Priority: r.Priority,
			Message:  r.Message,
			Skills:   r.Skills,
		})
	}
	for _, s := range out.Skills {
		d := dto.DetectedSkillResponse{
			SkillID:       s.SkillID,
			Slug:          s.Slug,
			Name:          s.Name,
			Required:      s.Required,
			Confidence:    s.Confidence,
			MatchedPhrase: s.MatchedPhrase,
			Occurrences:   s.Occurrences,
		}
		if s.Required {
			resp.SkillsDetected.Required = append(resp.SkillsDetected.Required, d)
		} else {
			resp.SkillsDetected.Optional = append(resp.SkillsDetected.Optional, d)
		}
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, resp)
}

func (h *OfferHandler) Match(c fiber.Ctx) error {
	candidateID, ok := c.Locals(middleware.CtxCandidateIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	offerID, err := uuid.Parse(c.Params("offer_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	out, err := h.matchUC.ScoreOfferForCandidate(c.Context(), candidateID, offerID)
	if err != nil {
		return mapOfferUsecaseError(err)
	}

	resp := dto.MatchResponse{
		OfferID:         out.OfferID,
		Score:           out.Result.Score,
		MatchedSkills:   skillRefs(out.Result.MatchedSkills),
		MissingSkills:   skillRefs(out.Result.MissingSkills),
		Explanation:     out.Explanation,
		Recommendations: make([]dto.RecommendationResponse, 0, len(out.Recommendations)),
		HardFilters: dto.HardFiltersResponse{
			DistanceKm: out.Result.HardFilters.DistanceKm,
			Evaluated:  out.Result.HardFilters.Evaluated,
			Passed:     out.Result.HardFilters.Passed,
		},
	}
	for _, r := range out.Recommendations {
		resp.Recommendations = append(resp.Recommendations, dto.RecommendationResponse{
			Type:     r.Type,
			Priority: r.Priority,
			Message:  r.Message,
			Skills:   r.Skills,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, resp)
}

func skillRefs(in []matching.SkillRef) []dto.MatchSkillResponse {
	out := make([]dto.MatchSkillResponse, 0, len(in))
	for _, s := range in {
		out = append(out, dto.MatchSkillResponse{
			SkillID:  s.SkillID,
			Slug:     s.Slug,
			Name:     s.Name,
			Required: s.Required,
		})
	}
	return out
}

func mapOfferUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrMissingContent):
		return middleware.NewAppError(fiber.StatusBadRequest, "Offer content missing", nil, err)
	case errors.Is(err, usecase.ErrFetchFailed):
		return middleware.NewAppError(fiber.StatusBadGateway, "Offer fetch failed", nil, err)
	case errors.Is(err, usecase.ErrOfferNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Offer not found", nil, err)
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	case errors.Is(err, usecase.ErrIncompleteProfile):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Candidate profile incomplete", nil, err)
	case errors.Is(err, usecase.ErrCatalogUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Skill catalog unavailable", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}
