package handler

import (
	"errors"
	"strconv"

	"talentmatch/internal/delivery/http/dto"
	"talentmatch/internal/delivery/http/middleware"
	"talentmatch/internal/pkg/response"
	"talentmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

type createSkillRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type mergeSkillRequest struct {
	IntoID uuid.UUID `json:"into_id"`
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.List)
	r.Get("/search", h.Search)
	r.Get("/:slug", h.GetBySlug)
}

// RegisterAdminRoutes mounts the catalog mutations; callers put these
// behind authentication.
func (h *SkillHandler) RegisterAdminRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.Create)
	r.Post("/:skill_id/merge", h.Merge)
	r.Delete("/:skill_id", h.Delete)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	skills, err := h.uc.List(c.Context())
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillListResponse(skills))
}

func (h *SkillHandler) Search(c fiber.Ctx) error {
	limit := parseQueryInt(c, "limit", 20)
	skills, err := h.uc.Search(c.Context(), c.Query("q"), limit)
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillListResponse(skills))
}

func (h *SkillHandler) GetBySlug(c fiber.Ctx) error {
	s, err := h.uc.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillResponse(s))
}

func (h *SkillHandler) Create(c fiber.Ctx) error {
	var req createSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	s, err := h.uc.Create(c.Context(), req.Name, req.Category)
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewSkillResponse(s))
}

func (h *SkillHandler) Merge(c fiber.Ctx) error {
	fromID, err := uuid.Parse(c.Params("skill_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req mergeSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.Merge(c.Context(), fromID, req.IntoID); err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *SkillHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("skill_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.Delete(c.Context(), id); err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func mapSkillUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrSkillConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Skill already exists", nil, err)
	case errors.Is(err, usecase.ErrSkillInUse):
		return middleware.NewAppError(fiber.StatusConflict, "Skill still referenced", nil, err)
	case errors.Is(err, usecase.ErrSkillSelfMerge):
		return middleware.NewAppError(fiber.StatusBadRequest, "Cannot merge a skill into itself", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}
