package dto

import (
	"talentmatch/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillResponse struct {
	ID       uuid.UUID `json:"id"`
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
	Aliases  []string  `json:"aliases,omitempty"`
}

func NewSkillResponse(s skill.Skill) SkillResponse {
	return SkillResponse{ID: s.ID, Slug: s.Slug, Name: s.Name, Category: s.Category, Aliases: s.Aliases}
}

func NewSkillListResponse(skills []skill.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(skills))
	for _, s := range skills {
		out = append(out, NewSkillResponse(s))
	}
	return out
}
