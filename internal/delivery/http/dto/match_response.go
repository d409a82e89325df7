package dto

import "github.com/google/uuid"

type MatchSkillResponse struct {
	SkillID  uuid.UUID `json:"skill_id"`
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	Required bool      `json:"required"`
}

type HardFiltersResponse struct {
	DistanceKm *float64 `json:"distance_km,omitempty"`
	Evaluated  bool     `json:"evaluated"`
	Passed     bool     `json:"passed"`
}

type RecommendationResponse struct {
	Type     string   `json:"type"`
	Priority string   `json:"priority"`
	Message  string   `json:"message"`
	Skills   []string `json:"skills,omitempty"`
}

type MatchResponse struct {
	OfferID         uuid.UUID                `json:"offer_id"`
	Score           int                      `json:"score"`
	MatchedSkills   []MatchSkillResponse     `json:"matched_skills"`
	MissingSkills   []MatchSkillResponse     `json:"missing_skills"`
	HardFilters     HardFiltersResponse      `json:"hard_filters"`
	Explanation     string                   `json:"explanation"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}
