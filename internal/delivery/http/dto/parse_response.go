package dto

import "github.com/google/uuid"

type DetectedSkillResponse struct {
	SkillID       uuid.UUID `json:"skill_id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Required      bool      `json:"required"`
	Confidence    float64   `json:"confidence"`
	MatchedPhrase string    `json:"matched_phrase"`
	Occurrences   int       `json:"occurrences"`
}

type ParseMetadataResponse struct {
	Confidence float64 `json:"confidence"`
	SkillCount int     `json:"skill_count"`
}

type SkillsDetectedResponse struct {
	Required []DetectedSkillResponse `json:"required"`
	Optional []DetectedSkillResponse `json:"optional"`
}

type ParsedOfferResponse struct {
	Title           string                   `json:"title"`
	Company         string                   `json:"company"`
	Location        string                   `json:"location"`
	RelevanceScore  int                      `json:"relevance_score"`
	SkillsDetected  SkillsDetectedResponse   `json:"skills_detected"`
	Metadata        ParseMetadataResponse    `json:"metadata"`
	Explanation     string                   `json:"explanation"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}
