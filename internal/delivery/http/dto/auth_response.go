package dto

import (
	"talentmatch/internal/domain/candidate"

	"github.com/google/uuid"
)

type CandidateResponse struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name,omitempty"`
	Location        string    `json:"location,omitempty"`
	ExperienceYears *int      `json:"experience_years,omitempty"`
	MobilityKm      *float64  `json:"mobility_km,omitempty"`
	SkillsDeclared  bool      `json:"skills_declared"`
}

type AuthResponse struct {
	Candidate    CandidateResponse `json:"candidate"`
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewCandidateResponse(c candidate.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:              c.ID,
		Email:           c.Email,
		FullName:        c.FullName,
		Location:        c.Location,
		ExperienceYears: c.ExperienceYears,
		MobilityKm:      c.MobilityKm,
		SkillsDeclared:  c.SkillsDeclared,
	}
}
