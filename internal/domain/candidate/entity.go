package candidate

import (
	"time"

	"github.com/google/uuid"
)

type Candidate struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Location     string

	ExperienceYears *int
	MobilityKm      *float64

	// SkillsDeclared distinguishes "never filled in the skill section"
	// from "declared an empty skill list"; only the former blocks scoring.
	SkillsDeclared bool

	CreatedAt time.Time
}

type CandidateSkill struct {
	ID               uuid.UUID
	CandidateID      uuid.UUID
	SkillID          uuid.UUID
	SkillSlug        string
	SkillName        string
	ProficiencyLevel int
	LastUsedOn       *time.Time
}
