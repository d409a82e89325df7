package offer

import (
	"time"

	"github.com/google/uuid"
)

type Offer struct {
	ID             uuid.UUID
	SourceID       uuid.UUID
	ExternalID     string
	Title          string
	Company        string
	Location       string
	Description    string
	RawDescription string
	URL            string

	ExperienceMinYr *int

	IsActive bool
	PostedAt *time.Time
}

// SkillRequirement is a skill declared (or extracted) on an offer. Weight
// scales its contribution to the match score; it defaults to 1.
type SkillRequirement struct {
	OfferID    uuid.UUID
	SkillID    uuid.UUID
	SkillSlug  string
	SkillName  string
	IsRequired bool
	Weight     float64
	Confidence float64
}
