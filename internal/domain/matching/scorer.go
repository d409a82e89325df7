package matching

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Config carries every scoring constant so policy can be tuned and tested
// without touching the algorithm.
type Config struct {
	// OptionalWeightFactor scales an optional requirement's contribution
	// to both numerator and denominator of the overlap score.
	OptionalWeightFactor float64

	// NeutralScore is the base score when the offer declares no skills.
	NeutralScore float64

	// ExperienceBonus is added when the candidate meets the offer's
	// minimum years of experience.
	ExperienceBonus float64

	// ExperiencePenaltyPerYear and ExperiencePenaltyMax shape the
	// deduction for missing years; the deduction never takes the score
	// below half the base score.
	ExperiencePenaltyPerYear float64
	ExperiencePenaltyMax     float64

	// DistanceCeiling caps the final score when the distance hard filter
	// fails: a perfect skill match stays useless if the candidate cannot
	// reach the workplace.
	DistanceCeiling float64
}

func DefaultConfig() Config {
	return Config{
		OptionalWeightFactor:     0.5,
		NeutralScore:             50,
		ExperienceBonus:          5,
		ExperiencePenaltyPerYear: 2,
		ExperiencePenaltyMax:     10,
		DistanceCeiling:          30,
	}
}

type CandidateSkill struct {
	SkillID          uuid.UUID
	Slug             string
	Name             string
	ProficiencyLevel int
}

type CandidateContext struct {
	ExperienceYears *int
	MobilityKm      *float64
}

type OfferContext struct {
	// DistanceKm is precomputed by an external geolocation collaborator;
	// nil means unknown and skips the hard filter.
	DistanceKm      *float64
	ExperienceMinYr *int
}

type Requirement struct {
	SkillID  uuid.UUID
	Slug     string
	Name     string
	Required bool
	Weight   float64
}

type SkillRef struct {
	SkillID  uuid.UUID
	Slug     string
	Name     string
	Required bool
}

type HardFilters struct {
	DistanceKm *float64
	Evaluated  bool
	Passed     bool
}

type Result struct {
	Score         int
	BaseScore     float64
	MatchedSkills []SkillRef
	MissingSkills []SkillRef
	HardFilters   HardFilters
}

// Score computes the 0-100 compatibility between a candidate and an offer.
// Pure and deterministic: identical inputs yield identical results, and
// the ordering of the input slices never changes the numeric score.
func Score(candSkills []CandidateSkill, reqs []Requirement, cand CandidateContext, offer OfferContext, cfg Config) Result {
	owned := make(map[uuid.UUID]struct{}, len(candSkills))
	for _, cs := range candSkills {
		if cs.SkillID == uuid.Nil {
			continue
		}
		owned[cs.SkillID] = struct{}{}
	}

	// Fixed accumulation order keeps float summation independent of the
	// caller's slice ordering.
	sorted := make([]Requirement, 0, len(reqs))
	for _, r := range reqs {
		if r.SkillID == uuid.Nil {
			continue
		}
		sorted = append(sorted, r)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name == sorted[j].Name {
			return sorted[i].SkillID.String() < sorted[j].SkillID.String()
		}
		return sorted[i].Name < sorted[j].Name
	})

	var num, den float64
	matched := make([]SkillRef, 0, len(sorted))
	missing := make([]SkillRef, 0)

	for _, r := range sorted {
		w := r.Weight
		if w <= 0 {
			w = 1
		}
		if !r.Required {
			w *= cfg.OptionalWeightFactor
		}
		den += w

		ref := SkillRef{SkillID: r.SkillID, Slug: r.Slug, Name: r.Name, Required: r.Required}
		if _, ok := owned[r.SkillID]; ok {
			num += w
			matched = append(matched, ref)
		} else {
			missing = append(missing, ref)
		}
	}

	base := cfg.NeutralScore
	if den > 0 {
		base = clampFloat(100*num/den, 0, 100)
	}

	score := base
	if offer.ExperienceMinYr != nil && cand.ExperienceYears != nil {
		min := *offer.ExperienceMinYr
		years := *cand.ExperienceYears
		if years >= min {
			score += cfg.ExperienceBonus
		} else {
			penalty := cfg.ExperiencePenaltyPerYear * float64(min-years)
			if penalty > cfg.ExperiencePenaltyMax {
				penalty = cfg.ExperiencePenaltyMax
			}
			floor := base / 2
			score -= penalty
			if score < floor {
				score = floor
			}
		}
	}

	hf := HardFilters{DistanceKm: offer.DistanceKm, Passed: true}
	if offer.DistanceKm != nil && cand.MobilityKm != nil {
		hf.Evaluated = true
		hf.Passed = *offer.DistanceKm <= *cand.MobilityKm
	}
	if hf.Evaluated && !hf.Passed && score > cfg.DistanceCeiling {
		score = cfg.DistanceCeiling
	}

	return Result{
		Score:         int(clampFloat(math.Round(score), 0, 100)),
		BaseScore:     base,
		MatchedSkills: matched,
		MissingSkills: missing,
		HardFilters:   hf,
	}
}

func clampFloat(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
