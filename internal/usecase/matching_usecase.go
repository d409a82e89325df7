package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"talentmatch/internal/domain/extraction"
	"talentmatch/internal/domain/matching"
	"talentmatch/internal/repository"

	"github.com/google/uuid"
)

// DistanceProvider computes the distance in kilometers between a candidate
// location and an offer location. A nil result means the distance is
// unknown; scoring then skips the mobility hard filter.
type DistanceProvider interface {
	DistanceKm(ctx context.Context, from, to string) (*float64, error)
}

type MatchOutput struct {
	CandidateID     uuid.UUID
	OfferID         uuid.UUID
	Result          matching.Result
	Explanation     string
	Recommendations []matching.Recommendation
}

type MatchingUsecase interface {
	ScoreOfferForCandidate(ctx context.Context, candidateID, offerID uuid.UUID) (MatchOutput, error)
}

type Matching struct {
	offers      repository.OfferRepository
	offerSkills repository.OfferSkillRepository
	candidates  repository.CandidateRepository
	traces      repository.MatchTraceRepository

	extractor *extraction.Extractor
	distance  DistanceProvider
	cfg       matching.Config
	logger    *log.Logger
}

func NewMatchingUsecase(
	offers repository.OfferRepository,
	offerSkills repository.OfferSkillRepository,
	candidates repository.CandidateRepository,
	traces repository.MatchTraceRepository,
	extractor *extraction.Extractor,
	distance DistanceProvider,
	cfg matching.Config,
	logger *log.Logger,
) *Matching {
	return &Matching{
		offers:      offers,
		offerSkills: offerSkills,
		candidates:  candidates,
		traces:      traces,
		extractor:   extractor,
		distance:    distance,
		cfg:         cfg,
		logger:      logger,
	}
}

func (u *Matching) ScoreOfferForCandidate(ctx context.Context, candidateID, offerID uuid.UUID) (MatchOutput, error) {
	if candidateID == uuid.Nil {
		return MatchOutput{}, ErrUnauthorized
	}
	if offerID == uuid.Nil {
		return MatchOutput{}, ErrOfferNotFound
	}

	off, err := u.offers.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return MatchOutput{}, ErrOfferNotFound
		}
		return MatchOutput{}, ErrInternal
	}

	cand, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return MatchOutput{}, ErrCandidateNotFound
		}
		return MatchOutput{}, ErrInternal
	}
	if !cand.SkillsDeclared {
		return MatchOutput{}, ErrIncompleteProfile
	}

	candSkills, err := u.candidates.SkillsByCandidateID(ctx, candidateID)
	if err != nil {
		return MatchOutput{}, ErrInternal
	}

	reqs, err := u.requirements(ctx, off.ID, off.Title, off.Description)
	if err != nil {
		return MatchOutput{}, err
	}

	engineSkills := make([]matching.CandidateSkill, 0, len(candSkills))
	for _, cs := range candSkills {
		engineSkills = append(engineSkills, matching.CandidateSkill{
			SkillID:          cs.SkillID,
			Slug:             cs.SkillSlug,
			Name:             cs.SkillName,
			ProficiencyLevel: cs.ProficiencyLevel,
		})
	}

	offerCtx := matching.OfferContext{ExperienceMinYr: off.ExperienceMinYr}
	if u.distance != nil && cand.Location != "" && off.Location != "" {
		// Distance is advisory: a provider outage degrades to "unknown"
		// rather than failing the whole match.
		d, derr := u.distance.DistanceKm(ctx, cand.Location, off.Location)
		if derr != nil {
			if u.logger != nil {
				u.logger.Printf("[Matching] distance lookup failed candidate=%s offer=%s err=%v", candidateID, offerID, derr)
			}
		} else {
			offerCtx.DistanceKm = d
		}
	}

	candCtx := matching.CandidateContext{
		ExperienceYears: cand.ExperienceYears,
		MobilityKm:      cand.MobilityKm,
	}

	res := matching.Score(engineSkills, reqs, candCtx, offerCtx, u.cfg)
	explanation, recs := matching.Explain(res)

	u.recordTrace(candidateID, offerID, res)

	return MatchOutput{
		CandidateID:     candidateID,
		OfferID:         offerID,
		Result:          res,
		Explanation:     explanation,
		Recommendations: recs,
	}, nil
}

// requirements loads the offer's stored skill requirements, falling back to
// on-the-fly extraction for offers ingested before the catalog covered
// them. Freshly extracted requirements are persisted best-effort.
func (u *Matching) requirements(ctx context.Context, offerID uuid.UUID, title, description string) ([]matching.Requirement, error) {
	stored, err := u.offerSkills.FindByOfferID(ctx, offerID)
	if err != nil {
		return nil, ErrInternal
	}

	if len(stored) > 0 {
		reqs := make([]matching.Requirement, 0, len(stored))
		for _, s := range stored {
			reqs = append(reqs, matching.Requirement{
				SkillID:  s.SkillID,
				Slug:     s.SkillSlug,
				Name:     s.SkillName,
				Required: s.IsRequired,
				Weight:   s.Weight,
			})
		}
		return reqs, nil
	}

	if description == "" || u.extractor == nil {
		return nil, nil
	}

	detected, _, err := u.extractor.Extract(ctx, description, extraction.Hints{Title: title})
	if err != nil {
		if errors.Is(err, extraction.ErrCatalogUnavailable) {
			return nil, ErrCatalogUnavailable
		}
		return nil, ErrInternal
	}

	reqs := make([]matching.Requirement, 0, len(detected))
	upserts := make([]repository.OfferSkillUpsert, 0, len(detected))
	for _, d := range detected {
		reqs = append(reqs, matching.Requirement{
			SkillID:  d.SkillID,
			Slug:     d.Slug,
			Name:     d.Name,
			Required: d.Required,
			Weight:   1,
		})
		upserts = append(upserts, repository.OfferSkillUpsert{
			SkillID:    d.SkillID,
			IsRequired: d.Required,
			Weight:     1,
			Confidence: d.Confidence,
		})
	}

	if len(upserts) > 0 {
		if err := u.offerSkills.UpsertForOffer(ctx, offerID, upserts); err != nil && u.logger != nil {
			u.logger.Printf("[Matching] persist extracted skills failed offer=%s err=%v", offerID, err)
		}
	}
	return reqs, nil
}

// recordTrace appends the audit trace without blocking the response.
func (u *Matching) recordTrace(candidateID, offerID uuid.UUID, res matching.Result) {
	if u.traces == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		err := u.traces.Insert(ctx, repository.MatchTrace{
			CandidateID: candidateID,
			OfferID:     offerID,
			Score:       res.Score,
			DistanceKm:  res.HardFilters.DistanceKm,
		})
		if err != nil && u.logger != nil {
			u.logger.Printf("[Matching] trace insert failed candidate=%s offer=%s err=%v", candidateID, offerID, err)
		}
	}()
}
