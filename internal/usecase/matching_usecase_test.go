package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"talentmatch/internal/domain/candidate"
	"talentmatch/internal/domain/extraction"
	"talentmatch/internal/domain/matching"
	"talentmatch/internal/domain/offer"
	"talentmatch/internal/repository"

	"github.com/google/uuid"
)

type fakeOfferRepo struct {
	offers map[uuid.UUID]offer.Offer
	err    error
}

func (f fakeOfferRepo) GetByID(_ context.Context, id uuid.UUID) (offer.Offer, error) {
	if f.err != nil {
		return offer.Offer{}, f.err
	}
	o, ok := f.offers[id]
	if !ok {
		return offer.Offer{}, repository.ErrOfferNotFound
	}
	return o, nil
}
func (f fakeOfferRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.offers[id]
	return ok, nil
}
func (f fakeOfferRepo) ListActiveIDs(context.Context, int, int) ([]uuid.UUID, error) {
	return nil, nil
}
func (f fakeOfferRepo) ListActiveWithoutSkills(context.Context, int, int) ([]offer.Offer, error) {
	return nil, nil
}
func (f fakeOfferRepo) Upsert(context.Context, []repository.OfferUpsert) error { return nil }

type fakeCandidateRepo struct {
	candidates map[uuid.UUID]candidate.Candidate
	skills     map[uuid.UUID][]candidate.CandidateSkill
}

func (f fakeCandidateRepo) GetByID(_ context.Context, id uuid.UUID) (candidate.Candidate, error) {
	c, ok := f.candidates[id]
	if !ok {
		return candidate.Candidate{}, repository.ErrCandidateNotFound
	}
	return c, nil
}
func (f fakeCandidateRepo) GetByEmail(context.Context, string) (candidate.Candidate, error) {
	return candidate.Candidate{}, repository.ErrCandidateNotFound
}
func (f fakeCandidateRepo) Create(_ context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	return c, nil
}
func (f fakeCandidateRepo) SkillsByCandidateID(_ context.Context, id uuid.UUID) ([]candidate.CandidateSkill, error) {
	return f.skills[id], nil
}
func (f fakeCandidateRepo) ListWithDeclaredSkills(context.Context, int, int) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeOfferSkillRepo struct {
	bySkill map[uuid.UUID][]offer.SkillRequirement
	upserts chan []repository.OfferSkillUpsert
}

func (f fakeOfferSkillRepo) FindByOfferID(_ context.Context, offerID uuid.UUID) ([]offer.SkillRequirement, error) {
	return f.bySkill[offerID], nil
}
func (f fakeOfferSkillRepo) UpsertForOffer(_ context.Context, _ uuid.UUID, items []repository.OfferSkillUpsert) error {
	if f.upserts != nil {
		f.upserts <- items
	}
	return nil
}

type fakeTraceRepo struct {
	inserted chan repository.MatchTrace
}

func (f fakeTraceRepo) Insert(_ context.Context, t repository.MatchTrace) error {
	if f.inserted != nil {
		f.inserted <- t
	}
	return nil
}

type staticCatalog []extraction.CatalogEntry

func (s staticCatalog) Entries(context.Context) ([]extraction.CatalogEntry, error) {
	return s, nil
}

func declaredCandidate(id uuid.UUID) candidate.Candidate {
	return candidate.Candidate{ID: id, Email: "c@example.fr", SkillsDeclared: true}
}

func TestScoreOfferForCandidateOfferNotFound(t *testing.T) {
	uc := NewMatchingUsecase(
		fakeOfferRepo{offers: map[uuid.UUID]offer.Offer{}},
		fakeOfferSkillRepo{}, fakeCandidateRepo{}, nil, nil, nil,
		matching.DefaultConfig(), nil)

	_, err := uc.ScoreOfferForCandidate(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound, got %v", err)
	}
}

func TestScoreOfferForCandidateIncompleteProfile(t *testing.T) {
	offerID, candID := uuid.New(), uuid.New()
	uc := NewMatchingUsecase(
		fakeOfferRepo{offers: map[uuid.UUID]offer.Offer{offerID: {ID: offerID, Title: "Dev"}}},
		fakeOfferSkillRepo{},
		fakeCandidateRepo{candidates: map[uuid.UUID]candidate.Candidate{
			candID: {ID: candID, SkillsDeclared: false},
		}},
		nil, nil, nil, matching.DefaultConfig(), nil)

	_, err := uc.ScoreOfferForCandidate(context.Background(), candID, offerID)
	if !errors.Is(err, ErrIncompleteProfile) {
		t.Fatalf("expected ErrIncompleteProfile, got %v", err)
	}
}

func TestScoreOfferForCandidateDeclaredEmptyProfileScores(t *testing.T) {
	offerID, candID, skillID := uuid.New(), uuid.New(), uuid.New()
	uc := NewMatchingUsecase(
		fakeOfferRepo{offers: map[uuid.UUID]offer.Offer{offerID: {ID: offerID, Title: "Dev"}}},
		fakeOfferSkillRepo{bySkill: map[uuid.UUID][]offer.SkillRequirement{offerID: {
			{OfferID: offerID, SkillID: skillID, SkillSlug: "go", SkillName: "Go", IsRequired: true, Weight: 1},
		}}},
		fakeCandidateRepo{
			candidates: map[uuid.UUID]candidate.Candidate{candID: declaredCandidate(candID)},
			skills:     map[uuid.UUID][]candidate.CandidateSkill{},
		},
		nil, nil, nil, matching.DefaultConfig(), nil)

	out, err := uc.ScoreOfferForCandidate(context.Background(), candID, offerID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Result.Score != 0 {
		t.Fatalf("expected 0 for empty declared profile, got %d", out.Result.Score)
	}
	if out.Explanation == "" || len(out.Recommendations) == 0 {
		t.Fatalf("expected explanation and recommendations")
	}
}

func TestScoreOfferForCandidateHappyPathRecordsTrace(t *testing.T) {
	offerID, candID := uuid.New(), uuid.New()
	goID, pgID := uuid.New(), uuid.New()

	traces := fakeTraceRepo{inserted: make(chan repository.MatchTrace, 1)}
	uc := NewMatchingUsecase(
		fakeOfferRepo{offers: map[uuid.UUID]offer.Offer{offerID: {ID: offerID, Title: "Dev Go"}}},
		fakeOfferSkillRepo{bySkill: map[uuid.UUID][]offer.SkillRequirement{offerID: {
			{OfferID: offerID, SkillID: goID, SkillSlug: "go", SkillName: "Go", IsRequired: true, Weight: 1},
			{OfferID: offerID, SkillID: pgID, SkillSlug: "postgresql", SkillName: "PostgreSQL", IsRequired: true, Weight: 1},
		}}},
		fakeCandidateRepo{
			candidates: map[uuid.UUID]candidate.Candidate{candID: declaredCandidate(candID)},
			skills: map[uuid.UUID][]candidate.CandidateSkill{candID: {
				{CandidateID: candID, SkillID: goID, SkillSlug: "go", SkillName: "Go"},
			}},
		},
		traces, nil, nil, matching.DefaultConfig(), nil)

	out, err := uc.ScoreOfferForCandidate(context.Background(), candID, offerID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Result.Score != 50 {
		t.Fatalf("expected 50, got %d", out.Result.Score)
	}
	if len(out.Result.MatchedSkills) != 1 || len(out.Result.MissingSkills) != 1 {
		t.Fatalf("unexpected skill partition: %+v", out.Result)
	}

	select {
	case tr := <-traces.inserted:
		if tr.CandidateID != candID || tr.OfferID != offerID || tr.Score != 50 {
			t.Fatalf("unexpected trace: %+v", tr)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("trace was never recorded")
	}
}

func TestScoreOfferFallsBackToExtraction(t *testing.T) {
	offerID, candID, pyID := uuid.New(), uuid.New(), uuid.New()

	extractor := extraction.NewExtractor(staticCatalog{
		{SkillID: pyID, Slug: "python", Name: "Python"},
	}, extraction.DefaultMarkers())

	upserts := make(chan []repository.OfferSkillUpsert, 1)
	uc := NewMatchingUsecase(
		fakeOfferRepo{offers: map[uuid.UUID]offer.Offer{offerID: {
			ID:          offerID,
			Title:       "Dev",
			Description: "Python requis pour ce poste.",
		}}},
		fakeOfferSkillRepo{upserts: upserts},
		fakeCandidateRepo{
			candidates: map[uuid.UUID]candidate.Candidate{candID: declaredCandidate(candID)},
			skills: map[uuid.UUID][]candidate.CandidateSkill{candID: {
				{CandidateID: candID, SkillID: pyID, SkillSlug: "python", SkillName: "Python"},
			}},
		},
		nil, extractor, nil, matching.DefaultConfig(), nil)

	out, err := uc.ScoreOfferForCandidate(context.Background(), candID, offerID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Result.Score != 100 {
		t.Fatalf("expected 100 via extracted requirement, got %d", out.Result.Score)
	}

	select {
	case items := <-upserts:
		if len(items) != 1 || items[0].SkillID != pyID || !items[0].IsRequired {
			t.Fatalf("unexpected persisted extraction: %+v", items)
		}
	default:
		t.Fatalf("extracted requirements were not persisted")
	}
}

type fixedDistance struct{ km float64 }

func (f fixedDistance) DistanceKm(context.Context, string, string) (*float64, error) {
	return &f.km, nil
}

func TestScoreOfferAppliesDistanceFilter(t *testing.T) {
	offerID, candID, goID := uuid.New(), uuid.New(), uuid.New()
	mobility := 20.0

	cand := declaredCandidate(candID)
	cand.Location = "Lyon"
	cand.MobilityKm = &mobility

	uc := NewMatchingUsecase(
		fakeOfferRepo{offers: map[uuid.UUID]offer.Offer{offerID: {ID: offerID, Title: "Dev", Location: "Paris"}}},
		fakeOfferSkillRepo{bySkill: map[uuid.UUID][]offer.SkillRequirement{offerID: {
			{OfferID: offerID, SkillID: goID, SkillSlug: "go", SkillName: "Go", IsRequired: true, Weight: 1},
		}}},
		fakeCandidateRepo{
			candidates: map[uuid.UUID]candidate.Candidate{candID: cand},
			skills: map[uuid.UUID][]candidate.CandidateSkill{candID: {
				{CandidateID: candID, SkillID: goID, SkillSlug: "go", SkillName: "Go"},
			}},
		},
		nil, nil, fixedDistance{km: 400}, matching.DefaultConfig(), nil)

	out, err := uc.ScoreOfferForCandidate(context.Background(), candID, offerID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Result.Score != 30 {
		t.Fatalf("expected distance ceiling 30, got %d", out.Result.Score)
	}
	if !out.Result.HardFilters.Evaluated || out.Result.HardFilters.Passed {
		t.Fatalf("expected failed hard filter, got %+v", out.Result.HardFilters)
	}
}
