package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"talentmatch/internal/domain/candidate"
	"talentmatch/internal/pkg/jwt"
	"talentmatch/internal/repository"

	"github.com/google/uuid"
)

type memoryCandidateRepo struct {
	byID    map[uuid.UUID]candidate.Candidate
	byEmail map[string]candidate.Candidate
}

func newMemoryCandidateRepo() *memoryCandidateRepo {
	return &memoryCandidateRepo{
		byID:    map[uuid.UUID]candidate.Candidate{},
		byEmail: map[string]candidate.Candidate{},
	}
}

func (m *memoryCandidateRepo) GetByID(_ context.Context, id uuid.UUID) (candidate.Candidate, error) {
	c, ok := m.byID[id]
	if !ok {
		return candidate.Candidate{}, repository.ErrCandidateNotFound
	}
	return c, nil
}

func (m *memoryCandidateRepo) GetByEmail(_ context.Context, email string) (candidate.Candidate, error) {
	c, ok := m.byEmail[email]
	if !ok {
		return candidate.Candidate{}, repository.ErrCandidateNotFound
	}
	return c, nil
}

func (m *memoryCandidateRepo) Create(_ context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.byID[c.ID] = c
	m.byEmail[c.Email] = c
	return c, nil
}

func (m *memoryCandidateRepo) SkillsByCandidateID(context.Context, uuid.UUID) ([]candidate.CandidateSkill, error) {
	return nil, nil
}

func (m *memoryCandidateRepo) ListWithDeclaredSkills(context.Context, int, int) ([]uuid.UUID, error) {
	return nil, nil
}

func newAuthForTest() (*Auth, *memoryCandidateRepo) {
	repo := newMemoryCandidateRepo()
	svc := jwt.NewHMACService("access", "refresh", 15*time.Minute, 24*time.Hour)
	return NewAuthUsecase(repo, svc), repo
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _ := newAuthForTest()

	cand, access, refresh, err := uc.Register(context.Background(), RegisterInput{
		Email:    "Marie@Example.FR",
		Password: "motdepasse",
		FullName: "Marie Dupont",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if cand.Email != "marie@example.fr" {
		t.Fatalf("expected lowercased email, got %q", cand.Email)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected token pair")
	}

	logged, _, _, err := uc.Login(context.Background(), LoginInput{
		Email:    "marie@example.fr",
		Password: "motdepasse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != cand.ID {
		t.Fatalf("expected same candidate")
	}
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	uc, _ := newAuthForTest()

	if _, _, _, err := uc.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "motdepasse"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad email, got %v", err)
	}
	if _, _, _, err := uc.Register(context.Background(), RegisterInput{Email: "a@b.fr", Password: "court"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _ := newAuthForTest()

	in := RegisterInput{Email: "marie@example.fr", Password: "motdepasse"}
	if _, _, _, err := uc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, _, err := uc.Register(context.Background(), in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _ := newAuthForTest()

	if _, _, _, err := uc.Register(context.Background(), RegisterInput{Email: "marie@example.fr", Password: "motdepasse"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, _, err := uc.Login(context.Background(), LoginInput{Email: "marie@example.fr", Password: "mauvais-mdp"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	uc, _ := newAuthForTest()

	_, _, refresh, err := uc.Register(context.Background(), RegisterInput{Email: "marie@example.fr", Password: "motdepasse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	access2, refresh2, err := uc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" {
		t.Fatalf("expected new token pair")
	}

	if _, _, err := uc.Refresh(context.Background(), "garbage"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
	if _, _, err := uc.Refresh(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
