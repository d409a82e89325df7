package usecase

import (
	"context"
	"errors"
	"strings"

	"talentmatch/internal/domain/candidate"
	"talentmatch/internal/pkg/jwt"
	"talentmatch/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Location string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (candidate.Candidate, string, string, error)
	Login(ctx context.Context, in LoginInput) (candidate.Candidate, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type Auth struct {
	candidates repository.CandidateRepository
	jwt        jwt.Service
}

func NewAuthUsecase(candidates repository.CandidateRepository, jwtSvc jwt.Service) *Auth {
	return &Auth{candidates: candidates, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in RegisterInput) (candidate.Candidate, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return candidate.Candidate{}, "", "", ErrInvalidInput
	}
	if len(in.Password) < minPasswordLength {
		return candidate.Candidate{}, "", "", ErrInvalidInput
	}

	if _, err := u.candidates.GetByEmail(ctx, email); err == nil {
		return candidate.Candidate{}, "", "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrCandidateNotFound) {
		return candidate.Candidate{}, "", "", ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return candidate.Candidate{}, "", "", ErrInternal
	}

	cand, err := u.candidates.Create(ctx, candidate.Candidate{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Location:     strings.TrimSpace(in.Location),
	})
	if err != nil {
		return candidate.Candidate{}, "", "", ErrInternal
	}

	return u.issueTokens(cand)
}

func (u *Auth) Login(ctx context.Context, in LoginInput) (candidate.Candidate, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return candidate.Candidate{}, "", "", ErrInvalidCredentials
	}

	cand, err := u.candidates.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return candidate.Candidate{}, "", "", ErrInvalidCredentials
		}
		return candidate.Candidate{}, "", "", ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(cand.PasswordHash), []byte(in.Password)) != nil {
		return candidate.Candidate{}, "", "", ErrInvalidCredentials
	}

	return u.issueTokens(cand)
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}

	cand, err := u.candidates.GetByID(ctx, claims.CandidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", ErrInternal
	}

	_, access, refresh, err := u.issueTokens(cand)
	return access, refresh, err
}

func (u *Auth) issueTokens(cand candidate.Candidate) (candidate.Candidate, string, string, error) {
	access, err := u.jwt.GenerateAccessToken(cand.ID, cand.Email)
	if err != nil {
		return candidate.Candidate{}, "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(cand.ID)
	if err != nil {
		return candidate.Candidate{}, "", "", ErrInternal
	}
	return cand, access, refresh, nil
}
