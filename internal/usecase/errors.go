package usecase

import "errors"

// Sentinel errors shared across usecases. HTTP handlers translate these
// into status codes; repositories never leak their own errors past here.
var (
	ErrInternal     = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	ErrOfferNotFound     = errors.New("offer not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrSkillNotFound     = errors.New("skill not found")

	// ErrMissingContent rejects an offer parse request that carries
	// neither a description nor a fetchable URL.
	ErrMissingContent = errors.New("offer content missing")

	// ErrFetchFailed reports that the external offer page could not be
	// downloaded or yielded no usable text.
	ErrFetchFailed = errors.New("offer fetch failed")

	// ErrIncompleteProfile blocks scoring for a candidate who has never
	// declared a skill profile. An explicitly empty profile scores
	// normally; an undeclared one does not.
	ErrIncompleteProfile = errors.New("candidate profile incomplete")

	// ErrCatalogUnavailable surfaces a skill catalog that could not be
	// loaded from either cache tier or the database.
	ErrCatalogUnavailable = errors.New("skill catalog unavailable")

	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	ErrSkillInUse     = errors.New("skill referenced by profiles or offers")
	ErrSkillConflict  = errors.New("skill already exists")
	ErrSkillSelfMerge = errors.New("cannot merge a skill into itself")
)
