package caregiver

import "maternity/internal/pkg/apperr"

var (
	ErrNotFound           = apperr.New(apperr.KindNotFound, "caregiver not found")
	ErrProfileNotFound    = apperr.New(apperr.KindNotFound, "caregiver profile not found")
	ErrExperienceNotFound = apperr.New(apperr.KindNotFound, "experience not found")
	ErrNotCaregiver       = apperr.New(apperr.KindRole, "a caregiver profile is required")
	ErrInvalidOrdering    = apperr.Validation("unsupported ordering")
	ErrInvalidDate        = apperr.Validation("dates must use YYYY-MM-DD")
	ErrEndBeforeStart     = apperr.Validation("end_date must not be before start_date")
	ErrCurrentWithEndDate = apperr.Validation("a current position cannot have an end_date")
	ErrNegativeRate       = apperr.Validation("hourly_rate must not be negative")
	ErrNegativeExperience = apperr.Validation("experience_years must not be negative")
)
