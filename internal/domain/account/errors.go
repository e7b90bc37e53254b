package account

import "maternity/internal/pkg/apperr"

var (
	ErrInvalidCredentials    = apperr.New(apperr.KindUnauthorized, "invalid username or password")
	ErrUsernameTaken         = apperr.New(apperr.KindConflict, "username is already taken")
	ErrEmailTaken            = apperr.New(apperr.KindConflict, "email is already registered")
	ErrUserNotFound          = apperr.New(apperr.KindNotFound, "user not found")
	ErrPregnantNotFound      = apperr.New(apperr.KindNotFound, "pregnant profile not found")
	ErrInvalidPregnancyWeek  = apperr.Validation("pregnancy_week must be between 1 and 42")
	ErrInvalidDueDate        = apperr.Validation("due_date must use YYYY-MM-DD")
	ErrNegativeHourlyRate    = apperr.Validation("hourly_rate must not be negative")
	ErrNegativeExperienceAge = apperr.Validation("experience_years must not be negative")
)
