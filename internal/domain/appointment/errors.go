package appointment

import "maternity/internal/pkg/apperr"

var (
	ErrNotFound          = apperr.New(apperr.KindNotFound, "appointment not found")
	ErrNotPatient        = apperr.New(apperr.KindPermission, "only pregnant users can book appointments")
	ErrOwnCaregiver      = apperr.New(apperr.KindPermission, "caregivers cannot book themselves")
	ErrNotParty          = apperr.New(apperr.KindPermission, "not a party to this appointment")
	ErrActionForbidden   = apperr.New(apperr.KindPermission, "this action is not allowed for your role")
	ErrInvalidTransition = apperr.New(apperr.KindState, "transition not allowed from the current status")
	ErrUnknownAction     = apperr.Validation("unknown appointment action")
	ErrCaregiverRequired = apperr.Validation("caregiver is required")
	ErrUnknownCaregiver  = apperr.Validation("caregiver does not exist")
	ErrDateRequired      = apperr.Validation("date is required")
	ErrTimeRequired      = apperr.Validation("time is required")
	ErrInvalidDate       = apperr.Validation("date must use YYYY-MM-DD")
	ErrInvalidTime       = apperr.Validation("time must use HH:MM")
	ErrInvalidDuration   = apperr.Validation("duration must be between 1 and 1440 minutes")
	ErrInvalidStatus     = apperr.Validation("unknown appointment status")
)
