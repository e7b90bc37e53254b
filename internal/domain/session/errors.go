package session

import "maternity/internal/pkg/apperr"

var (
	ErrSessionNotFound   = apperr.New(apperr.KindNotFound, "session not found")
	ErrBookingNotFound   = apperr.New(apperr.KindNotFound, "booking not found")
	ErrNoPregnantProfile = apperr.New(apperr.KindNotFound, "pregnant profile not found")
	ErrAmbiguousRole     = apperr.New(apperr.KindRole, "user must hold exactly one of the pregnant or caregiver profiles")
	ErrSessionFull       = apperr.New(apperr.KindCapacity, "session is full")
	ErrAlreadyBooked     = apperr.New(apperr.KindConflict, "session already booked by this user")
	ErrOwnSession        = apperr.New(apperr.KindPermission, "hosts cannot book their own session")
	ErrActionForbidden   = apperr.New(apperr.KindPermission, "this action is not allowed for your role")
	ErrNotParticipant    = apperr.New(apperr.KindPermission, "only the participant can pay for a booking")
	ErrInvalidTransition = apperr.New(apperr.KindState, "transition not allowed from the current booking status")
	ErrSessionClosed     = apperr.New(apperr.KindState, "session is not open for booking")
	ErrBookingCancelled  = apperr.New(apperr.KindState, "booking is cancelled")

	ErrTitleRequired      = apperr.Validation("title is required")
	ErrInvalidDate        = apperr.Validation("date must use YYYY-MM-DD")
	ErrInvalidTime        = apperr.Validation("start_time must use HH:MM")
	ErrInvalidDuration    = apperr.Validation("duration must be between 1 and 1440 minutes")
	ErrInvalidCapacity    = apperr.Validation("max_participants must be at least 1")
	ErrInvalidSessionType = apperr.Validation("session_type must be free or paid")
	ErrInvalidFee         = apperr.Validation("fee must be positive for paid sessions and zero for free sessions")
	ErrInvalidOrdering    = apperr.Validation("ordering must be one of date, -date, fee, -fee")
	ErrInvalidStatus      = apperr.Validation("unknown booking status")
	ErrPaymentIDRequired  = apperr.Validation("payment_id is required")
)
