package review

import "maternity/internal/pkg/apperr"

var (
	ErrInvalidRating     = apperr.Validation("rating must be an integer from 1 to 5")
	ErrCommentTooLong    = apperr.Validation("comment must be at most 2000 characters")
	ErrNotPregnant       = apperr.New(apperr.KindRole, "only pregnant users can review caregivers")
	ErrSelfReview        = apperr.New(apperr.KindPermission, "caregivers cannot review themselves")
	ErrCaregiverNotFound = apperr.New(apperr.KindNotFound, "caregiver not found")
	ErrReviewNotFound    = apperr.New(apperr.KindNotFound, "review not found")
	ErrDuplicateReview   = apperr.New(apperr.KindConflict, "review already exists for this caregiver")
)
