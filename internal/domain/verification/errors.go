package verification

import "maternity/internal/pkg/apperr"

var (
	ErrNotFound        = apperr.New(apperr.KindNotFound, "verification not found")
	ErrPending         = apperr.New(apperr.KindConflict, "a verification is already pending review")
	ErrAlreadyVerified = apperr.New(apperr.KindConflict, "identity is already verified")
	ErrInvalidIDType   = apperr.Validation("id_type must be one of passport, drivers_license, national_id, aadhar")
	ErrInvalidIDNumber = apperr.Validation("id_number must be 6 to 50 characters")
	ErrImagesRequired  = apperr.Validation("front_image and back_image are required")
	ErrInvalidStatus   = apperr.Validation("status must be pending, approved or rejected")
	ErrInvalidSide     = apperr.Validation("image side must be front or back")
)
