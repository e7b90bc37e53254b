package domain

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return true
	}
	return false
}

type IDType string

const (
	IDPassport       IDType = "passport"
	IDDriversLicense IDType = "drivers_license"
	IDNationalID     IDType = "national_id"
	IDAadhar         IDType = "aadhar"
)

func (t IDType) Valid() bool {
	switch t {
	case IDPassport, IDDriversLicense, IDNationalID, IDAadhar:
		return true
	}
	return false
}

type IDVerification struct {
	ID                 int64              `json:"id" gorm:"primaryKey"`
	UserID             int64              `json:"user_id" gorm:"uniqueIndex;not null"`
	IDType             IDType             `json:"id_type" gorm:"size:20;not null"`
	IDNumber           string             `json:"id_number" gorm:"size:50;not null"`
	FrontImage         string             `json:"front_image" gorm:"size:500;not null"`
	BackImage          string             `json:"back_image" gorm:"size:500;not null"`
	VerificationStatus VerificationStatus `json:"verification_status" gorm:"size:20;not null"`
	IsVerified         bool               `json:"is_verified" gorm:"not null;default:false"`
	SubmissionDate     time.Time          `json:"submission_date"`
	ReviewedAt         *time.Time         `json:"reviewed_at,omitempty"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// SetStatus is the only place IsVerified is derived.
func (v *IDVerification) SetStatus(status VerificationStatus) {
	v.VerificationStatus = status
	v.IsVerified = status == VerificationApproved
}
