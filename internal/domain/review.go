package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type CaregiverReview struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	CaregiverID int64          `json:"caregiver_id" gorm:"not null;uniqueIndex:idx_review_caregiver_reviewer"`
	ReviewerID  int64          `json:"reviewer_id" gorm:"not null;uniqueIndex:idx_review_caregiver_reviewer;index"`
	Reviewer    *PregnantWoman `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE"`
	Rating      int            `json:"rating" gorm:"not null"`
	Comment     string         `json:"comment" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
