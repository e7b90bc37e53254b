package domain

import "time"

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// Caregiver.Rating and TotalReviews are derived from CaregiverReview rows
// and are written only by the review aggregator.
type Caregiver struct {
	ID              int64                 `json:"id" gorm:"primaryKey"`
	UserID          int64                 `json:"user_id" gorm:"uniqueIndex;not null"`
	User            *User                 `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Bio             string                `json:"bio" gorm:"type:text"`
	ExperienceYears *int                  `json:"experience_years"`
	HourlyRate      float64               `json:"hourly_rate" gorm:"not null;default:0"`
	IsAvailable     bool                  `json:"is_available" gorm:"not null;index"`
	Rating          float64               `json:"rating" gorm:"not null;default:0;index"`
	TotalReviews    int                   `json:"total_reviews" gorm:"not null;default:0"`
	Certifications  []Certification       `json:"certifications" gorm:"type:text;serializer:json"`
	Specializations []string              `json:"specializations" gorm:"type:text;serializer:json"`
	Experiences     []CaregiverExperience `json:"experiences,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Reviews         []CaregiverReview     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type CaregiverExperience struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	CaregiverID  int64      `json:"caregiver_id" gorm:"not null;index"`
	Title        string     `json:"title" gorm:"size:200;not null"`
	Organization string     `json:"organization" gorm:"size:200;not null"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Description  string     `json:"description,omitempty" gorm:"type:text"`
	IsCurrent    bool       `json:"is_current" gorm:"not null;default:false"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
