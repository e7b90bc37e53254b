package domain

import "time"

type UserRole string

const (
	RolePregnant  UserRole = "pregnant"
	RoleCaregiver UserRole = "caregiver"
)

func (r UserRole) Valid() bool {
	return r == RolePregnant || r == RoleCaregiver
}

type User struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email          string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	PasswordHash   string    `json:"-" gorm:"not null"`
	FirstName      string    `json:"first_name" gorm:"size:150"`
	LastName       string    `json:"last_name" gorm:"size:150"`
	UserType       UserRole  `json:"user_type" gorm:"size:20;not null"`
	PhoneNumber    string    `json:"phone_number,omitempty" gorm:"size:20"`
	Address        string    `json:"address,omitempty" gorm:"type:text"`
	City           string    `json:"city,omitempty" gorm:"size:100;index"`
	State          string    `json:"state,omitempty" gorm:"size:100;index"`
	ProfilePicture string    `json:"profile_picture,omitempty" gorm:"size:500"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}

type PregnantWoman struct {
	ID                int64          `json:"id" gorm:"primaryKey"`
	UserID            int64          `json:"user_id" gorm:"uniqueIndex;not null"`
	User              *User          `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	DueDate           *time.Time     `json:"due_date,omitempty"`
	PregnancyWeek     int            `json:"pregnancy_week" gorm:"not null"`
	MedicalConditions []string       `json:"medical_conditions" gorm:"type:text;serializer:json"`
	Preferences       map[string]any `json:"preferences" gorm:"type:text;serializer:json"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (PregnantWoman) TableName() string {
	return "pregnant_women"
}

const MaxPregnancyWeek = 42
