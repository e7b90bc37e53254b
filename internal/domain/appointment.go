package domain

import "time"

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

const (
	DefaultAppointmentTitle    = "Appointment"
	DefaultAppointmentDuration = 60
)

// Date is stored as YYYY-MM-DD and Time as HH:MM so that lexical order
// matches chronological order on every supported database.
type Appointment struct {
	ID          int64             `json:"id" gorm:"primaryKey"`
	PatientID   int64             `json:"patient_id" gorm:"not null;index"`
	Patient     *User             `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	CaregiverID int64             `json:"caregiver_id" gorm:"not null;index"`
	Caregiver   *Caregiver        `json:"caregiver,omitempty" gorm:"foreignKey:CaregiverID"`
	Title       string            `json:"title" gorm:"size:200;not null"`
	Description string            `json:"description" gorm:"type:text"`
	Date        string            `json:"date" gorm:"size:10;not null;index"`
	Time        string            `json:"time" gorm:"size:5;not null"`
	Duration    int               `json:"duration" gorm:"not null"`
	Status      AppointmentStatus `json:"status" gorm:"size:20;not null;index"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
