package domain

import "time"

type SessionType string

const (
	SessionFree SessionType = "free"
	SessionPaid SessionType = "paid"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionOngoing   SessionStatus = "ongoing"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type Session struct {
	ID              int64         `json:"id" gorm:"primaryKey"`
	HostUserID      int64         `json:"host_user_id" gorm:"not null;index"`
	HostRole        UserRole      `json:"host_role" gorm:"size:20;not null"`
	Host            *User         `json:"host,omitempty" gorm:"foreignKey:HostUserID"`
	Title           string        `json:"title" gorm:"size:200;not null"`
	Description     string        `json:"description" gorm:"type:text"`
	SessionType     SessionType   `json:"session_type" gorm:"size:10;not null"`
	Status          SessionStatus `json:"status" gorm:"size:20;not null;index"`
	Date            string        `json:"date" gorm:"size:10;not null;index"`
	StartTime       string        `json:"start_time" gorm:"size:5;not null"`
	Duration        int           `json:"duration" gorm:"not null"`
	MaxParticipants int           `json:"max_participants" gorm:"not null"`
	Fee             float64       `json:"fee" gorm:"not null;default:0"`
	MeetingLink     string        `json:"meeting_link,omitempty" gorm:"size:500"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// SessionBooking is unique per (session, participant). The number of
// confirmed bookings for a session never exceeds Session.MaxParticipants.
type SessionBooking struct {
	ID            int64          `json:"id" gorm:"primaryKey"`
	SessionID     int64          `json:"session_id" gorm:"not null;uniqueIndex:idx_booking_session_participant"`
	Session       *Session       `json:"session,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	ParticipantID int64          `json:"participant_id" gorm:"not null;uniqueIndex:idx_booking_session_participant;index"`
	Participant   *PregnantWoman `json:"participant,omitempty" gorm:"foreignKey:ParticipantID"`
	Status        BookingStatus  `json:"status" gorm:"size:20;not null;index"`
	BookingTime   time.Time      `json:"booking_time"`
	PaymentStatus bool           `json:"payment_status" gorm:"not null;default:false"`
	PaymentID     string         `json:"payment_id,omitempty" gorm:"size:100"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
