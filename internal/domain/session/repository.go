package session

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maternity/internal/database"
	"maternity/internal/domain"
	"maternity/internal/pkg/pagination"
)

type SessionFilter struct {
	Type       domain.SessionType
	HostUserID int64
	FromDate   string
	Ordering   string
}

type BookingFilter struct {
	ParticipantID int64
	HostUserID    int64
	Status        domain.BookingStatus
}

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	CreateSession(ctx context.Context, s *domain.Session) error
	GetSession(ctx context.Context, id int64) (*domain.Session, error)
	LockSession(ctx context.Context, id int64) (*domain.Session, error)
	ListSessions(ctx context.Context, f SessionFilter, p pagination.Params) ([]domain.Session, int64, error)

	CountConfirmed(ctx context.Context, sessionID int64) (int64, error)
	FindBooking(ctx context.Context, sessionID, participantID int64) (*domain.SessionBooking, error)
	CreateBooking(ctx context.Context, b *domain.SessionBooking) error
	GetBooking(ctx context.Context, id int64) (*domain.SessionBooking, error)
	LockBooking(ctx context.Context, id int64) (*domain.SessionBooking, error)
	UpdateBooking(ctx context.Context, id int64, fields map[string]any) error
	ListBookings(ctx context.Context, f BookingFilter, p pagination.Params) ([]domain.SessionBooking, int64, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

var sessionOrderings = map[string]string{
	"date":  "date ASC, start_time ASC",
	"-date": "date DESC, start_time DESC",
	"fee":   "fee ASC",
	"-fee":  "fee DESC",
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) CreateSession(ctx context.Context, s *domain.Session) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *GormRepository) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).Preload("Host").First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LockSession serializes capacity checks for one session.
func (r *GormRepository) LockSession(ctx context.Context, id int64) (*domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepository) ListSessions(ctx context.Context, f SessionFilter, p pagination.Params) ([]domain.Session, int64, error) {
	order := sessionOrderings["date"]
	if f.Ordering != "" {
		o, ok := sessionOrderings[f.Ordering]
		if !ok {
			return nil, 0, ErrInvalidOrdering
		}
		order = o
	}

	q := r.db.WithContext(ctx).Model(&domain.Session{})
	if f.Type != "" {
		q = q.Where("session_type = ?", f.Type)
	}
	if f.HostUserID != 0 {
		q = q.Where("host_user_id = ?", f.HostUserID)
	}
	if f.FromDate != "" {
		q = q.Where("date >= ?", f.FromDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Session
	err := q.Preload("Host").
		Order(order).
		Order("id ASC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *GormRepository) CountConfirmed(ctx context.Context, sessionID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.SessionBooking{}).
		Where("session_id = ? AND status = ?", sessionID, domain.BookingConfirmed).
		Count(&n).Error
	return n, err
}

func (r *GormRepository) FindBooking(ctx context.Context, sessionID, participantID int64) (*domain.SessionBooking, error) {
	var b domain.SessionBooking
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND participant_id = ?", sessionID, participantID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBooking relies on the (session, participant) unique index as the
// last line against concurrent duplicates.
func (r *GormRepository) CreateBooking(ctx context.Context, b *domain.SessionBooking) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
	if database.IsUniqueViolation(err) {
		return ErrAlreadyBooked
	}
	return err
}

func (r *GormRepository) GetBooking(ctx context.Context, id int64) (*domain.SessionBooking, error) {
	var b domain.SessionBooking
	err := r.db.WithContext(ctx).
		Preload("Session").
		Preload("Participant.User").
		First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormRepository) LockBooking(ctx context.Context, id int64) (*domain.SessionBooking, error) {
	var b domain.SessionBooking
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormRepository) UpdateBooking(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&domain.SessionBooking{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *GormRepository) ListBookings(ctx context.Context, f BookingFilter, p pagination.Params) ([]domain.SessionBooking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.SessionBooking{})
	if f.ParticipantID != 0 {
		q = q.Where("session_bookings.participant_id = ?", f.ParticipantID)
	}
	if f.HostUserID != 0 {
		q = q.Joins("JOIN sessions ON sessions.id = session_bookings.session_id").
			Where("sessions.host_user_id = ?", f.HostUserID)
	}
	if f.Status != "" {
		q = q.Where("session_bookings.status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.SessionBooking
	err := q.Preload("Session").
		Preload("Participant.User").
		Order("session_bookings.booking_time DESC").
		Order("session_bookings.id DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rows).Error
	return rows, total, err
}
