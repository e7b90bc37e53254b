package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maternity/internal/domain"
	"maternity/internal/pkg/pagination"
)

type ListFilter struct {
	PatientID   int64
	CaregiverID int64
	Status      domain.AppointmentStatus
}

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	FindCaregiver(ctx context.Context, id int64) (*domain.Caregiver, error)
	Create(ctx context.Context, a *domain.Appointment) error
	Lock(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Get(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, f ListFilter, p pagination.Params) ([]domain.Appointment, int64, error)
	Upcoming(ctx context.Context, f ListFilter, statuses []domain.AppointmentStatus, today string, limit int) ([]domain.Appointment, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) FindCaregiver(ctx context.Context, id int64) (*domain.Caregiver, error) {
	var cg domain.Caregiver
	err := r.db.WithContext(ctx).First(&cg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownCaregiver
	}
	if err != nil {
		return nil, err
	}
	return &cg, nil
}

func (r *GormRepository) Create(ctx context.Context, a *domain.Appointment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

// Lock reads the appointment with a row lock held until the surrounding
// transaction ends.
func (r *GormRepository) Lock(ctx context.Context, id int64) (*domain.Appointment, error) {
	var a domain.Appointment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *GormRepository) Get(ctx context.Context, id int64) (*domain.Appointment, error) {
	var a domain.Appointment
	err := r.withParties(r.db.WithContext(ctx)).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepository) List(ctx context.Context, f ListFilter, p pagination.Params) ([]domain.Appointment, int64, error) {
	q := r.scoped(r.db.WithContext(ctx).Model(&domain.Appointment{}), f)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Appointment
	err := r.withParties(q).
		Order("date ASC").
		Order("time ASC").
		Order("id ASC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *GormRepository) Upcoming(ctx context.Context, f ListFilter, statuses []domain.AppointmentStatus, today string, limit int) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.withParties(r.scoped(r.db.WithContext(ctx), f)).
		Where("status IN ?", statuses).
		Where("date >= ?", today).
		Order("date ASC").
		Order("time ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// scoped restricts rows to those where the caller is the patient or the
// assigned caregiver.
func (r *GormRepository) scoped(q *gorm.DB, f ListFilter) *gorm.DB {
	switch {
	case f.PatientID != 0 && f.CaregiverID != 0:
		return q.Where(r.db.Where("patient_id = ?", f.PatientID).Or("caregiver_id = ?", f.CaregiverID))
	case f.CaregiverID != 0:
		return q.Where("caregiver_id = ?", f.CaregiverID)
	default:
		return q.Where("patient_id = ?", f.PatientID)
	}
}

func (r *GormRepository) withParties(q *gorm.DB) *gorm.DB {
	return q.Preload("Patient").Preload("Caregiver.User")
}
