package caregiver

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maternity/internal/database"
	"maternity/internal/domain"
	"maternity/internal/pkg/pagination"
	"maternity/internal/pkg/utils"
)

type SearchFilter struct {
	City           string
	State          string
	Specialization string
	Available      *bool
	MinRating      *float64
	Ordering       string
}

type EarningsRow struct {
	Appointments int64
	Minutes      int64
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Caregiver, error)
	Search(ctx context.Context, f SearchFilter, p pagination.Params) ([]domain.Caregiver, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	UserLocation(ctx context.Context, userID int64) (city, state string, err error)
	AppointmentTotals(ctx context.Context, caregiverID int64, fromDate, toDate string) (total int64, completed EarningsRow, err error)

	ListExperiences(ctx context.Context, caregiverID int64) ([]domain.CaregiverExperience, error)
	GetExperience(ctx context.Context, caregiverID, id int64) (*domain.CaregiverExperience, error)
	CreateExperience(ctx context.Context, e *domain.CaregiverExperience) error
	SaveExperience(ctx context.Context, e *domain.CaregiverExperience) error
	DeleteExperience(ctx context.Context, caregiverID, id int64) error

	CandidateStore
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

var orderings = map[string]string{
	"rating":            "caregivers.rating ASC",
	"-rating":           "caregivers.rating DESC",
	"hourly_rate":       "caregivers.hourly_rate ASC",
	"-hourly_rate":      "caregivers.hourly_rate DESC",
	"experience_years":  "caregivers.experience_years ASC",
	"-experience_years": "caregivers.experience_years DESC",
	"created_at":        "caregivers.created_at ASC",
	"-created_at":       "caregivers.created_at DESC",
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*domain.Caregiver, error) {
	var cg domain.Caregiver
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Experiences", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_date DESC").Order("id DESC")
		}).
		First(&cg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cg, nil
}

func (r *GormRepository) Search(ctx context.Context, f SearchFilter, p pagination.Params) ([]domain.Caregiver, int64, error) {
	order := "caregivers.rating DESC"
	if f.Ordering != "" {
		o, ok := orderings[f.Ordering]
		if !ok {
			return nil, 0, ErrInvalidOrdering
		}
		order = o
	}

	q := r.db.WithContext(ctx).
		Model(&domain.Caregiver{}).
		Joins("JOIN users ON users.id = caregivers.user_id")
	if f.City != "" {
		q = q.Where("LOWER(users.city) = ?", strings.ToLower(f.City))
	}
	if f.State != "" {
		q = q.Where("LOWER(users.state) = ?", strings.ToLower(f.State))
	}
	if f.Specialization != "" {
		pattern := database.ContainsPattern(utils.JSONColumn(f.Specialization))
		q = q.Where(`caregivers.specializations LIKE ? ESCAPE '\'`, pattern)
	}
	if f.Available != nil {
		q = q.Where("caregivers.is_available = ?", *f.Available)
	}
	if f.MinRating != nil {
		q = q.Where("caregivers.rating >= ?", *f.MinRating)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Caregiver
	err := q.Preload("User").
		Order(order).
		Order("caregivers.id ASC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *GormRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&domain.Caregiver{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) UserLocation(ctx context.Context, userID int64) (string, string, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Select("city", "state").First(&u, userID).Error
	if err != nil {
		return "", "", err
	}
	return u.City, u.State, nil
}

// AppointmentTotals counts all appointments of a caregiver dated within
// [fromDate, toDate) and sums the completed ones. Empty bounds are open.
func (r *GormRepository) AppointmentTotals(ctx context.Context, caregiverID int64, fromDate, toDate string) (int64, EarningsRow, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Appointment{}).Where("caregiver_id = ?", caregiverID)
		if fromDate != "" {
			q = q.Where("date >= ?", fromDate)
		}
		if toDate != "" {
			q = q.Where("date < ?", toDate)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return 0, EarningsRow{}, err
	}

	var row EarningsRow
	err := scoped().
		Select("COUNT(*) AS appointments, COALESCE(SUM(duration), 0) AS minutes").
		Where("status = ?", domain.AppointmentCompleted).
		Scan(&row).Error
	if err != nil {
		return 0, EarningsRow{}, err
	}
	return total, row, nil
}

func (r *GormRepository) ListExperiences(ctx context.Context, caregiverID int64) ([]domain.CaregiverExperience, error) {
	var rows []domain.CaregiverExperience
	err := r.db.WithContext(ctx).
		Where("caregiver_id = ?", caregiverID).
		Order("start_date DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *GormRepository) GetExperience(ctx context.Context, caregiverID, id int64) (*domain.CaregiverExperience, error) {
	var e domain.CaregiverExperience
	err := r.db.WithContext(ctx).Where("id = ? AND caregiver_id = ?", id, caregiverID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrExperienceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormRepository) CreateExperience(ctx context.Context, e *domain.CaregiverExperience) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *GormRepository) SaveExperience(ctx context.Context, e *domain.CaregiverExperience) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *GormRepository) DeleteExperience(ctx context.Context, caregiverID, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND caregiver_id = ?", id, caregiverID).Delete(&domain.CaregiverExperience{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

func (r *GormRepository) AvailableInCity(ctx context.Context, city string, limit int) ([]domain.Caregiver, error) {
	return r.available(ctx, "LOWER(users.city) = ?", strings.ToLower(city), nil, limit)
}

func (r *GormRepository) AvailableInState(ctx context.Context, state string, exclude []int64, limit int) ([]domain.Caregiver, error) {
	return r.available(ctx, "LOWER(users.state) = ?", strings.ToLower(state), exclude, limit)
}

func (r *GormRepository) available(ctx context.Context, where string, arg string, exclude []int64, limit int) ([]domain.Caregiver, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = caregivers.user_id").
		Where("caregivers.is_available = ?", true).
		Where(where, arg)
	if len(exclude) > 0 {
		q = q.Where("caregivers.id NOT IN ?", exclude)
	}

	var rows []domain.Caregiver
	err := q.Preload("User").
		Order(clause.OrderByColumn{Column: clause.Column{Table: "caregivers", Name: "rating"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "caregivers", Name: "id"}}).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
