package review

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maternity/internal/database"
	"maternity/internal/domain"
	"maternity/internal/pkg/pagination"
)

// Repository is the review store. Methods called inside Transaction share
// its database transaction.
type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	LockCaregiver(ctx context.Context, caregiverID int64) (*domain.Caregiver, error)
	FindByPair(ctx context.Context, caregiverID, reviewerID int64) (*domain.CaregiverReview, error)
	Create(ctx context.Context, r *domain.CaregiverReview) error
	Update(ctx context.Context, r *domain.CaregiverReview) error
	Delete(ctx context.Context, id int64) error
	AggregateStore
	ListByCaregiver(ctx context.Context, caregiverID int64, p pagination.Params) ([]domain.CaregiverReview, int64, error)
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

// LockCaregiver takes a row lock on the caregiver so concurrent review
// writes for the same caregiver recompute one after another.
func (r *GormRepository) LockCaregiver(ctx context.Context, caregiverID int64) (*domain.Caregiver, error) {
	var cg domain.Caregiver
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cg, caregiverID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCaregiverNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cg, nil
}

func (r *GormRepository) FindByPair(ctx context.Context, caregiverID, reviewerID int64) (*domain.CaregiverReview, error) {
	var rv domain.CaregiverReview
	err := r.db.WithContext(ctx).
		Where("caregiver_id = ? AND reviewer_id = ?", caregiverID, reviewerID).
		First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *GormRepository) Create(ctx context.Context, rv *domain.CaregiverReview) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rv).Error
	if database.IsUniqueViolation(err) {
		return ErrDuplicateReview
	}
	return err
}

func (r *GormRepository) Update(ctx context.Context, rv *domain.CaregiverReview) error {
	return r.db.WithContext(ctx).
		Model(rv).
		Select("rating", "comment", "updated_at").
		Updates(rv).Error
}

func (r *GormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.CaregiverReview{}, id).Error
}

func (r *GormRepository) CountAndSum(ctx context.Context, caregiverID int64) (int64, int64, error) {
	var row struct {
		Count int64
		Sum   int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.CaregiverReview{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("caregiver_id = ?", caregiverID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Count, row.Sum, nil
}

func (r *GormRepository) SetAggregate(ctx context.Context, caregiverID int64, rating float64, total int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Caregiver{}).
		Where("id = ?", caregiverID).
		Updates(map[string]any{"rating": rating, "total_reviews": total}).Error
}

func (r *GormRepository) ListByCaregiver(ctx context.Context, caregiverID int64, p pagination.Params) ([]domain.CaregiverReview, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.CaregiverReview{}).Where("caregiver_id = ?", caregiverID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.CaregiverReview
	err := q.Preload("Reviewer.User").
		Order("created_at DESC").
		Order("id DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
