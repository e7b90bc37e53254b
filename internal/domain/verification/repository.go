package verification

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maternity/internal/database"
	"maternity/internal/domain"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	Get(ctx context.Context, id int64) (*domain.IDVerification, error)
	FindByUser(ctx context.Context, userID int64) (*domain.IDVerification, error)
	LockByUser(ctx context.Context, userID int64) (*domain.IDVerification, error)
	Lock(ctx context.Context, id int64) (*domain.IDVerification, error)
	Create(ctx context.Context, v *domain.IDVerification) error
	Save(ctx context.Context, v *domain.IDVerification) error
	Delete(ctx context.Context, id int64) error
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

func (r *GormRepository) Get(ctx context.Context, id int64) (*domain.IDVerification, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormRepository) FindByUser(ctx context.Context, userID int64) (*domain.IDVerification, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *GormRepository) LockByUser(ctx context.Context, userID int64) (*domain.IDVerification, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID))
}

func (r *GormRepository) Lock(ctx context.Context, id int64) (*domain.IDVerification, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *GormRepository) first(q *gorm.DB) (*domain.IDVerification, error) {
	var v domain.IDVerification
	err := q.First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create maps a concurrent second submission, caught by the unique index
// on user_id, to ErrPending.
func (r *GormRepository) Create(ctx context.Context, v *domain.IDVerification) error {
	err := r.db.WithContext(ctx).Create(v).Error
	if database.IsUniqueViolation(err) {
		return ErrPending
	}
	return err
}

func (r *GormRepository) Save(ctx context.Context, v *domain.IDVerification) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *GormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.IDVerification{}, id).Error
}
