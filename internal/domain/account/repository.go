package account

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maternity/internal/database"
	"maternity/internal/domain"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u *domain.User) error
	CreatePregnant(ctx context.Context, p *domain.PregnantWoman) error
	CreateCaregiver(ctx context.Context, cg *domain.Caregiver) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, fields map[string]any) error
	ProfileIDs(ctx context.Context, userID int64) (pregnantID, caregiverID int64, err error)
	GetPregnant(ctx context.Context, userID int64) (*domain.PregnantWoman, error)
	UpdatePregnant(ctx context.Context, id int64, fields map[string]any) error
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

func (r *GormRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("LOWER(username) = ?", strings.ToLower(username)).Count(&n).Error
	return n > 0, err
}

func (r *GormRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

// CreateUser reports a unique violation as ErrUsernameTaken; the caller
// checks email first, so a race on either column lands here.
func (r *GormRepository) CreateUser(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if database.IsUniqueViolation(err) {
		return ErrUsernameTaken
	}
	return err
}

func (r *GormRepository) CreatePregnant(ctx context.Context, p *domain.PregnantWoman) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *GormRepository) CreateCaregiver(ctx context.Context, cg *domain.Caregiver) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(cg).Error
}

func (r *GormRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByLogin accepts either the username or the email address.
func (r *GormRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	var u domain.User
	q := r.db.WithContext(ctx)
	if strings.Contains(login, "@") {
		q = q.Where("email = ?", strings.ToLower(login))
	} else {
		q = q.Where("LOWER(username) = ?", strings.ToLower(login))
	}
	err := q.First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepository) UpdateUser(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *GormRepository) ProfileIDs(ctx context.Context, userID int64) (int64, int64, error) {
	var pregnantIDs, caregiverIDs []int64
	if err := r.db.WithContext(ctx).Model(&domain.PregnantWoman{}).Where("user_id = ?", userID).Limit(1).Pluck("id", &pregnantIDs).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.Caregiver{}).Where("user_id = ?", userID).Limit(1).Pluck("id", &caregiverIDs).Error; err != nil {
		return 0, 0, err
	}
	var pregnantID, caregiverID int64
	if len(pregnantIDs) > 0 {
		pregnantID = pregnantIDs[0]
	}
	if len(caregiverIDs) > 0 {
		caregiverID = caregiverIDs[0]
	}
	return pregnantID, caregiverID, nil
}

func (r *GormRepository) GetPregnant(ctx context.Context, userID int64) (*domain.PregnantWoman, error) {
	var p domain.PregnantWoman
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPregnantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepository) UpdatePregnant(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.PregnantWoman{}).Where("id = ?", id).Updates(fields).Error
}
