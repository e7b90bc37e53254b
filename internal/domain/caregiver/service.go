package caregiver

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"maternity/internal/domain"
	"maternity/internal/pkg/pagination"
	"maternity/internal/pkg/utils"
)

// ProfileListener is notified after a committed change to a caregiver's
// public profile.
type ProfileListener interface {
	ProfileChanged(ctx context.Context, caregiverID int64)
}

type Service struct {
	repo     Repository
	matcher  *Matcher
	listener ProfileListener
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, matcher *Matcher, listener ProfileListener, log zerolog.Logger) *Service {
	return &Service{repo: repo, matcher: matcher, listener: listener, log: log, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Caregiver, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, f SearchFilter, pg pagination.Params) ([]domain.Caregiver, int64, error) {
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.Specialization = strings.TrimSpace(f.Specialization)
	return s.repo.Search(ctx, f, pg)
}

func (s *Service) Mine(ctx context.Context, p domain.Principal) (*domain.Caregiver, error) {
	if !p.IsCaregiver() {
		return nil, ErrNotCaregiver
	}
	cg, err := s.repo.GetByID(ctx, p.CaregiverID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return cg, err
}

// UpdateInput carries the fields a caregiver may edit. Rating and review
// counts are derived and cannot be set here.
type UpdateInput struct {
	Bio             *string                 `json:"bio"`
	ExperienceYears *int                    `json:"experience_years"`
	HourlyRate      *float64                `json:"hourly_rate"`
	IsAvailable     *bool                   `json:"is_available"`
	Certifications  *[]domain.Certification `json:"certifications"`
	Specializations *[]string               `json:"specializations"`
}

func (s *Service) UpdateMine(ctx context.Context, p domain.Principal, in UpdateInput) (*domain.Caregiver, error) {
	if !p.IsCaregiver() {
		return nil, ErrNotCaregiver
	}

	fields := map[string]any{}
	if in.Bio != nil {
		fields["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.ExperienceYears != nil {
		if *in.ExperienceYears < 0 {
			return nil, ErrNegativeExperience
		}
		fields["experience_years"] = *in.ExperienceYears
	}
	if in.HourlyRate != nil {
		if *in.HourlyRate < 0 {
			return nil, ErrNegativeRate
		}
		fields["hourly_rate"] = *in.HourlyRate
	}
	if in.IsAvailable != nil {
		fields["is_available"] = *in.IsAvailable
	}
	if in.Certifications != nil {
		fields["certifications"] = utils.JSONColumn(*in.Certifications)
	}
	if in.Specializations != nil {
		fields["specializations"] = utils.JSONColumn(utils.DistinctTrimmed(*in.Specializations))
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.now()
		if err := s.repo.Update(ctx, p.CaregiverID, fields); err != nil {
			return nil, err
		}
		if s.listener != nil {
			s.listener.ProfileChanged(ctx, p.CaregiverID)
		}
		s.log.Info().Int64("caregiver_id", p.CaregiverID).Int("fields", len(fields)-1).Msg("caregiver profile updated")
	}
	return s.repo.GetByID(ctx, p.CaregiverID)
}

type Availability struct {
	CaregiverID int64   `json:"caregiver_id"`
	IsAvailable bool    `json:"is_available"`
	HourlyRate  float64 `json:"hourly_rate"`
}

func (s *Service) Availability(ctx context.Context, id int64) (Availability, error) {
	cg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Availability{}, err
	}
	return Availability{CaregiverID: cg.ID, IsAvailable: cg.IsAvailable, HourlyRate: cg.HourlyRate}, nil
}

// Recommend resolves the location from the caller's own profile when the
// query leaves it out.
func (s *Service) Recommend(ctx context.Context, p domain.Principal, city, state string, limit int) ([]domain.Caregiver, error) {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	if city == "" && state == "" {
		var err error
		city, state, err = s.repo.UserLocation(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
	}
	return s.matcher.Recommend(ctx, city, state, limit)
}

type Stats struct {
	Rating              float64 `json:"rating"`
	TotalReviews        int     `json:"total_reviews"`
	TotalAppointments   int64   `json:"total_appointments"`
	MonthlyAppointments int64   `json:"monthly_appointments"`
	TotalEarnings       float64 `json:"total_earnings"`
	MonthlyEarnings     float64 `json:"monthly_earnings"`
}

func (s *Service) Stats(ctx context.Context, p domain.Principal) (Stats, error) {
	cg, err := s.Mine(ctx, p)
	if err != nil {
		return Stats{}, err
	}

	total, allCompleted, err := s.repo.AppointmentTotals(ctx, cg.ID, "", "")
	if err != nil {
		return Stats{}, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	from := monthStart.Format("2006-01-02")
	to := monthStart.AddDate(0, 1, 0).Format("2006-01-02")
	monthly, monthCompleted, err := s.repo.AppointmentTotals(ctx, cg.ID, from, to)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		Rating:              cg.Rating,
		TotalReviews:        cg.TotalReviews,
		TotalAppointments:   total,
		MonthlyAppointments: monthly,
		TotalEarnings:       earnings(allCompleted.Minutes, cg.HourlyRate),
		MonthlyEarnings:     earnings(monthCompleted.Minutes, cg.HourlyRate),
	}, nil
}

func earnings(minutes int64, hourlyRate float64) float64 {
	return math.Round(float64(minutes)/60*hourlyRate*100) / 100
}
