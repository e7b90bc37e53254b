package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"maternity/internal/domain"
	"maternity/internal/pkg/pagination"
)

const (
	dateLayout    = "2006-01-02"
	timeLayout    = "15:04"
	maxDuration   = 24 * 60
	upcomingLimit = 5
)

type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

type CreateInput struct {
	CaregiverID int64  `json:"caregiver"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Duration    *int   `json:"duration"`
}

func (in CreateInput) normalize() (CreateInput, error) {
	if in.CaregiverID <= 0 {
		return in, ErrCaregiverRequired
	}

	in.Date = strings.TrimSpace(in.Date)
	if in.Date == "" {
		return in, ErrDateRequired
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return in, ErrInvalidDate
	}

	in.Time = strings.TrimSpace(in.Time)
	if in.Time == "" {
		return in, ErrTimeRequired
	}
	t, err := time.Parse(timeLayout, in.Time)
	if err != nil {
		if t, err = time.Parse("15:04:05", in.Time); err != nil {
			return in, ErrInvalidTime
		}
	}
	in.Time = t.Format(timeLayout)

	if in.Duration == nil {
		d := domain.DefaultAppointmentDuration
		in.Duration = &d
	} else if *in.Duration <= 0 || *in.Duration > maxDuration {
		return in, ErrInvalidDuration
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		in.Title = domain.DefaultAppointmentTitle
	}
	in.Description = strings.TrimSpace(in.Description)
	return in, nil
}

// Create books a pending appointment for the calling patient.
func (s *Service) Create(ctx context.Context, p domain.Principal, in CreateInput) (*domain.Appointment, error) {
	if !p.IsPregnant() {
		return nil, ErrNotPatient
	}
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	cg, err := s.repo.FindCaregiver(ctx, in.CaregiverID)
	if err != nil {
		return nil, err
	}
	if cg.UserID == p.UserID {
		return nil, ErrOwnCaregiver
	}

	a := &domain.Appointment{
		PatientID:   p.UserID,
		CaregiverID: cg.ID,
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
		Duration:    *in.Duration,
		Status:      domain.AppointmentPending,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("appointment_id", a.ID).
		Int64("patient_id", a.PatientID).
		Int64("caregiver_id", a.CaregiverID).
		Msg("appointment requested")
	return a, nil
}

func (s *Service) Confirm(ctx context.Context, p domain.Principal, id int64) (*domain.Appointment, error) {
	return s.apply(ctx, p, id, ActionConfirm)
}

func (s *Service) Cancel(ctx context.Context, p domain.Principal, id int64) (*domain.Appointment, error) {
	return s.apply(ctx, p, id, ActionCancel)
}

func (s *Service) Complete(ctx context.Context, p domain.Principal, id int64) (*domain.Appointment, error) {
	return s.apply(ctx, p, id, ActionComplete)
}

// apply locks the appointment, runs the transition table and stores the
// new status in one transaction.
func (s *Service) apply(ctx context.Context, p domain.Principal, id int64, action Action) (*domain.Appointment, error) {
	var from domain.AppointmentStatus
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		a, err := tx.Lock(ctx, id)
		if err != nil {
			return err
		}
		from = a.Status
		to, err := Transition(a.Status, action, ActorFor(a, p))
		if err != nil {
			return err
		}
		return tx.UpdateStatus(ctx, id, to)
	})
	if err != nil {
		return nil, err
	}

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("appointment_id", id).
		Int64("user_id", p.UserID).
		Str("action", string(action)).
		Str("from", string(from)).
		Str("to", string(a.Status)).
		Msg("appointment transition")
	return a, nil
}

func (s *Service) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Appointment, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ActorFor(a, p).Party() {
		return nil, ErrNotParty
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, p domain.Principal, status string, pg pagination.Params) ([]domain.Appointment, int64, error) {
	f := ListFilter{PatientID: p.UserID, CaregiverID: p.CaregiverID}
	if status != "" {
		f.Status = domain.AppointmentStatus(status)
		switch f.Status {
		case domain.AppointmentPending, domain.AppointmentConfirmed, domain.AppointmentCancelled, domain.AppointmentCompleted:
		default:
			return nil, 0, ErrInvalidStatus
		}
	}
	return s.repo.List(ctx, f, pg)
}

// Upcoming returns the next confirmed appointments from today on.
// Caregivers also see pending requests waiting for them.
func (s *Service) Upcoming(ctx context.Context, p domain.Principal) ([]domain.Appointment, error) {
	statuses := []domain.AppointmentStatus{domain.AppointmentConfirmed}
	if p.IsCaregiver() {
		statuses = append(statuses, domain.AppointmentPending)
	}
	f := ListFilter{PatientID: p.UserID, CaregiverID: p.CaregiverID}
	return s.repo.Upcoming(ctx, f, statuses, s.now().Format(dateLayout), upcomingLimit)
}
