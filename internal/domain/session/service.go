package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"maternity/internal/domain"
	"maternity/internal/pkg/pagination"
)

const (
	dateLayout  = "2006-01-02"
	timeLayout  = "15:04"
	maxDuration = 24 * 60
)

type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

type CreateSessionInput struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	SessionType     domain.SessionType `json:"session_type"`
	Date            string             `json:"date"`
	StartTime       string             `json:"start_time"`
	Duration        int                `json:"duration"`
	MaxParticipants *int               `json:"max_participants"`
	Fee             float64            `json:"fee"`
	MeetingLink     string             `json:"meeting_link"`
}

func (in CreateSessionInput) session(host domain.Principal, role domain.UserRole) (*domain.Session, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if _, err := time.Parse(dateLayout, strings.TrimSpace(in.Date)); err != nil {
		return nil, ErrInvalidDate
	}
	start, err := time.Parse(timeLayout, strings.TrimSpace(in.StartTime))
	if err != nil {
		if start, err = time.Parse("15:04:05", strings.TrimSpace(in.StartTime)); err != nil {
			return nil, ErrInvalidTime
		}
	}
	if in.Duration <= 0 || in.Duration > maxDuration {
		return nil, ErrInvalidDuration
	}
	capacity := 1
	if in.MaxParticipants != nil {
		capacity = *in.MaxParticipants
	}
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if in.SessionType == "" {
		in.SessionType = domain.SessionFree
	}
	switch in.SessionType {
	case domain.SessionFree:
		if in.Fee != 0 {
			return nil, ErrInvalidFee
		}
	case domain.SessionPaid:
		if in.Fee <= 0 {
			return nil, ErrInvalidFee
		}
	default:
		return nil, ErrInvalidSessionType
	}

	return &domain.Session{
		HostUserID:      host.UserID,
		HostRole:        role,
		Title:           title,
		Description:     strings.TrimSpace(in.Description),
		SessionType:     in.SessionType,
		Status:          domain.SessionScheduled,
		Date:            strings.TrimSpace(in.Date),
		StartTime:       start.Format(timeLayout),
		Duration:        in.Duration,
		MaxParticipants: capacity,
		Fee:             in.Fee,
		MeetingLink:     strings.TrimSpace(in.MeetingLink),
	}, nil
}

// CreateSession schedules a session hosted by the caller. The host's role
// must be unambiguous.
func (s *Service) CreateSession(ctx context.Context, p domain.Principal, in CreateSessionInput) (*domain.Session, error) {
	role, ok := p.Role()
	if !ok {
		return nil, ErrAmbiguousRole
	}
	sess, err := in.session(p, role)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("session_id", sess.ID).
		Int64("host_user_id", p.UserID).
		Str("host_role", string(role)).
		Int("max_participants", sess.MaxParticipants).
		Msg("session created")
	return sess, nil
}

func (s *Service) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	return s.repo.GetSession(ctx, id)
}

func (s *Service) ListSessions(ctx context.Context, f SessionFilter, pg pagination.Params) ([]domain.Session, int64, error) {
	switch f.Type {
	case "", domain.SessionFree, domain.SessionPaid:
	default:
		return nil, 0, ErrInvalidSessionType
	}
	return s.repo.ListSessions(ctx, f, pg)
}

// Book reserves a place for the caller. The session row stays locked from
// the capacity check until the booking is inserted.
func (s *Service) Book(ctx context.Context, p domain.Principal, sessionID int64) (*domain.SessionBooking, error) {
	if !p.IsPregnant() {
		return nil, ErrNoPregnantProfile
	}

	var booking *domain.SessionBooking
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		sess, err := tx.LockSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if sess.Status != domain.SessionScheduled {
			return ErrSessionClosed
		}
		if sess.HostUserID == p.UserID {
			return ErrOwnSession
		}

		confirmed, err := tx.CountConfirmed(ctx, sessionID)
		if err != nil {
			return err
		}
		if confirmed >= int64(sess.MaxParticipants) {
			return ErrSessionFull
		}

		_, err = tx.FindBooking(ctx, sessionID, p.PregnantID)
		switch {
		case err == nil:
			return ErrAlreadyBooked
		case !errors.Is(err, ErrBookingNotFound):
			return err
		}

		booking = &domain.SessionBooking{
			SessionID:     sessionID,
			ParticipantID: p.PregnantID,
			Status:        domain.BookingPending,
			BookingTime:   s.now(),
		}
		return tx.CreateBooking(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("booking_id", booking.ID).
		Int64("session_id", sessionID).
		Int64("participant_id", p.PregnantID).
		Msg("session booked")
	return booking, nil
}

func (s *Service) ConfirmBooking(ctx context.Context, p domain.Principal, bookingID int64) (*domain.SessionBooking, error) {
	return s.apply(ctx, p, bookingID, ActionConfirm)
}

func (s *Service) CancelBooking(ctx context.Context, p domain.Principal, bookingID int64) (*domain.SessionBooking, error) {
	return s.apply(ctx, p, bookingID, ActionCancel)
}

func (s *Service) CompleteBooking(ctx context.Context, p domain.Principal, bookingID int64) (*domain.SessionBooking, error) {
	return s.apply(ctx, p, bookingID, ActionComplete)
}

// apply locks the session before the booking, the same order Book uses,
// and re-checks capacity when a booking becomes confirmed.
func (s *Service) apply(ctx context.Context, p domain.Principal, bookingID int64, action Action) (*domain.SessionBooking, error) {
	current, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		sess, err := tx.LockSession(ctx, current.SessionID)
		if err != nil {
			return err
		}
		b, err := tx.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}

		to, err := Transition(b.Status, action, ActorFor(sess, b, p))
		if err != nil {
			return err
		}
		if to == domain.BookingConfirmed {
			confirmed, err := tx.CountConfirmed(ctx, sess.ID)
			if err != nil {
				return err
			}
			if confirmed >= int64(sess.MaxParticipants) {
				return ErrSessionFull
			}
		}
		return tx.UpdateBooking(ctx, bookingID, map[string]any{"status": to, "updated_at": s.now()})
	})
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("booking_id", bookingID).
		Int64("user_id", p.UserID).
		Str("action", string(action)).
		Str("status", string(b.Status)).
		Msg("booking transition")
	return b, nil
}

// MarkPaid records a payment reference on the caller's booking. It does
// not talk to any payment provider.
func (s *Service) MarkPaid(ctx context.Context, p domain.Principal, bookingID int64, paymentID string) (*domain.SessionBooking, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, ErrPaymentIDRequired
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		b, err := tx.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if p.PregnantID == 0 || b.ParticipantID != p.PregnantID {
			return ErrNotParticipant
		}
		if b.Status == domain.BookingCancelled {
			return ErrBookingCancelled
		}
		return tx.UpdateBooking(ctx, bookingID, map[string]any{
			"payment_status": true,
			"payment_id":     paymentID,
			"updated_at":     s.now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetBooking(ctx, bookingID)
}

// ListBookings returns the caller's own bookings, or with asHost the
// bookings made on sessions the caller hosts.
func (s *Service) ListBookings(ctx context.Context, p domain.Principal, asHost bool, status string, pg pagination.Params) ([]domain.SessionBooking, int64, error) {
	f := BookingFilter{}
	if status != "" {
		f.Status = domain.BookingStatus(status)
		switch f.Status {
		case domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled, domain.BookingCompleted:
		default:
			return nil, 0, ErrInvalidStatus
		}
	}
	if asHost {
		f.HostUserID = p.UserID
	} else {
		if !p.IsPregnant() {
			return []domain.SessionBooking{}, 0, nil
		}
		f.ParticipantID = p.PregnantID
	}
	return s.repo.ListBookings(ctx, f, pg)
}
