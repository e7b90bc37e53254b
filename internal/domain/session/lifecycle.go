package session

import "maternity/internal/domain"

type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// Actor describes how the caller relates to one booking.
type Actor struct {
	Host        bool
	Participant bool
}

func ActorFor(s *domain.Session, b *domain.SessionBooking, p domain.Principal) Actor {
	return Actor{
		Host:        p.UserID != 0 && s.HostUserID == p.UserID,
		Participant: p.PregnantID != 0 && b.ParticipantID == p.PregnantID,
	}
}

type rule struct {
	from    []domain.BookingStatus
	to      domain.BookingStatus
	allowed func(Actor) bool
}

var rules = map[Action]rule{
	ActionConfirm: {
		from:    []domain.BookingStatus{domain.BookingPending},
		to:      domain.BookingConfirmed,
		allowed: func(a Actor) bool { return a.Host },
	},
	ActionCancel: {
		from:    []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed},
		to:      domain.BookingCancelled,
		allowed: func(a Actor) bool { return a.Host || a.Participant },
	},
	ActionComplete: {
		from:    []domain.BookingStatus{domain.BookingConfirmed},
		to:      domain.BookingCompleted,
		allowed: func(a Actor) bool { return a.Host },
	},
}

// Transition applies action to a booking status. The actor is checked
// before the source status.
func Transition(from domain.BookingStatus, action Action, actor Actor) (domain.BookingStatus, error) {
	r, ok := rules[action]
	if !ok {
		return from, ErrInvalidTransition
	}
	if !r.allowed(actor) {
		return from, ErrActionForbidden
	}
	for _, s := range r.from {
		if s == from {
			return r.to, nil
		}
	}
	return from, ErrInvalidTransition.WithFields(map[string]string{
		"status": string(from),
		"action": string(action),
	})
}
