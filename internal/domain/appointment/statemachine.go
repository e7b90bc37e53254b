package appointment

import "maternity/internal/domain"

type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// Actor describes how the caller relates to one appointment. A user can be
// both sides only if they hold both profiles.
type Actor struct {
	Patient   bool
	Caregiver bool
}

func ActorFor(a *domain.Appointment, p domain.Principal) Actor {
	return Actor{
		Patient:   p.UserID != 0 && a.PatientID == p.UserID,
		Caregiver: p.CaregiverID != 0 && a.CaregiverID == p.CaregiverID,
	}
}

func (a Actor) Party() bool {
	return a.Patient || a.Caregiver
}

type rule struct {
	from    []domain.AppointmentStatus
	to      domain.AppointmentStatus
	allowed func(Actor) bool
}

var rules = map[Action]rule{
	ActionConfirm: {
		from:    []domain.AppointmentStatus{domain.AppointmentPending},
		to:      domain.AppointmentConfirmed,
		allowed: func(a Actor) bool { return a.Caregiver },
	},
	ActionCancel: {
		from:    []domain.AppointmentStatus{domain.AppointmentPending, domain.AppointmentConfirmed},
		to:      domain.AppointmentCancelled,
		allowed: Actor.Party,
	},
	ActionComplete: {
		from:    []domain.AppointmentStatus{domain.AppointmentConfirmed},
		to:      domain.AppointmentCompleted,
		allowed: func(a Actor) bool { return a.Caregiver },
	},
}

// Transition returns the status reached by applying action. The actor is
// checked before the source status.
func Transition(from domain.AppointmentStatus, action Action, actor Actor) (domain.AppointmentStatus, error) {
	r, ok := rules[action]
	if !ok {
		return from, ErrUnknownAction
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

// Terminal reports whether no action can leave status.
func Terminal(status domain.AppointmentStatus) bool {
	return status == domain.AppointmentCancelled || status == domain.AppointmentCompleted
}
