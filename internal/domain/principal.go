package domain

// Principal is the authenticated caller with its role profiles resolved once
// per request. A zero profile id means the user has no profile of that kind.
type Principal struct {
	UserID      int64
	PregnantID  int64
	CaregiverID int64
}

// Role reports the single role the principal can act as. ok is false when
// the user holds no profile or both profiles.
func (p Principal) Role() (role UserRole, ok bool) {
	switch {
	case p.PregnantID != 0 && p.CaregiverID == 0:
		return RolePregnant, true
	case p.CaregiverID != 0 && p.PregnantID == 0:
		return RoleCaregiver, true
	}
	return "", false
}

func (p Principal) IsPregnant() bool {
	return p.PregnantID != 0
}

func (p Principal) IsCaregiver() bool {
	return p.CaregiverID != 0
}

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&User{},
		&PregnantWoman{},
		&Caregiver{},
		&CaregiverExperience{},
		&CaregiverReview{},
		&Appointment{},
		&Session{},
		&SessionBooking{},
		&IDVerification{},
		&Post{},
		&Comment{},
		&Like{},
		&Follow{},
		&SavedPost{},
	}
}
