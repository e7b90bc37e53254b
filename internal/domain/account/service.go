package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"maternity/internal/domain"
	"maternity/internal/pkg/jwt"
	"maternity/internal/pkg/utils"
	"maternity/internal/pkg/validator"
)

// LocationListener is told when a caregiver's user record changes city or
// state, which moves them between recommendation tiers.
type LocationListener interface {
	ProfileChanged(ctx context.Context, caregiverID int64)
}

type Service struct {
	repo     Repository
	tokens   *jwt.Service
	listener LocationListener
	log      zerolog.Logger
}

func NewService(repo Repository, tokens *jwt.Service, listener LocationListener, log zerolog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, listener: listener, log: log}
}

type RegisterInput struct {
	Username    string          `json:"username" validate:"required,min=3,max=150"`
	Email       string          `json:"email" validate:"required,email,max=254"`
	Password    string          `json:"password" validate:"required,min=8,max=128"`
	FirstName   string          `json:"first_name" validate:"max=150"`
	LastName    string          `json:"last_name" validate:"max=150"`
	UserType    domain.UserRole `json:"user_type" validate:"required,oneof=pregnant caregiver"`
	PhoneNumber string          `json:"phone_number" validate:"max=20"`
	Address     string          `json:"address"`
	City        string          `json:"city" validate:"max=100"`
	State       string          `json:"state" validate:"max=100"`

	Bio             string  `json:"bio"`
	HourlyRate      float64 `json:"hourly_rate"`
	ExperienceYears *int    `json:"experience_years"`
}

type AuthResult struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
}

// Register creates the user and the profile matching its user type in one
// transaction and returns a signed token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validator.Check(in); err != nil {
		return nil, err
	}
	if in.UserType == domain.RoleCaregiver {
		if in.HourlyRate < 0 {
			return nil, ErrNegativeHourlyRate
		}
		if in.ExperienceYears != nil && *in.ExperienceYears < 0 {
			return nil, ErrNegativeExperienceAge
		}
	}

	if taken, err := s.repo.UsernameExists(ctx, in.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.repo.EmailExists(ctx, in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		UserType:     in.UserType,
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Address:      strings.TrimSpace(in.Address),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
	}

	var cg *domain.Caregiver
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateUser(ctx, u); err != nil {
			return err
		}
		switch u.UserType {
		case domain.RolePregnant:
			return tx.CreatePregnant(ctx, &domain.PregnantWoman{UserID: u.ID, PregnancyWeek: 1})
		default:
			cg = &domain.Caregiver{
				UserID:          u.ID,
				Bio:             strings.TrimSpace(in.Bio),
				HourlyRate:      in.HourlyRate,
				ExperienceYears: in.ExperienceYears,
				IsAvailable:     true,
			}
			return tx.CreateCaregiver(ctx, cg)
		}
	})
	if err != nil {
		return nil, err
	}
	// A new caregiver starts available and must show up in recommendations.
	if cg != nil && s.listener != nil {
		s.listener.ProfileChanged(ctx, cg.ID)
	}

	s.log.Info().Int64("user_id", u.ID).Str("user_type", string(u.UserType)).Msg("user registered")
	return s.issue(u)
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByLogin(ctx, in.Username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := CheckPassword(in.Password, u.PasswordHash); err != nil {
		s.log.Debug().Int64("user_id", u.ID).Msg("login rejected")
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *Service) issue(u *domain.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(u.ID, string(u.UserType))
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, AccessToken: token, ExpiresIn: int64(s.tokens.TTL().Seconds())}, nil
}

// Resolve loads the role profiles of a user for the auth middleware.
func (s *Service) Resolve(ctx context.Context, userID int64) (domain.Principal, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return domain.Principal{}, err
	}
	pregnantID, caregiverID, err := s.repo.ProfileIDs(ctx, userID)
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{UserID: userID, PregnantID: pregnantID, CaregiverID: caregiverID}, nil
}

type Me struct {
	User        *domain.User    `json:"user"`
	Role        domain.UserRole `json:"role,omitempty"`
	PregnantID  int64           `json:"pregnant_profile_id,omitempty"`
	CaregiverID int64           `json:"caregiver_profile_id,omitempty"`
}

func (s *Service) Me(ctx context.Context, p domain.Principal) (*Me, error) {
	u, err := s.repo.GetUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	role, _ := p.Role()
	return &Me{User: u, Role: role, PregnantID: p.PregnantID, CaregiverID: p.CaregiverID}, nil
}

type UserUpdate struct {
	FirstName      *string `json:"first_name" validate:"omitempty,max=150"`
	LastName       *string `json:"last_name" validate:"omitempty,max=150"`
	PhoneNumber    *string `json:"phone_number" validate:"omitempty,max=20"`
	Address        *string `json:"address"`
	City           *string `json:"city" validate:"omitempty,max=100"`
	State          *string `json:"state" validate:"omitempty,max=100"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=500"`
}

func (s *Service) UpdateMe(ctx context.Context, p domain.Principal, in UserUpdate) (*Me, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			fields[col] = strings.TrimSpace(*v)
		}
	}
	set("first_name", in.FirstName)
	set("last_name", in.LastName)
	set("phone_number", in.PhoneNumber)
	set("address", in.Address)
	set("city", in.City)
	set("state", in.State)
	set("profile_picture", in.ProfilePicture)

	if len(fields) > 0 {
		if err := s.repo.UpdateUser(ctx, p.UserID, fields); err != nil {
			return nil, err
		}
		_, cityChanged := fields["city"]
		_, stateChanged := fields["state"]
		if (cityChanged || stateChanged) && p.IsCaregiver() && s.listener != nil {
			s.listener.ProfileChanged(ctx, p.CaregiverID)
		}
	}
	return s.Me(ctx, p)
}

func (s *Service) PregnantProfile(ctx context.Context, p domain.Principal) (*domain.PregnantWoman, error) {
	if !p.IsPregnant() {
		return nil, ErrPregnantNotFound
	}
	return s.repo.GetPregnant(ctx, p.UserID)
}

type PregnantUpdate struct {
	DueDate           *string         `json:"due_date"`
	PregnancyWeek     *int            `json:"pregnancy_week"`
	MedicalConditions *[]string       `json:"medical_conditions"`
	Preferences       *map[string]any `json:"preferences"`
}

func (s *Service) UpdatePregnantProfile(ctx context.Context, p domain.Principal, in PregnantUpdate) (*domain.PregnantWoman, error) {
	if !p.IsPregnant() {
		return nil, ErrPregnantNotFound
	}

	fields := map[string]any{}
	if in.DueDate != nil {
		if strings.TrimSpace(*in.DueDate) == "" {
			fields["due_date"] = nil
		} else {
			d, err := time.Parse("2006-01-02", strings.TrimSpace(*in.DueDate))
			if err != nil {
				return nil, ErrInvalidDueDate
			}
			fields["due_date"] = d
		}
	}
	if in.PregnancyWeek != nil {
		if *in.PregnancyWeek < 1 || *in.PregnancyWeek > domain.MaxPregnancyWeek {
			return nil, ErrInvalidPregnancyWeek
		}
		fields["pregnancy_week"] = *in.PregnancyWeek
	}
	if in.MedicalConditions != nil {
		fields["medical_conditions"] = utils.JSONColumn(*in.MedicalConditions)
	}
	if in.Preferences != nil {
		fields["preferences"] = utils.JSONColumn(*in.Preferences)
	}

	if len(fields) > 0 {
		if err := s.repo.UpdatePregnant(ctx, p.PregnantID, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.GetPregnant(ctx, p.UserID)
}
