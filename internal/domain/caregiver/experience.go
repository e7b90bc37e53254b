package caregiver

import (
	"context"
	"strings"
	"time"

	"maternity/internal/domain"
	"maternity/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type ExperienceInput struct {
	Title        string `json:"title" validate:"required,max=200"`
	Organization string `json:"organization" validate:"required,max=200"`
	StartDate    string `json:"start_date" validate:"required"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description"`
	IsCurrent    bool   `json:"is_current"`
}

func (in ExperienceInput) apply(e *domain.CaregiverExperience) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Organization = strings.TrimSpace(in.Organization)
	if err := validator.Check(in); err != nil {
		return err
	}

	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return ErrInvalidDate
	}
	var end *time.Time
	if in.EndDate != "" {
		t, err := time.Parse(dateLayout, in.EndDate)
		if err != nil {
			return ErrInvalidDate
		}
		if t.Before(start) {
			return ErrEndBeforeStart
		}
		if in.IsCurrent {
			return ErrCurrentWithEndDate
		}
		end = &t
	}

	e.Title = in.Title
	e.Organization = in.Organization
	e.StartDate = start
	e.EndDate = end
	e.Description = strings.TrimSpace(in.Description)
	e.IsCurrent = in.IsCurrent
	return nil
}

func (s *Service) ListExperiences(ctx context.Context, p domain.Principal) ([]domain.CaregiverExperience, error) {
	if !p.IsCaregiver() {
		return nil, ErrNotCaregiver
	}
	return s.repo.ListExperiences(ctx, p.CaregiverID)
}

func (s *Service) CreateExperience(ctx context.Context, p domain.Principal, in ExperienceInput) (*domain.CaregiverExperience, error) {
	if !p.IsCaregiver() {
		return nil, ErrNotCaregiver
	}
	e := &domain.CaregiverExperience{CaregiverID: p.CaregiverID}
	if err := in.apply(e); err != nil {
		return nil, err
	}
	if err := s.repo.CreateExperience(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) UpdateExperience(ctx context.Context, p domain.Principal, id int64, in ExperienceInput) (*domain.CaregiverExperience, error) {
	if !p.IsCaregiver() {
		return nil, ErrNotCaregiver
	}
	e, err := s.repo.GetExperience(ctx, p.CaregiverID, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(e); err != nil {
		return nil, err
	}
	if err := s.repo.SaveExperience(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) DeleteExperience(ctx context.Context, p domain.Principal, id int64) error {
	if !p.IsCaregiver() {
		return ErrNotCaregiver
	}
	return s.repo.DeleteExperience(ctx, p.CaregiverID, id)
}
