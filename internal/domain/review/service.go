package review

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"maternity/internal/domain"
	"maternity/internal/pkg/pagination"
)

const maxCommentLength = 2000

// RatingListener is notified after a committed change to a caregiver's
// aggregate rating.
type RatingListener interface {
	RatingChanged(ctx context.Context, caregiverID int64)
}

type Service struct {
	repo       Repository
	aggregator Aggregator
	listener   RatingListener
	log        zerolog.Logger
}

func NewService(repo Repository, listener RatingListener, log zerolog.Logger) *Service {
	return &Service{repo: repo, listener: listener, log: log}
}

type SubmitInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type SubmitResult struct {
	Review    *domain.CaregiverReview `json:"review"`
	Aggregate Aggregate               `json:"caregiver"`
	Created   bool                    `json:"created"`
}

// Submit creates the caller's review of a caregiver or updates it if one
// exists, then recomputes the caregiver's rating in the same transaction.
func (s *Service) Submit(ctx context.Context, p domain.Principal, caregiverID int64, in SubmitInput) (*SubmitResult, error) {
	if !p.IsPregnant() {
		return nil, ErrNotPregnant
	}
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, ErrInvalidRating
	}
	if utf8.RuneCountInString(in.Comment) > maxCommentLength {
		return nil, ErrCommentTooLong
	}

	res := &SubmitResult{}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		cg, err := tx.LockCaregiver(ctx, caregiverID)
		if err != nil {
			return err
		}
		if cg.UserID == p.UserID {
			return ErrSelfReview
		}

		existing, err := tx.FindByPair(ctx, caregiverID, p.PregnantID)
		switch {
		case err == nil:
			existing.Rating = in.Rating
			existing.Comment = in.Comment
			if err := tx.Update(ctx, existing); err != nil {
				return err
			}
			res.Review = existing
		case errors.Is(err, ErrReviewNotFound):
			rv := &domain.CaregiverReview{
				CaregiverID: caregiverID,
				ReviewerID:  p.PregnantID,
				Rating:      in.Rating,
				Comment:     in.Comment,
			}
			if err := tx.Create(ctx, rv); err != nil {
				return err
			}
			res.Review = rv
			res.Created = true
		default:
			return err
		}

		res.Aggregate, err = s.aggregator.Recompute(ctx, tx, caregiverID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, caregiverID)
	s.log.Info().
		Int64("caregiver_id", caregiverID).
		Int64("reviewer_id", p.PregnantID).
		Bool("created", res.Created).
		Float64("rating", res.Aggregate.Rating).
		Int64("total_reviews", res.Aggregate.TotalReviews).
		Msg("review saved")
	return res, nil
}

// Delete removes the caller's review of a caregiver and recomputes.
func (s *Service) Delete(ctx context.Context, p domain.Principal, caregiverID int64) (Aggregate, error) {
	if !p.IsPregnant() {
		return Aggregate{}, ErrNotPregnant
	}

	var agg Aggregate
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.LockCaregiver(ctx, caregiverID); err != nil {
			return err
		}
		existing, err := tx.FindByPair(ctx, caregiverID, p.PregnantID)
		if err != nil {
			return err
		}
		if err := tx.Delete(ctx, existing.ID); err != nil {
			return err
		}
		agg, err = s.aggregator.Recompute(ctx, tx, caregiverID)
		return err
	})
	if err != nil {
		return Aggregate{}, err
	}

	s.notify(ctx, caregiverID)
	return agg, nil
}

func (s *Service) ListForCaregiver(ctx context.Context, caregiverID int64, pg pagination.Params) ([]domain.CaregiverReview, int64, error) {
	return s.repo.ListByCaregiver(ctx, caregiverID, pg)
}

func (s *Service) notify(ctx context.Context, caregiverID int64) {
	if s.listener != nil {
		s.listener.RatingChanged(ctx, caregiverID)
	}
}
