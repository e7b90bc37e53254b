package verification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"maternity/internal/domain"
	"maternity/internal/media"
)

const (
	minIDNumberLength = 6
	maxIDNumberLength = 50
)

type Service struct {
	repo  Repository
	store media.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(repo Repository, store media.Store, log zerolog.Logger) *Service {
	return &Service{repo: repo, store: store, log: log, now: time.Now}
}

type SubmitInput struct {
	IDType     domain.IDType
	IDNumber   string
	FrontImage *multipart.FileHeader
	BackImage  *multipart.FileHeader
}

const (
	SideFront = "front"
	SideBack  = "back"
)

// Record is a verification with links to its images. The links point at
// authenticated endpoints and are filled in by the handler that serves it.
type Record struct {
	*domain.IDVerification
	FrontImageURL string `json:"front_image_url"`
	BackImageURL  string `json:"back_image_url"`
}

func (s *Service) record(v *domain.IDVerification) *Record {
	return &Record{IDVerification: v}
}

func (in SubmitInput) validate() (SubmitInput, error) {
	if !in.IDType.Valid() {
		return in, ErrInvalidIDType
	}
	in.IDNumber = strings.TrimSpace(in.IDNumber)
	if n := utf8.RuneCountInString(in.IDNumber); n < minIDNumberLength || n > maxIDNumberLength {
		return in, ErrInvalidIDNumber
	}
	if in.FrontImage == nil || in.BackImage == nil {
		return in, ErrImagesRequired
	}
	return in, nil
}

// Submit stores both images and records a pending verification. A prior
// rejected verification is replaced; a pending or approved one blocks the
// submission.
func (s *Service) Submit(ctx context.Context, userID int64, in SubmitInput) (*Record, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByUser(ctx, userID)
	switch {
	case err == nil:
		if err := blocking(existing); err != nil {
			return nil, err
		}
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	prefix := fmt.Sprintf("verification/%d", userID)
	front, err := s.store.Put(ctx, prefix, in.FrontImage)
	if err != nil {
		return nil, err
	}
	back, err := s.store.Put(ctx, prefix, in.BackImage)
	if err != nil {
		s.discard(ctx, front.Key)
		return nil, err
	}

	v := &domain.IDVerification{
		UserID:         userID,
		IDType:         in.IDType,
		IDNumber:       in.IDNumber,
		FrontImage:     front.Key,
		BackImage:      back.Key,
		SubmissionDate: s.now(),
	}
	v.SetStatus(domain.VerificationPending)

	var replaced *domain.IDVerification
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		prev, err := tx.LockByUser(ctx, userID)
		switch {
		case err == nil:
			if err := blocking(prev); err != nil {
				return err
			}
			if err := tx.Delete(ctx, prev.ID); err != nil {
				return err
			}
			replaced = prev
		case !errors.Is(err, ErrNotFound):
			return err
		}
		return tx.Create(ctx, v)
	})
	if err != nil {
		s.discard(ctx, front.Key, back.Key)
		return nil, err
	}

	if replaced != nil {
		s.discard(ctx, replaced.FrontImage, replaced.BackImage)
	}
	s.log.Info().
		Int64("user_id", userID).
		Int64("verification_id", v.ID).
		Str("id_type", string(v.IDType)).
		Bool("resubmission", replaced != nil).
		Msg("verification submitted")
	return s.record(v), nil
}

func blocking(v *domain.IDVerification) error {
	switch v.VerificationStatus {
	case domain.VerificationApproved:
		return ErrAlreadyVerified
	case domain.VerificationRejected:
		return nil
	default:
		return ErrPending
	}
}

func (s *Service) Status(ctx context.Context, userID int64) (*Record, error) {
	v, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.record(v), nil
}

// Review is the operator decision on a verification.
func (s *Service) Review(ctx context.Context, id int64, status domain.VerificationStatus) (*Record, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var v *domain.IDVerification
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		v, err = tx.Lock(ctx, id)
		if err != nil {
			return err
		}
		v.SetStatus(status)
		now := s.now()
		v.ReviewedAt = &now
		return tx.Save(ctx, v)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("verification_id", id).
		Int64("user_id", v.UserID).
		Str("status", string(status)).
		Msg("verification reviewed")
	return s.record(v), nil
}

// Image is a stored document image opened for reading.
type Image struct {
	Body        io.ReadCloser
	ContentType string
}

// OwnImage opens one side of the caller's current verification.
func (s *Service) OwnImage(ctx context.Context, userID int64, side string) (*Image, error) {
	v, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.image(ctx, v, side)
}

// ImageByID opens one side of any verification, for operators.
func (s *Service) ImageByID(ctx context.Context, id int64, side string) (*Image, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.image(ctx, v, side)
}

func (s *Service) image(ctx context.Context, v *domain.IDVerification, side string) (*Image, error) {
	var key string
	switch side {
	case SideFront:
		key = v.FrontImage
	case SideBack:
		key = v.BackImage
	default:
		return nil, ErrInvalidSide
	}
	body, err := s.store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	return &Image{Body: body, ContentType: media.ContentType(key)}, nil
}

// discard removes stored objects. Failures are logged and otherwise
// ignored.
func (s *Service) discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("failed to delete stored verification image")
		}
	}
}
