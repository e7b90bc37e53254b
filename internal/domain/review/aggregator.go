package review

import (
	"context"
	"fmt"
)

// AggregateStore is the storage the aggregator reads and writes. It must be
// bound to the transaction that performed the review write.
type AggregateStore interface {
	CountAndSum(ctx context.Context, caregiverID int64) (count, sum int64, err error)
	SetAggregate(ctx context.Context, caregiverID int64, rating float64, total int64) error
}

type Aggregate struct {
	Rating       float64 `json:"rating"`
	TotalReviews int64   `json:"total_reviews"`
}

// Aggregator keeps Caregiver.Rating and Caregiver.TotalReviews equal to the
// rounded mean and count of the caregiver's reviews.
type Aggregator struct{}

func (Aggregator) Recompute(ctx context.Context, store AggregateStore, caregiverID int64) (Aggregate, error) {
	count, sum, err := store.CountAndSum(ctx, caregiverID)
	if err != nil {
		return Aggregate{}, fmt.Errorf("count reviews for caregiver %d: %w", caregiverID, err)
	}

	agg := Aggregate{Rating: RoundedMean(sum, count), TotalReviews: count}
	if err := store.SetAggregate(ctx, caregiverID, agg.Rating, agg.TotalReviews); err != nil {
		return Aggregate{}, fmt.Errorf("store rating for caregiver %d: %w", caregiverID, err)
	}
	return agg, nil
}

// RoundedMean returns sum/count rounded half-up to one decimal place, or 0
// when count is 0. Integer arithmetic keeps x.x5 means from drifting down
// through binary floating point.
func RoundedMean(sum, count int64) float64 {
	if count <= 0 {
		return 0
	}
	tenths := (20*sum + count) / (2 * count)
	return float64(tenths) / 10
}
