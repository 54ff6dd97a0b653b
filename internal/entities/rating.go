package entities

import "fmt"

const (
	// MinRating and MaxRating bound a single review score.
	MinRating = 1
	MaxRating = 5
)

// Rating is a running average over received review scores.
type Rating struct {
	Average float64
	Count   int64
}

// Apply folds one score into the running average without rescanning history.
// Contributions are never reversed; reviews are append-only.
func (r Rating) Apply(score int) Rating {
	return Rating{
		Average: r.Average + (float64(score)-r.Average)/float64(r.Count+1),
		Count:   r.Count + 1,
	}
}

// ValidateScore checks a score against [MinRating, MaxRating].
func ValidateScore(score int) error {
	if score < MinRating || score > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, MinRating, MaxRating)
	}
	return nil
}
