package domain

import (
	"github.com/google/uuid"
)

// UserProfile is the aggregate preference signal for one user. Either the
// raw rating history or the precomputed favorite fields must be present;
// which one is populated decides the taste-vector strategy.
type UserProfile struct {
	ID              uuid.UUID
	Ratings         []RatingEntry
	FavoriteRegions []string
	FavoriteStyles  []string
	AverageRating   float64
}

// HasRatings reports whether the raw rating history is available.
func (p UserProfile) HasRatings() bool {
	return len(p.Ratings) > 0
}

// HasPreferences reports whether the precomputed favorite fields are available.
func (p UserProfile) HasPreferences() bool {
	return len(p.FavoriteRegions) > 0 || len(p.FavoriteStyles) > 0
}

// Validate enforces the profile invariant: at least one signal source.
func (p UserProfile) Validate() error {
	if !p.HasRatings() && !p.HasPreferences() {
		return NewValidationErr("user profile has neither ratings nor precomputed preferences")
	}
	for _, r := range p.Ratings {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}
