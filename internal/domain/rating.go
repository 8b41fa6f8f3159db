package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RatingEntry is one historical interaction of a user with a wine.
// Ratings use a 0-100 scale; 0-5 style inputs are a caller contract
// violation and are rejected, never rescaled.
type RatingEntry struct {
	WineID    uuid.UUID
	Region    string
	Style     string
	Rating    float64
	Review    string
	CreatedAt time.Time
}

// Validate checks the rating-scale contract.
func (r RatingEntry) Validate() error {
	if r.Rating < 0 || r.Rating > 100 {
		return NewValidationErr(fmt.Sprintf("rating %.2f is outside the 0-100 scale", r.Rating))
	}
	return nil
}

// TasteProfile maps a wine ID to the user's own historical rating for that
// wine, normalized to [0,1]. Used as the per-wine score adjustment.
type TasteProfile map[uuid.UUID]float64

// BuildTasteProfile derives the normalized per-wine rating map from a
// rating history. Entries with a zero rating carry no signal and are skipped.
func BuildTasteProfile(ratings []RatingEntry) TasteProfile {
	profile := TasteProfile{}
	for _, r := range ratings {
		if r.Rating != 0 {
			profile[r.WineID] = r.Rating / 100
		}
	}
	return profile
}

// AdjustmentFor returns the boost factor for a wine, 0 when never rated.
func (p TasteProfile) AdjustmentFor(wineID uuid.UUID) float64 {
	return p[wineID]
}
