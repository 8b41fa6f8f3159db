package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedRecommendation is one precomputed (user, wine) compatibility score,
// persisted by the batch refresh job.
type SavedRecommendation struct {
	UserID    uuid.UUID
	WineID    uuid.UUID
	Score     float64
	UpdatedAt time.Time
}

// RecommendedWine is a stored recommendation joined with its catalog record.
type RecommendedWine struct {
	Wine      WineRecord
	Score     float64
	UpdatedAt time.Time
}
