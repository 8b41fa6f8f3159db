package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	// EventType_RECOMMENDATIONS_REFRESHED represents the event emitted after a
	// user's precomputed recommendations were rebuilt.
	EventType_RECOMMENDATIONS_REFRESHED EventType = "RECOMMENDATIONS.REFRESHED"
	// EventType_RATING_SUBMITTED represents the event when a user submits a
	// wine rating elsewhere in the system.
	EventType_RATING_SUBMITTED EventType = "RATING.SUBMITTED"
)

// RecommendationEvent represents a recommendation domain event.
type RecommendationEvent struct {
	Type      EventType
	UserID    uuid.UUID
	WineCount int
	CreatedAt time.Time
}
