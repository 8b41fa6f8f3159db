package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Vector store namespaces. Wine taste vectors and the theory vector live in
// the taste space; wine embeddings live in the embedding space.
const (
	VectorNamespaceWineMetadata   = "wine-metadata"
	VectorNamespaceWineTheory     = "wine-theory"
	VectorNamespaceWineEmbeddings = "wine-embeddings"
)

// TheoryVectorID is the well-known key of the single global theory vector
// inside VectorNamespaceWineTheory.
const TheoryVectorID = "theory-vector"

// WineCatalogRepository reads the wine catalog.
type WineCatalogRepository interface {
	// ListWines retrieves the full catalog snapshot.
	ListWines(ctx context.Context) ([]WineRecord, error)
}

// UserProfileRepository reads user preference data.
type UserProfileRepository interface {
	// GetProfile retrieves one user's profile with ratings and precomputed
	// preference fields. The boolean is false when the user is unknown.
	GetProfile(ctx context.Context, userID uuid.UUID) (UserProfile, bool, error)

	// ListTastePortraits retrieves the enriched per-user rating portraits
	// used by the batch recommendation refresh.
	ListTastePortraits(ctx context.Context) ([]TastePortrait, error)
}

// VectorRepository fetches stored vectors by ID from a named namespace.
// Absent IDs are simply missing from the result map, never an error.
type VectorRepository interface {
	FetchVectors(ctx context.Context, namespace string, ids []string) (map[string]Vector, error)
}

// RecommendationRepository persists and serves precomputed recommendations.
type RecommendationRepository interface {
	// UpsertRecommendations writes a batch of precomputed scores,
	// replacing any previous score per (user, wine) pair.
	UpsertRecommendations(ctx context.Context, recs []SavedRecommendation) error

	// ListForUser retrieves the stored top recommendations for one user,
	// highest score first, joined with the catalog records.
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]RecommendedWine, error)
}

// OutboxRepository stores domain events for asynchronous relay.
type OutboxRepository interface {
	// RecordEvent appends a recommendation event to the outbox.
	RecordEvent(ctx context.Context, event RecommendationEvent) error

	// FetchPendingEvents retrieves a batch of pending outbox events.
	FetchPendingEvents(ctx context.Context, limit int) ([]OutboxEvent, error)

	// UpdateEvent updates the status, retry count, and last error of an outbox event.
	UpdateEvent(ctx context.Context, eventID uuid.UUID, status OutboxStatus, retryCount int, lastError string) error

	// DeleteEvent deletes an outbox event.
	DeleteEvent(ctx context.Context, eventID uuid.UUID) error
}

// UnitOfWork runs repository operations inside one transaction.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(uow UnitOfWork) error) error
	Recommendations() RecommendationRepository
	Outbox() OutboxRepository
}

// EventPublisher publishes relayed outbox events to the event bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event OutboxEvent) error
}

// CurrentTimeProvider abstracts the clock.
type CurrentTimeProvider interface {
	Now() time.Time
}

// EmbeddingVector is a semantic vector plus token accounting.
type EmbeddingVector struct {
	Vector      Vector
	TotalTokens int
}

// SemanticEncoder turns a rendered taste-portrait summary into an
// embedding-space vector.
type SemanticEncoder interface {
	VectorizeProfile(ctx context.Context, model, summary string) (EmbeddingVector, error)
}
