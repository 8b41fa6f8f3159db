package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"github.com/vinoclub/wineclub-backend/internal/domain"
	"github.com/vinoclub/wineclub-backend/internal/telemetry"
)

// defaultSavedLimit is how many stored recommendations are served per user.
const defaultSavedLimit = 10

// ListSavedRecommendations defines the interface for reading precomputed
// recommendations produced by the batch refresh.
type ListSavedRecommendations interface {
	Query(ctx context.Context, userID uuid.UUID, limit int) ([]domain.RecommendedWine, error)
}

// ListSavedRecommendationsImpl is the implementation of the
// ListSavedRecommendations use case.
type ListSavedRecommendationsImpl struct {
	recRepo domain.RecommendationRepository
}

// NewListSavedRecommendationsImpl creates a new instance of ListSavedRecommendationsImpl.
func NewListSavedRecommendationsImpl(recRepo domain.RecommendationRepository) ListSavedRecommendationsImpl {
	return ListSavedRecommendationsImpl{recRepo: recRepo}
}

// Query retrieves the stored top recommendations for one user, highest score
// first. A non-positive limit uses the default.
func (ls ListSavedRecommendationsImpl) Query(ctx context.Context, userID uuid.UUID, limit int) ([]domain.RecommendedWine, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	if limit <= 0 || limit > defaultSavedLimit {
		limit = defaultSavedLimit
	}

	recs, err := ls.recRepo.ListForUser(spanCtx, userID, limit)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	return recs, nil
}

// InitListSavedRecommendations initializes the ListSavedRecommendations use
// case and registers it in the dependency container.
type InitListSavedRecommendations struct {
	RecRepo domain.RecommendationRepository `resolve:""`
}

// Initialize registers the ListSavedRecommendations implementation in the dependency container.
func (ils InitListSavedRecommendations) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[ListSavedRecommendations](NewListSavedRecommendationsImpl(ils.RecRepo))
	return ctx, nil
}
