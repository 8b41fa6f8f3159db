package usecases

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/toon-format/toon-go"
	"github.com/vinoclub/wineclub-backend/internal/domain"
	"github.com/vinoclub/wineclub-backend/internal/telemetry"
)

const (
	// savedRecommendationCount is how many wines the refresh stores per user.
	savedRecommendationCount = 10

	// embeddingFetchChunkSize bounds one vector-store round trip.
	embeddingFetchChunkSize = 50
)

// CompletedRefreshChannel is a channel type for sending processed
// domain.RecommendationEvent items. It is used in integration tests to verify
// the batch refresh.
type CompletedRefreshChannel chan domain.RecommendationEvent

// RefreshRecommendations is the use case interface for the batch
// recommendation refresh over all users with rating history.
type RefreshRecommendations interface {
	Execute(ctx context.Context) error
}

// RefreshRecommendationsImpl is the implementation of the
// RefreshRecommendations use case.
type RefreshRecommendationsImpl struct {
	catalogRepo  domain.WineCatalogRepository
	profileRepo  domain.UserProfileRepository
	vectorRepo   domain.VectorRepository
	uow          domain.UnitOfWork
	encoder      domain.SemanticEncoder
	timeProvider domain.CurrentTimeProvider
	model        string
	logger       *log.Logger
	completedCh  CompletedRefreshChannel
}

// NewRefreshRecommendationsImpl creates a new instance of RefreshRecommendationsImpl.
func NewRefreshRecommendationsImpl(
	catalogRepo domain.WineCatalogRepository,
	profileRepo domain.UserProfileRepository,
	vectorRepo domain.VectorRepository,
	uow domain.UnitOfWork,
	encoder domain.SemanticEncoder,
	timeProvider domain.CurrentTimeProvider,
	model string,
	logger *log.Logger,
	completedCh CompletedRefreshChannel,
) RefreshRecommendationsImpl {
	return RefreshRecommendationsImpl{
		catalogRepo:  catalogRepo,
		profileRepo:  profileRepo,
		vectorRepo:   vectorRepo,
		uow:          uow,
		encoder:      encoder,
		timeProvider: timeProvider,
		model:        model,
		logger:       logger,
		completedCh:  completedCh,
	}
}

// Execute refreshes the stored recommendations of every user with rating
// history. One user failing is logged and skipped, never aborting the batch.
func (rr RefreshRecommendationsImpl) Execute(ctx context.Context) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	portraits, err := rr.profileRepo.ListTastePortraits(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	if len(portraits) == 0 {
		return nil
	}

	wines, err := rr.catalogRepo.ListWines(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}

	embeddings, err := rr.fetchWineEmbeddings(spanCtx, wines)
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}

	for _, portrait := range portraits {
		if err := rr.refreshUser(spanCtx, portrait, wines, embeddings); err != nil {
			rr.logger.Printf("recommendation refresh failed for user %s: %v", portrait.UserID, err)
			RecordProfileRefreshed(spanCtx, "failed")
			continue
		}
		RecordProfileRefreshed(spanCtx, "refreshed")
	}
	return nil
}

// fetchWineEmbeddings resolves the stored embedding of every catalog wine,
// chunked to bound the round-trip size. Wines without an embedding, or with a
// stored embedding outside the embedding space, are logged and absent from
// the result.
func (rr RefreshRecommendationsImpl) fetchWineEmbeddings(ctx context.Context, wines []domain.WineRecord) (map[string]domain.Vector, error) {
	ids := make([]string, len(wines))
	for i, wine := range wines {
		ids[i] = wine.ID.String()
	}

	embeddings := make(map[string]domain.Vector, len(ids))
	for start := 0; start < len(ids); start += embeddingFetchChunkSize {
		end := min(start+embeddingFetchChunkSize, len(ids))
		chunk, err := rr.vectorRepo.FetchVectors(ctx, domain.VectorNamespaceWineEmbeddings, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("wine embedding fetch error: %w", err)
		}
		for id, vector := range chunk {
			if vector.Dim() != domain.EmbeddingVectorDim {
				rr.logger.Printf("skipping stored embedding for wine %s: %d dimensions, expected %d",
					id, vector.Dim(), domain.EmbeddingVectorDim)
				continue
			}
			embeddings[id] = vector
		}
	}
	return embeddings, nil
}

// refreshUser embeds one user's taste portrait, scores it against every wine
// embedding and stores the top results together with an outbox event.
func (rr RefreshRecommendationsImpl) refreshUser(
	ctx context.Context,
	portrait domain.TastePortrait,
	wines []domain.WineRecord,
	embeddings map[string]domain.Vector,
) error {
	userVector, err := rr.embedPortrait(ctx, portrait)
	if err != nil {
		return err
	}

	now := rr.timeProvider.Now()
	scored := make([]domain.SavedRecommendation, 0, len(wines))
	for _, wine := range wines {
		embedding, ok := embeddings[wine.ID.String()]
		if !ok {
			continue
		}
		score, err := domain.ScoreCompatibility(userVector, embedding, nil)
		if err != nil {
			return fmt.Errorf("scoring wine %s: %w", wine.ID, err)
		}
		scored = append(scored, domain.SavedRecommendation{
			UserID:    portrait.UserID,
			WineID:    wine.ID,
			Score:     score,
			UpdatedAt: now,
		})
	}
	if len(scored) == 0 {
		return nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > savedRecommendationCount {
		scored = scored[:savedRecommendationCount]
	}

	event := domain.RecommendationEvent{
		Type:      domain.EventType_RECOMMENDATIONS_REFRESHED,
		UserID:    portrait.UserID,
		WineCount: len(scored),
		CreatedAt: now,
	}

	err = rr.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		if err := uow.Recommendations().UpsertRecommendations(ctx, scored); err != nil {
			return err
		}
		return uow.Outbox().RecordEvent(ctx, event)
	})
	if err != nil {
		return err
	}

	if rr.completedCh != nil {
		rr.completedCh <- event
	}
	return nil
}

// embedPortrait renders the portrait summary, taste vector included, to TOON
// and runs it through the semantic encoder, enforcing the embedding-space
// dimensionality.
func (rr RefreshRecommendationsImpl) embedPortrait(ctx context.Context, portrait domain.TastePortrait) (domain.Vector, error) {
	summary, err := portrait.Summary(rr.timeProvider.Now().Year())
	if err != nil {
		return nil, err
	}

	summaryTOON, err := toon.MarshalString(summary, toon.WithLengthMarkers(true))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal portrait summary: %w", err)
	}

	resp, err := rr.encoder.VectorizeProfile(ctx, rr.model, summaryTOON)
	if err != nil {
		return nil, err
	}
	RecordEncoderTokens(ctx, resp.TotalTokens)

	if resp.Vector.Dim() != domain.EmbeddingVectorDim {
		return nil, domain.NewDimensionErr(fmt.Sprintf(
			"profile embedding has %d dimensions, expected %d", resp.Vector.Dim(), domain.EmbeddingVectorDim,
		))
	}
	return resp.Vector, nil
}

// InitRefreshRecommendations initializes the RefreshRecommendations use case.
type InitRefreshRecommendations struct {
	CatalogRepo  domain.WineCatalogRepository `resolve:""`
	ProfileRepo  domain.UserProfileRepository `resolve:""`
	VectorRepo   domain.VectorRepository      `resolve:""`
	Uow          domain.UnitOfWork            `resolve:""`
	Encoder      domain.SemanticEncoder       `resolve:""`
	TimeProvider domain.CurrentTimeProvider   `resolve:""`
	Logger       *log.Logger                  `resolve:""`
	Model        string                       `config:"ENCODER_EMBEDDING_MODEL"`
}

// Initialize registers the RefreshRecommendations use case implementation.
func (irr InitRefreshRecommendations) Initialize(ctx context.Context) (context.Context, error) {
	completedCh, _ := depend.Resolve[CompletedRefreshChannel]()
	depend.Register[RefreshRecommendations](NewRefreshRecommendationsImpl(
		irr.CatalogRepo, irr.ProfileRepo, irr.VectorRepo, irr.Uow,
		irr.Encoder, irr.TimeProvider, irr.Model, irr.Logger, completedCh,
	))
	return ctx, nil
}
