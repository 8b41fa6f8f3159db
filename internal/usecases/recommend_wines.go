package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"github.com/vinoclub/wineclub-backend/internal/domain"
	"github.com/vinoclub/wineclub-backend/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// maxRecommendations caps the on-demand pipeline result.
const maxRecommendations = 5

// Taste-vector strategy labels used in metrics.
const (
	strategyRatingHistory = "rating-history"
	strategyPreferences   = "preferences"
)

// RecommendWinesParams holds the optional catalog filters and the optional
// caller-provided preference context of one request.
type RecommendWinesParams struct {
	Region     *string
	Style      *string
	PriceRange *domain.PriceRange
	Profile    *domain.UserProfile
}

// RecommendWinesOptions defines a function type for narrowing the candidate set.
type RecommendWinesOptions func(*RecommendWinesParams)

// WithRegion creates a RecommendWinesOptions to filter candidates by region.
func WithRegion(region string) RecommendWinesOptions {
	return func(params *RecommendWinesParams) {
		params.Region = &region
	}
}

// WithStyle creates a RecommendWinesOptions to filter candidates by style.
func WithStyle(style string) RecommendWinesOptions {
	return func(params *RecommendWinesParams) {
		params.Style = &style
	}
}

// WithPriceRange creates a RecommendWinesOptions to filter candidates by an
// inclusive price interval.
func WithPriceRange(min, max float64) RecommendWinesOptions {
	return func(params *RecommendWinesParams) {
		params.PriceRange = &domain.PriceRange{Min: min, Max: max}
	}
}

// WithProfileContext creates a RecommendWinesOptions that supplies the user's
// preference signal inline, skipping the profile lookup.
func WithProfileContext(profile domain.UserProfile) RecommendWinesOptions {
	return func(params *RecommendWinesParams) {
		params.Profile = &profile
	}
}

// RecommendWines defines the interface for the on-demand recommendation pipeline.
type RecommendWines interface {
	Execute(ctx context.Context, userID uuid.UUID, opts ...RecommendWinesOptions) ([]domain.CompatibilityResult, error)
}

// RecommendWinesImpl is the implementation of the RecommendWines use case.
type RecommendWinesImpl struct {
	catalogRepo    domain.WineCatalogRepository
	profileRepo    domain.UserProfileRepository
	vectorRepo     domain.VectorRepository
	historyBuilder domain.TasteVectorBuilder
	prefBuilder    domain.TasteVectorBuilder
}

// NewRecommendWinesImpl creates a new instance of RecommendWinesImpl.
func NewRecommendWinesImpl(
	catalogRepo domain.WineCatalogRepository,
	profileRepo domain.UserProfileRepository,
	vectorRepo domain.VectorRepository,
	sentiment domain.SentimentAnalyzer,
) RecommendWinesImpl {
	return RecommendWinesImpl{
		catalogRepo:    catalogRepo,
		profileRepo:    profileRepo,
		vectorRepo:     vectorRepo,
		historyBuilder: domain.NewRatingHistoryBuilder(sentiment),
		prefBuilder:    domain.NewPreferenceBuilder(),
	}
}

// Execute runs the pipeline: load the user and the catalog in parallel, narrow
// the candidates, resolve the stored vectors, score every candidate against
// the user's taste vector and return the top results by descending score.
func (rw RecommendWinesImpl) Execute(ctx context.Context, userID uuid.UUID, opts ...RecommendWinesOptions) ([]domain.CompatibilityResult, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	params := RecommendWinesParams{}
	for _, opt := range opts {
		opt(&params)
	}
	filter := domain.CatalogFilter{
		Region:     params.Region,
		Style:      params.Style,
		PriceRange: params.PriceRange,
	}
	if err := filter.Validate(); err != nil {
		telemetry.RecordErrorAndStatus(span, err)
		return nil, err
	}

	profile, wines, err := rw.fetchInputs(spanCtx, userID, params.Profile)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	candidates := domain.FilterWines(wines, filter)
	if len(candidates) == 0 {
		return []domain.CompatibilityResult{}, nil
	}

	userVector, strategy, err := rw.buildUserVector(profile)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	wineVectors, theoryVector, err := rw.fetchVectors(spanCtx, candidates)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	tasteProfile := domain.BuildTasteProfile(profile.Ratings)

	results := make([]domain.CompatibilityResult, 0, len(candidates))
	for _, wine := range candidates {
		score, err := domain.ScoreCompatibility(userVector, wineVectors[wine.ID.String()], theoryVector)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, err
		}
		score = domain.AdjustForHistory(score, tasteProfile.AdjustmentFor(wine.ID))
		results = append(results, domain.CompatibilityResult{Wine: wine, Score: score})
	}
	RecordWinesScored(spanCtx, len(results), strategy)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxRecommendations {
		results = results[:maxRecommendations]
	}
	return results, nil
}

// fetchInputs loads the user profile and the wine catalog concurrently. An
// inline profile context replaces the profile lookup after validation.
func (rw RecommendWinesImpl) fetchInputs(ctx context.Context, userID uuid.UUID, inline *domain.UserProfile) (domain.UserProfile, []domain.WineRecord, error) {
	var (
		profile domain.UserProfile
		wines   []domain.WineRecord
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if inline != nil {
			if err := inline.Validate(); err != nil {
				return err
			}
			profile = *inline
			return nil
		}
		p, found, err := rw.profileRepo.GetProfile(gCtx, userID)
		if err != nil {
			return fmt.Errorf("user fetch error: %w", err)
		}
		if !found {
			return domain.NewNotFoundErr(fmt.Sprintf("user %s not found", userID))
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		w, err := rw.catalogRepo.ListWines(gCtx)
		if err != nil {
			return fmt.Errorf("wine fetch error: %w", err)
		}
		wines = w
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.UserProfile{}, nil, err
	}
	return profile, wines, nil
}

// buildUserVector picks the taste-vector strategy from the available signal.
// A rating history too sparse for the history builder falls back to the
// precomputed preferences when those exist.
func (rw RecommendWinesImpl) buildUserVector(profile domain.UserProfile) (domain.Vector, string, error) {
	if !profile.HasRatings() {
		vector, err := rw.prefBuilder.Build(profile)
		return vector, strategyPreferences, err
	}

	vector, err := rw.historyBuilder.Build(profile)
	if err != nil {
		var dimErr *domain.DimensionErr
		if errors.As(err, &dimErr) && profile.HasPreferences() {
			vector, err = rw.prefBuilder.Build(profile)
			return vector, strategyPreferences, err
		}
		return nil, strategyRatingHistory, err
	}
	return vector, strategyRatingHistory, nil
}

// fetchVectors resolves the stored wine vectors and the global theory vector
// concurrently. IDs absent from the store degrade to empty vectors.
func (rw RecommendWinesImpl) fetchVectors(ctx context.Context, candidates []domain.WineRecord) (map[string]domain.Vector, domain.Vector, error) {
	ids := make([]string, len(candidates))
	for i, wine := range candidates {
		ids[i] = wine.ID.String()
	}

	var (
		wineVectors  map[string]domain.Vector
		theoryVector domain.Vector
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vectors, err := rw.vectorRepo.FetchVectors(gCtx, domain.VectorNamespaceWineMetadata, ids)
		if err != nil {
			return fmt.Errorf("wine fetch error: %w", err)
		}
		wineVectors = vectors
		return nil
	})
	g.Go(func() error {
		vectors, err := rw.vectorRepo.FetchVectors(gCtx, domain.VectorNamespaceWineTheory, []string{domain.TheoryVectorID})
		if err != nil {
			return fmt.Errorf("theory vector fetch error: %w", err)
		}
		theoryVector = vectors[domain.TheoryVectorID]
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return wineVectors, theoryVector, nil
}

// InitRecommendWines initializes the RecommendWines use case and registers it
// in the dependency container.
type InitRecommendWines struct {
	CatalogRepo domain.WineCatalogRepository `resolve:""`
	ProfileRepo domain.UserProfileRepository `resolve:""`
	VectorRepo  domain.VectorRepository      `resolve:""`
	Sentiment   domain.SentimentAnalyzer     `resolve:""`
}

// Initialize registers the RecommendWines implementation in the dependency container.
func (irw InitRecommendWines) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[RecommendWines](NewRecommendWinesImpl(
		irw.CatalogRepo, irw.ProfileRepo, irw.VectorRepo, irw.Sentiment,
	))
	return ctx, nil
}
