package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vinoclub/wineclub-backend/internal/domain"
	"github.com/vinoclub/wineclub-backend/internal/telemetry"
)

// RecommendationRepository implements the domain.RecommendationRepository
// interface using PostgreSQL as the storage backend.
type RecommendationRepository struct {
	sb squirrel.StatementBuilderType
}

// NewRecommendationRepository creates a new instance of RecommendationRepository.
func NewRecommendationRepository(br squirrel.BaseRunner) RecommendationRepository {
	return RecommendationRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// UpsertRecommendations writes a batch of precomputed scores, replacing any
// previous score per (user, wine) pair.
func (rr RecommendationRepository) UpsertRecommendations(ctx context.Context, recs []domain.SavedRecommendation) error {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.Int("count", len(recs)),
	))
	defer span.End()

	if len(recs) == 0 {
		return nil
	}

	qry := rr.sb.
		Insert("user_recommendations").
		Columns(
			"user_id",
			"wine_id",
			"score",
			"updated_at",
		)

	for _, rec := range recs {
		qry = qry.Values(
			rec.UserID,
			rec.WineID,
			rec.Score,
			rec.UpdatedAt,
		)
	}

	_, err := qry.
		Suffix("ON CONFLICT (user_id, wine_id) DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at").
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}

	return nil
}

// ListForUser retrieves the stored top recommendations for one user, highest
// score first, joined with the catalog records.
func (rr RecommendationRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.RecommendedWine, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.Int("limit", limit),
	))
	defer span.End()

	rows, err := rr.sb.
		Select(
			"w.id",
			"w.name",
			"w.producer",
			"w.region",
			"w.sub_region",
			"w.country",
			"w.varietal",
			"w.vintage",
			"w.price",
			"w.style",
			"w.image_path",
			"w.alcohol_percentage",
			"w.metadata",
			"ur.score",
			"ur.updated_at",
		).
		From("user_recommendations ur").
		Join("wine_inventory w ON w.id = ur.wine_id").
		Where(squirrel.Eq{"ur.user_id": userID}).
		OrderBy("ur.score DESC").
		Limit(uint64(limit)).
		QueryContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var recs []domain.RecommendedWine
	for rows.Next() {
		rec, err := scanRecommendedWine(rows)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, err
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	return recs, nil
}

func scanRecommendedWine(rows *sql.Rows) (domain.RecommendedWine, error) {
	var rec domain.RecommendedWine
	var metadataBytes []byte
	err := rows.Scan(
		&rec.Wine.ID,
		&rec.Wine.Name,
		&rec.Wine.Producer,
		&rec.Wine.Region,
		&rec.Wine.SubRegion,
		&rec.Wine.Country,
		&rec.Wine.Varietal,
		&rec.Wine.Vintage,
		&rec.Wine.Price,
		&rec.Wine.Style,
		&rec.Wine.ImagePath,
		&rec.Wine.AlcoholPerc,
		&metadataBytes,
		&rec.Score,
		&rec.UpdatedAt,
	)
	if err != nil {
		return domain.RecommendedWine{}, err
	}

	if len(metadataBytes) > 0 {
		if err := json.Unmarshal(metadataBytes, &rec.Wine.Metadata); err != nil {
			return domain.RecommendedWine{}, fmt.Errorf("failed to unmarshal wine metadata: %w", err)
		}
	}

	return rec, nil
}

// InitRecommendationRepository is a Symbiont initializer for RecommendationRepository.
type InitRecommendationRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the RecommendationRepository in the dependency container.
func (rr InitRecommendationRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.RecommendationRepository](NewRecommendationRepository(rr.DB))
	return ctx, nil
}
