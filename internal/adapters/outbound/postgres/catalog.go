package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont/depend"

	"github.com/vinoclub/wineclub-backend/internal/domain"
	"github.com/vinoclub/wineclub-backend/internal/telemetry"
)

var (
	wineFields = []string{
		"id",
		"name",
		"producer",
		"region",
		"sub_region",
		"country",
		"varietal",
		"vintage",
		"price",
		"style",
		"image_path",
		"alcohol_percentage",
		"metadata",
	}
)

// WineCatalogRepository implements the domain.WineCatalogRepository interface
// using PostgreSQL as the storage backend.
type WineCatalogRepository struct {
	sb squirrel.StatementBuilderType
}

// NewWineCatalogRepository creates a new instance of WineCatalogRepository.
func NewWineCatalogRepository(br squirrel.BaseRunner) WineCatalogRepository {
	return WineCatalogRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// ListWines retrieves the full catalog snapshot in insertion order.
func (wr WineCatalogRepository) ListWines(ctx context.Context) ([]domain.WineRecord, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	rows, err := wr.sb.
		Select(
			wineFields...,
		).
		From("wine_inventory").
		OrderBy("created_at ASC").
		QueryContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var wines []domain.WineRecord
	for rows.Next() {
		wine, err := scanWine(rows)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, err
		}
		wines = append(wines, wine)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	return wines, nil
}

func scanWine(rows *sql.Rows) (domain.WineRecord, error) {
	var wine domain.WineRecord
	var metadataBytes []byte
	err := rows.Scan(
		&wine.ID,
		&wine.Name,
		&wine.Producer,
		&wine.Region,
		&wine.SubRegion,
		&wine.Country,
		&wine.Varietal,
		&wine.Vintage,
		&wine.Price,
		&wine.Style,
		&wine.ImagePath,
		&wine.AlcoholPerc,
		&metadataBytes,
	)
	if err != nil {
		return domain.WineRecord{}, err
	}

	if len(metadataBytes) > 0 {
		if err := json.Unmarshal(metadataBytes, &wine.Metadata); err != nil {
			return domain.WineRecord{}, fmt.Errorf("failed to unmarshal wine metadata: %w", err)
		}
	}

	return wine, nil
}

// InitWineCatalogRepository is a Symbiont initializer for WineCatalogRepository.
type InitWineCatalogRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the WineCatalogRepository in the dependency container.
func (wr InitWineCatalogRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.WineCatalogRepository](NewWineCatalogRepository(wr.DB))
	return ctx, nil
}
