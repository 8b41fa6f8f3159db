package postgres

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vinoclub/wineclub-backend/internal/domain"
	"github.com/vinoclub/wineclub-backend/internal/telemetry"
)

// VectorRepository implements the domain.VectorRepository interface using
// PostgreSQL with the pgvector extension as the storage backend.
type VectorRepository struct {
	sb squirrel.StatementBuilderType
}

// NewVectorRepository creates a new instance of VectorRepository.
func NewVectorRepository(br squirrel.BaseRunner) VectorRepository {
	return VectorRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// FetchVectors retrieves the stored vectors for the given IDs from one
// namespace. Absent IDs are missing from the result map, never an error.
func (vr VectorRepository) FetchVectors(ctx context.Context, namespace string, ids []string) (map[string]domain.Vector, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.String("namespace", namespace),
		attribute.Int("id_count", len(ids)),
	))
	defer span.End()

	if len(ids) == 0 {
		return map[string]domain.Vector{}, nil
	}

	rows, err := vr.sb.
		Select(
			"id",
			"embedding",
		).
		From("wine_vectors").
		Where(squirrel.Eq{"namespace": namespace}).
		Where(squirrel.Eq{"id": ids}).
		Where("embedding IS NOT NULL").
		QueryContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	vectors := make(map[string]domain.Vector, len(ids))
	for rows.Next() {
		var id string
		var embedding pgvector.Vector
		if err := rows.Scan(&id, &embedding); telemetry.RecordErrorAndStatus(span, err) {
			return nil, err
		}
		vectors[id] = toFloat64Vector(embedding.Slice())
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	return vectors, nil
}

func toFloat64Vector(input []float32) domain.Vector {
	vec := make(domain.Vector, len(input))
	for i, v := range input {
		vec[i] = float64(v)
	}
	return vec
}

// InitVectorRepository is a Symbiont initializer for VectorRepository.
type InitVectorRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the VectorRepository in the dependency container.
func (vr InitVectorRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.VectorRepository](NewVectorRepository(vr.DB))
	return ctx, nil
}
