package modelrunner

import (
	"context"
	"errors"
	"net/http"

	"github.com/cleitonmarx/symbiont/depend"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vinoclub/wineclub-backend/internal/domain"
	"github.com/vinoclub/wineclub-backend/internal/telemetry"
)

// SemanticEncoder adapts DRMAPIClient to the domain.SemanticEncoder interface
type SemanticEncoder struct {
	client DRMAPIClient
}

// NewSemanticEncoderAdapter creates a new adapter
func NewSemanticEncoderAdapter(client DRMAPIClient) SemanticEncoder {
	return SemanticEncoder{client: client}
}

// VectorizeProfile implements domain.SemanticEncoder.VectorizeProfile
func (a SemanticEncoder) VectorizeProfile(ctx context.Context, model, summary string) (domain.EmbeddingVector, error) {
	spanCtx, span := telemetry.Start(ctx,
		trace.WithAttributes(attribute.String("model", model)),
	)
	defer span.End()

	resp, err := a.client.Embeddings(spanCtx, EmbeddingsRequest{
		Model: model,
		Input: summary,
	})
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.EmbeddingVector{}, err
	}

	if len(resp.Data) == 0 {
		err := errors.New("no embeddings in response")
		telemetry.RecordErrorAndStatus(span, err)
		return domain.EmbeddingVector{}, err
	}

	return domain.EmbeddingVector{
		Vector:      domain.Vector(resp.Data[0].Embedding),
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}

// InitSemanticEncoder initializes the SemanticEncoder dependency
type InitSemanticEncoder struct {
	HttpClient  *http.Client `resolve:""`
	EncoderHost string       `config:"ENCODER_MODEL_HOST"`
	APIKey      string       `config:"ENCODER_API_KEY" default:""`
}

// Initialize registers the SemanticEncoder
func (i InitSemanticEncoder) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.SemanticEncoder](NewSemanticEncoderAdapter(
		NewDRMAPIClient(i.EncoderHost, i.APIKey, i.HttpClient),
	))
	return ctx, nil
}
