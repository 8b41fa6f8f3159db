package usecases

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter             = otel.Meter("usecases")
	WinesScored       metric.Int64Counter
	EncoderTokensUsed metric.Int64Counter
	ProfilesRefreshed metric.Int64Counter
)

func init() {
	var err error
	WinesScored, err = meter.Int64Counter(
		"wines_scored_total",
		metric.WithDescription("Total wines scored for compatibility"),
	)
	if err != nil {
		panic(err)
	}
	EncoderTokensUsed, err = meter.Int64Counter(
		"encoder_tokens_used_total",
		metric.WithDescription("Total tokens consumed by the semantic encoder"),
	)
	if err != nil {
		panic(err)
	}
	ProfilesRefreshed, err = meter.Int64Counter(
		"profiles_refreshed_total",
		metric.WithDescription("Total user profiles processed by the recommendation refresh"),
	)
	if err != nil {
		panic(err)
	}
}

// RecordWinesScored records the number of wines scored in one pipeline run.
func RecordWinesScored(ctx context.Context, count int, strategy string) {
	WinesScored.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("strategy", strategy),
	))
}

// RecordEncoderTokens records the tokens consumed by a profile embedding call.
func RecordEncoderTokens(ctx context.Context, totalTokens int) {
	EncoderTokensUsed.Add(ctx, int64(totalTokens))
}

// RecordProfileRefreshed records one refreshed user profile and its outcome.
func RecordProfileRefreshed(ctx context.Context, outcome string) {
	ProfilesRefreshed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
