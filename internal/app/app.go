package app

import (
	"github.com/cleitonmarx/symbiont"

	"github.com/vinoclub/wineclub-backend/internal/adapters/inbound/http"
	"github.com/vinoclub/wineclub-backend/internal/adapters/inbound/workers"
	"github.com/vinoclub/wineclub-backend/internal/adapters/outbound/config"
	"github.com/vinoclub/wineclub-backend/internal/adapters/outbound/log"
	"github.com/vinoclub/wineclub-backend/internal/adapters/outbound/modelrunner"
	"github.com/vinoclub/wineclub-backend/internal/adapters/outbound/postgres"
	"github.com/vinoclub/wineclub-backend/internal/adapters/outbound/pubsub"
	"github.com/vinoclub/wineclub-backend/internal/adapters/outbound/sentiment"
	"github.com/vinoclub/wineclub-backend/internal/adapters/outbound/time"
	"github.com/vinoclub/wineclub-backend/internal/telemetry"
	"github.com/vinoclub/wineclub-backend/internal/usecases"
)

// NewWineClubApp creates and returns a new instance of the wine club backend application.
func NewWineClubApp(initializers ...symbiont.Initializer) *symbiont.App {
	return symbiont.NewApp().
		Initialize(initializers...).
		Initialize(
			&log.InitLogger{},
			&telemetry.InitOpenTelemetry{},
			&telemetry.InitHttpClient{},
			&config.InitVaultProvider{},
			&postgres.InitDB{},
			&postgres.InitUnitOfWork{},
			&postgres.InitWineCatalogRepository{},
			&postgres.InitUserProfileRepository{},
			&postgres.InitVectorRepository{},
			&postgres.InitRecommendationRepository{},
			&time.InitCurrentTimeProvider{},
			&pubsub.InitClient{},
			&pubsub.InitPublisher{},
			&sentiment.InitSentimentAnalyzer{},
			&modelrunner.InitSemanticEncoder{},

			&usecases.InitRecommendWines{},
			&usecases.InitListSavedRecommendations{},
			&usecases.InitRefreshRecommendations{},
			&usecases.InitRelayOutbox{},
		).
		Host(
			&http.WineClubServer{},
			&workers.RecommendationRefresher{},
			&workers.RatingEventSubscriber{},
			&workers.MessageRelay{},
		).
		Introspect(&MermaidGraphIntrospector{})
}
