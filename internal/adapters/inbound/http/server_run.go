package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/vinoclub/wineclub-backend/internal/telemetry"
	"github.com/vinoclub/wineclub-backend/internal/usecases"
)

// WineClubServer is the REST API HTTP server for the wine club backend.
type WineClubServer struct {
	Port                  int                               `config:"HTTP_PORT" default:"8080"`
	Logger                *log.Logger                       `resolve:""`
	RecommendWinesUseCase usecases.RecommendWines           `resolve:""`
	ListSavedUseCase      usecases.ListSavedRecommendations `resolve:""`
}

// Run starts the HTTP server for the WineClubServer.
func (api WineClubServer) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/recommendations", api.Recommendations)
	mux.HandleFunc("GET /api/recommendations/{user_id}", api.SavedRecommendations)
	mux.HandleFunc("GET /healthz", api.Healthz)

	// Register introspection endpoint for debugging and testing purposes
	mux.HandleFunc("/introspect", IntrospectHandler)

	h := telemetry.Middleware("wineclub-api")(mux)

	// Apply CORS at the top-level so preflight requests hit it, too.
	h = cors.AllowAll().Handler(h)

	s := &http.Server{
		Handler: h,
		Addr:    fmt.Sprintf(":%d", api.Port),
	}

	errCh := make(chan error, 1)
	go func() {
		api.Logger.Printf("WineClubServer: Listening on port %d", api.Port)
		errCh <- s.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.Shutdown(shutdownCtx)
		if err != nil {
			api.Logger.Printf("WineClubServer: error during shutdown: %v", err)
		} else {
			api.Logger.Println("WineClubServer: stopped")
		}
		return err
	case err := <-errCh:
		return err
	}
}

// IsReady checks if the WineClubServer is ready by performing a health check.
func (api WineClubServer) IsReady(ctx context.Context) error {
	resp, err := http.Get(fmt.Sprintf("http://:%d/healthz", api.Port))
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// Healthz reports liveness.
func (api WineClubServer) Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
