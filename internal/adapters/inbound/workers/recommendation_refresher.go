package workers

import (
	"context"
	"log"
	"time"

	"github.com/vinoclub/wineclub-backend/internal/usecases"
)

// RecommendationRefresher is a runnable that periodically rebuilds the
// precomputed recommendations of every user with rating history.
type RecommendationRefresher struct {
	RefreshUseCase      usecases.RefreshRecommendations `resolve:""`
	Logger              *log.Logger                     `resolve:""`
	Interval            time.Duration                   `config:"RECOMMENDATION_REFRESH_INTERVAL" default:"6h"`
	workerExecutionChan chan struct{}
}

// Run starts the periodic recommendation refresh. One pass runs immediately
// on startup so a fresh deployment serves recommendations without waiting a
// full interval.
func (rr RecommendationRefresher) Run(ctx context.Context) error {
	rr.Logger.Println("RecommendationRefresher: running...")
	ticker := time.NewTicker(rr.Interval)
	defer ticker.Stop()

	rr.refresh(ctx)

	for {
		select {
		case <-ticker.C:
			rr.refresh(ctx)
		case <-ctx.Done():
			rr.Logger.Println("RecommendationRefresher: stopping...")
			return nil
		}
	}
}

func (rr RecommendationRefresher) refresh(ctx context.Context) {
	if err := rr.RefreshUseCase.Execute(ctx); err != nil {
		rr.Logger.Printf("error refreshing recommendations: %v", err)
	}
	if rr.workerExecutionChan != nil {
		rr.workerExecutionChan <- struct{}{}
	}
}
