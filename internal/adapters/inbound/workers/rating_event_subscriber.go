package workers

import (
	"context"
	"errors"
	"log"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/vinoclub/wineclub-backend/internal/usecases"
)

// RatingEventSubscriber consumes rating domain events from Pub/Sub and
// triggers a recommendation refresh, so new ratings show up in the
// precomputed recommendations without waiting for the periodic pass.
type RatingEventSubscriber struct {
	Logger              *log.Logger                     `resolve:""`
	Client              *pubsub.Client                  `resolve:""`
	Interval            time.Duration                   `config:"RATING_BATCH_INTERVAL" default:"3s"`
	BatchSize           int                             `config:"RATING_BATCH_SIZE" default:"20"`
	SubscriptionID      string                          `config:"RATING_EVENTS_SUBSCRIPTION_ID"`
	RefreshUseCase      usecases.RefreshRecommendations `resolve:""`
	workerExecutionChan chan struct{}
}

// Run starts the subscriber worker.
func (s RatingEventSubscriber) Run(ctx context.Context) error {
	s.Logger.Println("RatingEventSubscriber: running...")

	eventCh := make(chan *pubsub.Message, s.BatchSize*2)
	subscriberInitErrCh := make(chan error, 1)

	// 1. Receive messages in background (blocking call)
	go func() {
		err := s.Client.Subscriber(s.SubscriptionID).Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
			select {
			case eventCh <- msg:
				// Ack later, after batching
			case <-ctx.Done():
				msg.Nack()
			}
		})

		if err != nil {
			subscriberInitErrCh <- err
		}
	}()

	// 2. Batch + flush loop
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	var batch []*pubsub.Message

	for {
		select {
		case <-ctx.Done():
			s.Logger.Println("RatingEventSubscriber: stopping...")
			return nil

		case err := <-subscriberInitErrCh:
			return err

		case msg := <-eventCh:
			batch = append(batch, msg)
			if len(batch) >= s.BatchSize {
				s.flush(ctx, batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(ctx, batch)
				batch = nil
			}
		}
	}
}

func (s RatingEventSubscriber) flush(ctx context.Context, batch []*pubsub.Message) {
	s.Logger.Printf("RatingEventSubscriber: processing batch size=%d", len(batch))

	if s.workerExecutionChan != nil {
		s.workerExecutionChan <- struct{}{}
	}

	// One refresh pass covers every user in the batch
	if err := s.RefreshUseCase.Execute(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			s.Logger.Printf("RatingEventSubscriber: %v", err)
		}
		return
	}

	// Ack messages only after successful processing
	for _, msg := range batch {
		msg.Ack()
	}
}
