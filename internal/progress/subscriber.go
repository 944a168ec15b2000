package progress

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/portfolio-insights/internal/logging"
	"github.com/portfolio-insights/internal/retry"
	"github.com/portfolio-insights/internal/types"
)

// Subscriber maintains a WebSocket connection to the ingestion progress
// feed and forwards events into a Tracker. It reconnects with exponential
// backoff and keeps running until the context is cancelled.
type Subscriber struct {
	feedURL string
	tracker *Tracker
	dialer  *websocket.Dialer
}

// NewSubscriber creates a subscriber for the given feed URL
func NewSubscriber(feedURL string, tracker *Tracker) *Subscriber {
	return &Subscriber{
		feedURL: feedURL,
		tracker: tracker,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Run connects and consumes the feed until ctx is cancelled. Connection
// failures and dropped connections trigger reconnects with backoff; the
// only terminal condition is context cancellation.
func (s *Subscriber) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx).WithField("feedURL", s.feedURL)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var conn *websocket.Conn
		err := retry.WithRetry(ctx, func(ctx context.Context, _ int) error {
			var dialErr error
			conn, _, dialErr = s.dialer.DialContext(ctx, s.feedURL, nil)
			return dialErr
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Retry budget exhausted; start a fresh backoff cycle
			logger.WithError(err).Error("Progress feed unreachable, will keep retrying")
			continue
		}

		logger.Info("Connected to progress feed")
		s.consume(ctx, conn, logger)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("Progress feed connection lost, reconnecting")
	}
}

// consume reads events until the connection drops or ctx is cancelled
func (s *Subscriber) consume(ctx context.Context, conn *websocket.Conn, logger *logging.Logger) {
	defer conn.Close()

	// Unblock ReadMessage when the context ends
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var event types.ProgressEvent
		if err := json.Unmarshal(message, &event); err != nil {
			logger.WithError(err).Warn("Dropping malformed progress event")
			continue
		}
		if event.Endpoint == "" {
			logger.Warn("Dropping progress event without endpoint")
			continue
		}

		s.tracker.Update(event)
	}
}
