// Package listener provides a Postgres LISTEN/NOTIFY consumer that reloads
// the lookup API's place index whenever `geodata publish` commits a new
// dataset. It holds a dedicated pgx connection (not from the pool) listening
// on the `places_published` channel.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/config"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// PublishEvent is the JSON payload from pg_notify('places_published', ...).
type PublishEvent struct {
	Count     int   `json:"count"`
	Timestamp int64 `json:"ts"`
}

// ReloadFunc rebuilds the index after a publish.
type ReloadFunc func(ctx context.Context) error

// Start opens a dedicated connection and listens on the publish channel. It
// reconnects automatically on connection loss. Blocks until ctx is cancelled.
// Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, reload ReloadFunc, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, reload, logger)
		if ctx.Err() != nil {
			logger.Info("Publish listener stopped (context cancelled)")
			return
		}

		logger.Error("Publish listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, reload ReloadFunc, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+config.PublishChannel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", config.PublishChannel, err)
	}
	logger.Info("Publish listener connected", "channel", config.PublishChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		var event PublishEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			logger.Warn("Failed to parse publish event",
				"payload", notification.Payload, "error", err)
		}

		logger.Info("Publish event received", "count", event.Count, "ts", event.Timestamp)

		start := time.Now()
		if err := reload(ctx); err != nil {
			logger.Warn("Reload after publish failed", "error", err)
			continue
		}
		logger.Info("Index reloaded from database", "duration", time.Since(start).Round(time.Millisecond))
	}
}
