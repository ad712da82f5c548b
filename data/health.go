package data

import (
	"context"
	"time"
)

// Ping checks the database connection.
func (d *Data) Ping(ctx context.Context) error {
	d.mu.RLock()
	closed := d.closed
	d.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if d.dbDriver != nil {
		return d.dbDriver.Ping(ctx, d.db)
	}
	return d.db.PingContext(ctx)
}

// Health reports the state of the database and the event broker.
func (d *Data) Health(ctx context.Context) (map[string]any, bool) {
	services := map[string]any{}
	healthy := true

	start := time.Now()
	if err := d.Ping(ctx); err != nil {
		services["database"] = map[string]any{"status": "unhealthy", "error": err.Error()}
		healthy = false
	} else {
		services["database"] = map[string]any{
			"status":  "healthy",
			"dialect": d.dialect,
			"latency": time.Since(start).String(),
		}
	}

	messaging := "disabled"
	if d.IsMessagingEnabled() {
		messaging = "enabled"
	}
	services["messaging"] = map[string]any{"status": messaging, "topic": d.topic}

	return services, healthy
}
