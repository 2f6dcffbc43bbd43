package notify

import (
	"context"
	"log/slog"
)

// NoopPoster implements Poster by logging discarded messages. It is used
// when no webhook is configured.
type NoopPoster struct {
	log *slog.Logger
}

// NewNoopPoster creates a poster that discards messages with a log entry.
func NewNoopPoster(log *slog.Logger) *NoopPoster {
	return &NoopPoster{log: log}
}

// Post logs and discards a message.
func (n *NoopPoster) Post(_ context.Context, msg Message) error {
	n.log.Debug("notification discarded (no webhook configured)",
		"content", msg.Content,
		"embeds", len(msg.Embeds),
	)
	return nil
}
