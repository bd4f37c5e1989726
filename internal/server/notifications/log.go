package notifications

import (
	"context"

	"github.com/Santos2175/auth-app/internal/logging"
)

// LogSink writes notifications to the logger instead of sending them.
// Meant for local runs without a mail server.
type LogSink struct {
	logger   logging.Logger
	renderer *Renderer
}

func NewLogSink(logger logging.Logger, renderer *Renderer) *LogSink {
	return &LogSink{logger: logger.With("module", "mail"), renderer: renderer}
}

func (s *LogSink) Send(ctx context.Context, n Notification) error {
	body, err := s.renderer.Render(n)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "email",
		"to", n.Recipient,
		"subject", n.Subject,
		"kind", string(n.Kind),
		"context", n.Context,
		"bytes", len(body),
	)
	return nil
}
