package streaming

import (
	"context"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/pkg/logger"
)

// EventSource yields submitted query events
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan models.QuerySubmittedEvent, error)
}

// QueryNotifier logs each newly submitted query so staff can pick up urgent ones
type QueryNotifier struct {
	source EventSource
	logger *logger.Logger
}

// NewQueryNotifier creates a notifier over source
func NewQueryNotifier(source EventSource, log *logger.Logger) *QueryNotifier {
	return &QueryNotifier{source: source, logger: log.WithComponent("query-notifier")}
}

// Run blocks until ctx is done or the source closes
func (n *QueryNotifier) Run(ctx context.Context) error {
	events, err := n.source.Subscribe(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			n.notify(ev)
		}
	}
}

func (n *QueryNotifier) notify(ev models.QuerySubmittedEvent) {
	entry := n.logger.Info()
	if ev.Urgency == "urgent" || ev.Urgency == "high" {
		entry = n.logger.Warn()
	}
	entry.
		Str("query_id", ev.QueryID).
		Str("query_type", ev.QueryType).
		Str("urgency", ev.Urgency).
		Int("files", ev.FileCount).
		Time("submitted_at", ev.SubmittedAt).
		Msg("new property query")
}
