package workers

import (
	"context"
	"log/slog"

	application "ballotbox/contexts/election-core/ballot-service/application"
	"ballotbox/contexts/election-core/ballot-service/ports"
)

// EventAuditor consumes relayed election events and writes an audit log line
// per event, giving operators a tail of casts and publications without
// querying the database.
type EventAuditor struct {
	Subscriber    ports.EventSubscriber
	ConsumerGroup string
	Logger        *slog.Logger
}

func (a EventAuditor) Start(ctx context.Context) error {
	for _, topic := range []string{"ballot.cast", "results.published"} {
		if err := a.Subscriber.Subscribe(ctx, topic, a.ConsumerGroup, a.handle); err != nil {
			return err
		}
	}
	return nil
}

func (a EventAuditor) handle(_ context.Context, event ports.EventEnvelope) error {
	application.ResolveLogger(a.Logger).Info("election event observed",
		"event", "election_event_audited",
		"module", "election-core/ballot-service",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
		"occurred_at", event.OccurredAt,
	)
	return nil
}
