package commands

import (
	"encoding/json"
	"time"

	"ballotbox/contexts/election-core/ballot-service/ports"
)

func newElectionEnvelope(
	eventID string,
	eventType string,
	positionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Events are partitioned by position so position-scoped consumers see a
	// stable order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: "ballot-service",
		OccurredAt:    occurredAt.UTC(),
		PartitionKey:  positionID,
		SchemaVersion: 1,
		Data:          payload,
	}, nil
}
