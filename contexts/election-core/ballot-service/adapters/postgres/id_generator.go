package postgres

import (
	"context"

	"github.com/google/uuid"
)

// UUIDGenerator issues random UUIDs for ballots and outbox events.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
