// Package sync drains the outbox against a remote authority. Local-only and
// backend-calling operation are unified behind a single coordinator
// parameterized by a Transport.
package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"heybuddy/internal/outbox"
	"heybuddy/internal/store"
)

// Transport carries one mutation or one bulk pull to the remote authority.
type Transport interface {
	// Send transmits a single mutation. Failures are reported as a
	// *TransmissionError so callers can tell "remote said no" from
	// programming errors.
	Send(ctx context.Context, op outbox.Operation, table string, data json.RawMessage) error

	// Pull fetches the authoritative contents of table for one owner.
	Pull(ctx context.Context, table, ownerID string) ([]store.Record, error)

	// Ping checks reachability.
	Ping(ctx context.Context) error
}

// TransmissionError is any remote failure: network, non-2xx status, timeout.
// The gateway converts it into an enqueue, the coordinator into a retry.
type TransmissionError struct {
	Op    outbox.Operation
	Table string
	Err   error
}

func (e *TransmissionError) Error() string {
	return fmt.Sprintf("transmission failed: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *TransmissionError) Unwrap() error {
	return e.Err
}

// LocalTransport is the no-backend variant: every send succeeds without
// transmission, pulls are empty, the endpoint is always reachable. Entries
// drained through it are simply marked processed.
type LocalTransport struct{}

func (LocalTransport) Send(context.Context, outbox.Operation, string, json.RawMessage) error {
	return nil
}

func (LocalTransport) Pull(context.Context, string, string) ([]store.Record, error) {
	return nil, nil
}

func (LocalTransport) Ping(context.Context) error {
	return nil
}
