package messaging

import (
	"context"

	"github.com/verdantlabs/carbon-ledger/internal/domain"
)

// Publisher defines the interface for publishing mirrored registry events to
// the message broker. Downstream consumers (notifications, analytics) attach
// to the broker rather than polling the ledger.
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent publishes a registry event to the message broker
	PublishEvent(ctx context.Context, event *domain.LedgerEvent) error
	// Close closes the connection
	Close()
}
