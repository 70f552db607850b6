// Package identity correlates on-chain addresses and registry identifiers
// with the platform's internal accounts and projects. Resolution is
// best-effort: a miss is not an error, the caller records the event without
// the correlation.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Resolver resolves wallet addresses and external project ids to internal ids
//
//go:generate mockgen -source=resolver.go -destination=../mocks/resolver.go -package=mocks -mock_names=Resolver=MockResolver
type Resolver interface {
	// FindAccountIDByAddress resolves a wallet address, nil on miss
	FindAccountIDByAddress(ctx context.Context, address string) (*uuid.UUID, error)
	// FindProjectIDByExternalID resolves a registry-facing project id, nil on miss
	FindProjectIDByExternalID(ctx context.Context, externalID string) (*uuid.UUID, error)
}
