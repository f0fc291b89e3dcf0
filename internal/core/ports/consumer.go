package ports

import (
	"context"

	"go.trai.ch/pathwatch/internal/core/domain"
)

// Consumer receives workspace updates.
//
//go:generate mockgen -source=consumer.go -destination=mocks/mock_consumer.go -package=mocks
type Consumer interface {
	// Deliver pushes a workspace update to the consumer.
	Deliver(ctx context.Context, update domain.WorkspaceUpdate) error
}
