package contracts

import (
	"context"

	"github.com/google/uuid"
)

// Reader is the read side of contract persistence.
//
// GetByID returns a CodeNotFound error when the contract does not exist.
// GetActiveByOffice returns (nil, nil) when the office has no active contract.
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	GetActiveByOffice(ctx context.Context, officeID uuid.UUID) (*Contract, error)
	GetByParticipant(ctx context.Context, userID uuid.UUID) ([]*Contract, error)
	ListActive(ctx context.Context) ([]*Contract, error)
}

// Repository is a unit of work scoped to one command. Contracts loaded through
// it are tracked; Insert queues a new one; Commit writes everything atomically.
type Repository interface {
	Reader
	Insert(ctx context.Context, c *Contract) error
	Commit(ctx context.Context) error
}

// Store opens units of work and serves untracked reads.
type Store interface {
	Reader
	Begin(ctx context.Context) (Repository, error)
}

// Publisher announces committed lifecycle facts. Delivery is best effort;
// the caller never observes a failure.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// RoleDirectory resolves the counterparty role of a user.
type RoleDirectory interface {
	RoleOf(ctx context.Context, userID uuid.UUID) (Role, error)
}
