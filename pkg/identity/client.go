// Package identity talks to the external authentication directory that owns
// credentials. Application records reference directory accounts by ID; the
// two systems are reconciled with compensating deletes when provisioning
// fails halfway.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrDuplicate indicates an account already exists for the identifier.
	ErrDuplicate = errors.New("identity: account already exists")
	// ErrNotFound indicates no account exists for the identifier.
	ErrNotFound = errors.New("identity: account not found")
	// ErrUnavailable indicates the directory could not be reached or
	// answered with a server error.
	ErrUnavailable = errors.New("identity: directory unavailable")
)

// Account is a provisioned directory account.
type Account struct {
	ID    string
	Email string
}

// Client provisions and verifies accounts in the identity directory.
type Client interface {
	// CreateUser registers a new account and returns its directory ID.
	CreateUser(ctx context.Context, email, password, name, role string) (Account, error)
	// DeleteUser removes an account, typically as a compensating action
	// after a failed provisioning.
	DeleteUser(ctx context.Context, accountID string) error
	// VerifyPassword checks credentials and returns the matching account.
	VerifyPassword(ctx context.Context, email, password string) (Account, error)
}
