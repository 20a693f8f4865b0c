// Package store defines the persistence model and the interfaces the domain
// services depend on. The concrete implementation lives in
// internal/infrastructure/firestore.
package store

import (
	"context"
	"time"
)

// Account is one bank or card account as persisted per user.
type Account struct {
	AccountID       string
	Name            string
	InstitutionName string
	Currency        string
	Type            string
	Balance         *float64 // nil leaves the stored balance untouched
	LastSync        time.Time
}

// Movement is one normalized transaction as persisted per user.
type Movement struct {
	ID             string
	AccountID      string
	Amount         float64 // always positive; direction lives in Type
	Name           string
	Description    string
	Date           time.Time
	Category       string
	Type           string
	IsManualImport bool
}

// UserProfile holds the per-user aggregator connection state.
type UserProfile struct {
	UID          string
	SimpleFinURL string
	Connected    bool
}

// Store is the read side plus batch factory over the per-user document tree.
type Store interface {
	// UserProfile returns the user's profile, or nil when none exists yet.
	UserProfile(ctx context.Context, uid string) (*UserProfile, error)

	// SaveAccessURL persists a claimed aggregator access URL and marks the
	// user connected.
	SaveAccessURL(ctx context.Context, uid, accessURL string) error

	// AccountIDs returns the set of account document IDs already stored for
	// the user.
	AccountIDs(ctx context.Context, uid string) (map[string]struct{}, error)

	// CategoryRules returns the user's category overrides keyed by uppercased
	// display name.
	CategoryRules(ctx context.Context, uid string) (map[string]string, error)

	// ListAccounts returns all stored accounts for the user.
	ListAccounts(ctx context.Context, uid string) ([]Account, error)

	// ListMovements returns the user's movements, newest first, capped at
	// limit when limit > 0.
	ListMovements(ctx context.Context, uid string, limit int) ([]Movement, error)

	// ConnectedUserIDs returns the IDs of every user with an active
	// aggregator connection.
	ConnectedUserIDs(ctx context.Context) ([]string, error)

	// Batch opens an atomic write batch scoped to one user.
	Batch(uid string) Batch
}

// Batch accumulates writes for one user and commits them atomically: either
// every queued write lands or none does.
type Batch interface {
	SetAccount(a Account)
	SetMovement(m Movement)

	// IncrementBalance adjusts the stored balance of an account by delta.
	IncrementBalance(accountID string, delta float64)

	Commit(ctx context.Context) error
}
