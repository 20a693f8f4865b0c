package simplefin

import (
	"context"
	"time"
)

// ClientInterface abstracts the bridge client for the services that sync
// against it.
type ClientInterface interface {
	Claim(ctx context.Context, setupToken string) (string, error)
	GetAccounts(ctx context.Context, accessURL string, start, end time.Time) (*Snapshot, error)
}
