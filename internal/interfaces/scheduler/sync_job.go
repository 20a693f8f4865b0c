package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/pasqualebf/finanzas-app/internal/domain/store"
	"github.com/pasqualebf/finanzas-app/internal/domain/sync"
)

// SyncJob refreshes one user's accounts and movements from the aggregator.
type SyncJob struct {
	uid         string
	syncService *sync.Service
}

// NewSyncJob creates a sync job for one user.
func NewSyncJob(uid string, syncService *sync.Service) *SyncJob {
	return &SyncJob{uid: uid, syncService: syncService}
}

// Execute runs the sync.
func (j *SyncJob) Execute(ctx context.Context) error {
	result, err := j.syncService.Sync(ctx, j.uid)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	log.Printf("Sync for user %s completed: accounts=%d, movements=%d",
		j.uid, result.AccountsFound, result.MovementsFound)
	return nil
}

func (j *SyncJob) UserID() string {
	return j.uid
}

func (j *SyncJob) Description() string {
	return fmt.Sprintf("Aggregator sync for user %s", j.uid)
}

// NewSyncJobProvider builds the job provider for the scheduler: one sync job
// per user with an active aggregator connection.
func NewSyncJobProvider(st store.Store, syncService *sync.Service) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		uids, err := st.ConnectedUserIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing connected users: %w", err)
		}

		jobs := make([]Job, 0, len(uids))
		for _, uid := range uids {
			jobs = append(jobs, NewSyncJob(uid, syncService))
		}
		return jobs, nil
	}
}
