// Package sync orchestrates aggregator pulls: claim a connection, fetch the
// recent transaction window, classify everything and commit one atomic batch
// per user.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/pasqualebf/finanzas-app/internal/domain/classify"
	"github.com/pasqualebf/finanzas-app/internal/domain/store"
	"github.com/pasqualebf/finanzas-app/internal/infrastructure/simplefin"
)

var (
	ErrMissingInput = errors.New("missing required input")
	ErrNotConnected = errors.New("user has no aggregator connection")
	ErrUpstream     = errors.New("aggregator request failed")
)

// DefaultWindowDays is how far back each sync reaches.
const DefaultWindowDays = 60

// Result summarizes one completed sync.
type Result struct {
	UID            string `json:"uid"`
	AccountsFound  int    `json:"accountsFound"`
	MovementsFound int    `json:"movementsFound"`
}

// Service pulls account snapshots from the aggregator and persists them.
type Service struct {
	client     simplefin.ClientInterface
	store      store.Store
	windowDays int
}

// NewService creates a sync service. windowDays <= 0 falls back to
// DefaultWindowDays.
func NewService(client simplefin.ClientInterface, st store.Store, windowDays int) *Service {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Service{client: client, store: st, windowDays: windowDays}
}

// Connect claims a one-time setup token, stores the resulting access URL and
// runs an initial sync.
func (s *Service) Connect(ctx context.Context, uid, setupToken string) (*Result, error) {
	if uid == "" || strings.TrimSpace(setupToken) == "" {
		return nil, ErrMissingInput
	}

	accessURL, err := s.client.Claim(ctx, setupToken)
	if err != nil {
		return nil, fmt.Errorf("%w: claiming setup token: %v", ErrUpstream, err)
	}

	if err := s.store.SaveAccessURL(ctx, uid, accessURL); err != nil {
		return nil, fmt.Errorf("saving access url: %w", err)
	}

	log.Printf("sync: user %s connected, running initial sync", uid)
	return s.syncFrom(ctx, uid, accessURL)
}

// Sync refreshes the user's accounts and movements from the stored access
// URL. Returns ErrNotConnected when the user never completed Connect.
func (s *Service) Sync(ctx context.Context, uid string) (*Result, error) {
	if uid == "" {
		return nil, ErrMissingInput
	}

	profile, err := s.store.UserProfile(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("loading user profile: %w", err)
	}
	if profile == nil || !profile.Connected || profile.SimpleFinURL == "" {
		return nil, ErrNotConnected
	}

	return s.syncFrom(ctx, uid, profile.SimpleFinURL)
}

func (s *Service) syncFrom(ctx context.Context, uid, accessURL string) (*Result, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -s.windowDays)

	snapshot, err := s.client.GetAccounts(ctx, accessURL, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching accounts: %v", ErrUpstream, err)
	}

	existing, err := s.store.AccountIDs(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("loading account ids: %w", err)
	}

	rules, err := s.store.CategoryRules(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("loading category rules: %w", err)
	}

	result := &Result{UID: uid}
	batch := s.store.Batch(uid)

	for _, acc := range snapshot.Accounts {
		balance, err := acc.GetBalance()
		if err != nil {
			return nil, err
		}

		_, exists := existing[acc.ID]
		classified := classify.ClassifyAccount(classify.RawAccount{
			ID:                acc.ID,
			Name:              acc.Name,
			InstitutionName:   acc.Org.Name,
			InstitutionDomain: acc.Org.Domain,
			Currency:          acc.Currency,
			Balance:           balance,
			Exists:            exists,
		})

		batch.SetAccount(store.Account{
			AccountID:       acc.ID,
			Name:            classified.Name,
			InstitutionName: classified.InstitutionName,
			Currency:        classified.Currency,
			Type:            classified.Type,
			Balance:         classified.Balance,
		})
		result.AccountsFound++

		isCredit := classified.Type == classify.TypeCredit
		for _, txn := range acc.Transactions {
			amount, err := txn.GetAmount()
			if err != nil {
				return nil, err
			}

			res := classify.Classify(classify.Input{
				Payee:           txn.Payee,
				Description:     txn.Description,
				Amount:          amount,
				AccountIsCredit: isCredit,
				UserRules:       rules,
			})

			batch.SetMovement(store.Movement{
				ID:          txn.ID,
				AccountID:   acc.ID,
				Amount:      math.Abs(amount),
				Name:        res.Name,
				Description: res.Description,
				Date:        txn.PostedTime(),
				Category:    res.Category,
				Type:        string(res.Type),
			})
			result.MovementsFound++
		}
	}

	if err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing sync batch: %w", err)
	}

	log.Printf("sync: user %s synced %d accounts, %d movements", uid, result.AccountsFound, result.MovementsFound)
	return result, nil
}
