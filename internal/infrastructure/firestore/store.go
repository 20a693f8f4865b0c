// Package firestore implements the persistence interfaces over Google Cloud
// Firestore. All user data lives under a single artifact document so one
// project can host several app environments side by side.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pasqualebf/finanzas-app/internal/domain/store"
)

const (
	artifactsCollection = "artifacts"
	appID               = "finanzas_app"
	usersCollection     = "users"

	accountsCollection  = "Cuentas"
	movementsCollection = "Movimientos"
	rulesCollection     = "category_rules"
)

// Store is the Firestore-backed implementation of store.Store.
type Store struct {
	client *firestore.Client
}

// NewStore wraps an initialized Firestore client.
func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

var _ store.Store = (*Store)(nil)

func (s *Store) userDoc(uid string) *firestore.DocumentRef {
	return s.client.Collection(artifactsCollection).Doc(appID).Collection(usersCollection).Doc(uid)
}

type userProfileDoc struct {
	SimpleFinURL string `firestore:"simpleFinUrl"`
	Connected    bool   `firestore:"simpleFinConnected"`
}

func (s *Store) UserProfile(ctx context.Context, uid string) (*store.UserProfile, error) {
	snap, err := s.userDoc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", uid, err)
	}

	var doc userProfileDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decoding user %s: %w", uid, err)
	}

	return &store.UserProfile{
		UID:          uid,
		SimpleFinURL: doc.SimpleFinURL,
		Connected:    doc.Connected,
	}, nil
}

func (s *Store) SaveAccessURL(ctx context.Context, uid, accessURL string) error {
	_, err := s.userDoc(uid).Set(ctx, map[string]interface{}{
		"simpleFinUrl":       accessURL,
		"simpleFinConnected": true,
		"lastUpdate":         firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("saving access url for user %s: %w", uid, err)
	}
	return nil
}

func (s *Store) AccountIDs(ctx context.Context, uid string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	iter := s.userDoc(uid).Collection(accountsCollection).Select().Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing account ids for user %s: %w", uid, err)
		}
		ids[snap.Ref.ID] = struct{}{}
	}
	return ids, nil
}

func (s *Store) CategoryRules(ctx context.Context, uid string) (map[string]string, error) {
	rules := make(map[string]string)

	iter := s.userDoc(uid).Collection(rulesCollection).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing category rules for user %s: %w", uid, err)
		}
		if cat, err := snap.DataAt("category"); err == nil {
			if c, ok := cat.(string); ok {
				rules[snap.Ref.ID] = c
			}
		}
	}
	return rules, nil
}

type accountDoc struct {
	Name            string   `firestore:"name"`
	InstitutionName string   `firestore:"institutionName"`
	Currency        string   `firestore:"currency"`
	Type            string   `firestore:"type"`
	Balance         *float64 `firestore:"balance"`
}

func (s *Store) ListAccounts(ctx context.Context, uid string) ([]store.Account, error) {
	var accounts []store.Account

	iter := s.userDoc(uid).Collection(accountsCollection).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing accounts for user %s: %w", uid, err)
		}

		var doc accountDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decoding account %s: %w", snap.Ref.ID, err)
		}
		accounts = append(accounts, store.Account{
			AccountID:       snap.Ref.ID,
			Name:            doc.Name,
			InstitutionName: doc.InstitutionName,
			Currency:        doc.Currency,
			Type:            doc.Type,
			Balance:         doc.Balance,
			LastSync:        snap.UpdateTime,
		})
	}
	return accounts, nil
}

type movementDoc struct {
	AccountID      string    `firestore:"accountId"`
	Amount         float64   `firestore:"amount"`
	Name           string    `firestore:"name"`
	Description    string    `firestore:"description"`
	Date           time.Time `firestore:"date"`
	Category       string    `firestore:"category"`
	Type           string    `firestore:"type"`
	IsManualImport bool      `firestore:"isManualImport"`
}

func (s *Store) ListMovements(ctx context.Context, uid string, limit int) ([]store.Movement, error) {
	q := s.userDoc(uid).Collection(movementsCollection).OrderBy("date", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var movements []store.Movement

	iter := q.Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing movements for user %s: %w", uid, err)
		}

		var doc movementDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decoding movement %s: %w", snap.Ref.ID, err)
		}
		movements = append(movements, store.Movement{
			ID:             snap.Ref.ID,
			AccountID:      doc.AccountID,
			Amount:         doc.Amount,
			Name:           doc.Name,
			Description:    doc.Description,
			Date:           doc.Date,
			Category:       doc.Category,
			Type:           doc.Type,
			IsManualImport: doc.IsManualImport,
		})
	}
	return movements, nil
}

func (s *Store) ConnectedUserIDs(ctx context.Context) ([]string, error) {
	var uids []string

	iter := s.client.Collection(artifactsCollection).Doc(appID).Collection(usersCollection).
		Where("simpleFinConnected", "==", true).Select().Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing connected users: %w", err)
		}
		uids = append(uids, snap.Ref.ID)
	}
	return uids, nil
}

// Batch opens a write batch scoped to uid. Firestore batches are atomic up to
// 500 writes, which comfortably covers a 60-day window for one user.
func (s *Store) Batch(uid string) store.Batch {
	return &writeBatch{
		userDoc: s.userDoc(uid),
		batch:   s.client.Batch(),
	}
}

type writeBatch struct {
	userDoc *firestore.DocumentRef
	batch   *firestore.WriteBatch
}

var _ store.Batch = (*writeBatch)(nil)

func (b *writeBatch) SetAccount(a store.Account) {
	data := map[string]interface{}{
		"name":            a.Name,
		"institutionName": a.InstitutionName,
		"currency":        a.Currency,
		"type":            a.Type,
		"lastSync":        firestore.ServerTimestamp,
	}
	if a.Balance != nil {
		data["balance"] = *a.Balance
	}
	ref := b.userDoc.Collection(accountsCollection).Doc(a.AccountID)
	b.batch.Set(ref, data, firestore.MergeAll)
}

func (b *writeBatch) SetMovement(m store.Movement) {
	data := map[string]interface{}{
		"accountId":      m.AccountID,
		"amount":         m.Amount,
		"name":           m.Name,
		"description":    m.Description,
		"date":           m.Date,
		"category":       m.Category,
		"type":           m.Type,
		"isManualImport": m.IsManualImport,
	}
	ref := b.userDoc.Collection(movementsCollection).Doc(m.ID)
	if m.IsManualImport {
		// Manual imports may have been hand-edited in the app; merge so a
		// re-import does not clobber those edits.
		b.batch.Set(ref, data, firestore.MergeAll)
		return
	}
	b.batch.Set(ref, data)
}

func (b *writeBatch) IncrementBalance(accountID string, delta float64) {
	ref := b.userDoc.Collection(accountsCollection).Doc(accountID)
	b.batch.Update(ref, []firestore.Update{
		{Path: "balance", Value: firestore.Increment(delta)},
	})
}

func (b *writeBatch) Commit(ctx context.Context) error {
	if _, err := b.batch.Commit(ctx); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}
