package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pasqualebf/finanzas-app/internal/domain/store"
)

// fakeStore applies batch writes on Commit only.
type fakeStore struct {
	rules      map[string]string
	movements  map[string]store.Movement
	increments map[string]float64
	commits    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rules:      map[string]string{},
		movements:  map[string]store.Movement{},
		increments: map[string]float64{},
	}
}

func (f *fakeStore) UserProfile(ctx context.Context, uid string) (*store.UserProfile, error) {
	return nil, nil
}

func (f *fakeStore) SaveAccessURL(ctx context.Context, uid, accessURL string) error { return nil }

func (f *fakeStore) AccountIDs(ctx context.Context, uid string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (f *fakeStore) CategoryRules(ctx context.Context, uid string) (map[string]string, error) {
	return f.rules, nil
}

func (f *fakeStore) ListAccounts(ctx context.Context, uid string) ([]store.Account, error) {
	return nil, nil
}

func (f *fakeStore) ListMovements(ctx context.Context, uid string, limit int) ([]store.Movement, error) {
	return nil, nil
}

func (f *fakeStore) ConnectedUserIDs(ctx context.Context) ([]string, error) { return nil, nil }

func (f *fakeStore) Batch(uid string) store.Batch {
	return &fakeBatch{store: f}
}

type fakeBatch struct {
	store      *fakeStore
	movements  []store.Movement
	increments map[string]float64
}

func (b *fakeBatch) SetAccount(a store.Account) {}

func (b *fakeBatch) SetMovement(m store.Movement) {
	b.movements = append(b.movements, m)
}

func (b *fakeBatch) IncrementBalance(accountID string, delta float64) {
	if b.increments == nil {
		b.increments = map[string]float64{}
	}
	b.increments[accountID] += delta
}

func (b *fakeBatch) Commit(ctx context.Context) error {
	for _, m := range b.movements {
		b.store.movements[m.ID] = m
	}
	for id, d := range b.increments {
		b.store.increments[id] += d
	}
	b.store.commits++
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, time.August, 20, 15, 0, 0, 0, time.UTC)
}

const sampleText = `
Today
STARBUCKS STORE 112
$7.45
Pending
Yesterday
FARMERS MARKET 44556677
$23.10
August 14, 2026
PAYMENT RECEIVED
-$150.00
`

func newTestService(st *fakeStore) *Service {
	svc := NewService(st)
	svc.now = fixedNow
	return svc
}

func TestImportText(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st)

	result, err := svc.ImportText(context.Background(), "user-1", "acc-9", sampleText)
	if err != nil {
		t.Fatalf("ImportText() error = %v", err)
	}

	if result.Imported != 3 {
		t.Fatalf("imported = %d, want 3", result.Imported)
	}
	if st.commits != 1 {
		t.Fatalf("commits = %d, want 1", st.commits)
	}

	byName := map[string]store.Movement{}
	for _, m := range st.movements {
		byName[m.Description] = m
	}

	sb := byName["STARBUCKS STORE 112"]
	if sb.Name != "Starbucks" || sb.Type != "expense" || sb.Amount != 7.45 {
		t.Errorf("starbucks movement = %+v", sb)
	}
	if got, want := sb.Date, fixedNow().Truncate(24*time.Hour); !got.Equal(want) {
		t.Errorf("starbucks date = %v, want %v", got, want)
	}
	if !sb.IsManualImport {
		t.Error("starbucks movement not flagged as manual import")
	}

	fm := byName["FARMERS MARKET 44556677"]
	if fm.Category != "Supermercado" {
		t.Errorf("farmers market category = %q, want Supermercado", fm.Category)
	}
	if want := fixedNow().Truncate(24 * time.Hour).AddDate(0, 0, -1); !fm.Date.Equal(want) {
		t.Errorf("farmers market date = %v, want %v", fm.Date, want)
	}

	pay := byName["PAYMENT RECEIVED"]
	if pay.Name != "Pago Tarjeta" || pay.Type != "income" || pay.Amount != 150 {
		t.Errorf("payment movement = %+v", pay)
	}
	if want := time.Date(2026, time.August, 14, 0, 0, 0, 0, time.UTC); !pay.Date.Equal(want) {
		t.Errorf("payment date = %v, want %v", pay.Date, want)
	}

	// 7.45 + 23.10 - 150.00 spent means the card owes 119.45 less.
	wantDelta := -(7.45 + 23.10 - 150.00)
	if got := st.increments["acc-9"]; got < wantDelta-0.001 || got > wantDelta+0.001 {
		t.Errorf("balance delta = %v, want %v", got, wantDelta)
	}
	if result.Total < -119.46 || result.Total > -119.44 {
		t.Errorf("total = %v, want about -119.45", result.Total)
	}
}

func TestImportTextDeterministicIDs(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st)

	if _, err := svc.ImportText(context.Background(), "user-1", "acc-9", sampleText); err != nil {
		t.Fatalf("first ImportText() error = %v", err)
	}
	first := len(st.movements)

	if _, err := svc.ImportText(context.Background(), "user-1", "acc-9", sampleText); err != nil {
		t.Fatalf("second ImportText() error = %v", err)
	}

	if len(st.movements) != first {
		t.Errorf("movements grew from %d to %d on re-import", first, len(st.movements))
	}
	for id := range st.movements {
		if !strings.HasPrefix(id, "MANUAL-") {
			t.Errorf("movement id %q missing MANUAL- prefix", id)
		}
	}
}

func TestImportTextUserRuleWins(t *testing.T) {
	st := newFakeStore()
	st.rules["STARBUCKS STORE 112"] = "Antojos"
	svc := newTestService(st)

	if _, err := svc.ImportText(context.Background(), "user-1", "acc-9", "Today\nSTARBUCKS STORE 112\n$7.45\n"); err != nil {
		t.Fatalf("ImportText() error = %v", err)
	}

	for _, m := range st.movements {
		if m.Category != "Antojos" {
			t.Errorf("category = %q, want user override Antojos", m.Category)
		}
		if m.Name != "STARBUCKS STORE 112" {
			t.Errorf("name = %q, want the raw pasted name kept on a rule hit", m.Name)
		}
	}
}

func TestImportTextZeroTotalSkipsBalanceAdjustment(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st)

	text := "Today\nACME STORE\n$50.00\nPAYMENT RECEIVED\n-$50.00\n"
	result, err := svc.ImportText(context.Background(), "user-1", "acc-9", text)
	if err != nil {
		t.Fatalf("ImportText() error = %v", err)
	}

	if result.Imported != 2 {
		t.Fatalf("imported = %d, want 2", result.Imported)
	}
	if result.Total != 0 {
		t.Errorf("total = %v, want 0", result.Total)
	}
	if len(st.increments) != 0 {
		t.Errorf("increments = %v, want none for a zero total", st.increments)
	}
	if st.commits != 1 {
		t.Errorf("commits = %d, want 1", st.commits)
	}
}

func TestImportTextOffsettingAmountsStayDistinct(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st)

	// Same name, same day, equal magnitude: the spend and the payment must
	// land on different documents.
	text := "Today\nACME STORE\n$50.00\nACME STORE\n-$50.00\n"
	result, err := svc.ImportText(context.Background(), "user-1", "acc-9", text)
	if err != nil {
		t.Fatalf("ImportText() error = %v", err)
	}

	if result.Imported != 2 {
		t.Fatalf("imported = %d, want 2", result.Imported)
	}
	if len(st.movements) != 2 {
		t.Fatalf("movements = %d, want 2 distinct documents", len(st.movements))
	}
}

func TestImportTextThousandsSeparator(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st)

	if _, err := svc.ImportText(context.Background(), "user-1", "acc-9", "Today\nRENT LLC\n$1,250.00\n"); err != nil {
		t.Fatalf("ImportText() error = %v", err)
	}

	for _, m := range st.movements {
		if m.Amount != 1250 {
			t.Errorf("amount = %v, want 1250", m.Amount)
		}
	}
}

func TestImportTextMissingInput(t *testing.T) {
	svc := newTestService(newFakeStore())

	cases := []struct {
		name      string
		uid       string
		accountID string
		text      string
	}{
		{"Empty uid", "", "acc-9", sampleText},
		{"Empty account", "user-1", "", sampleText},
		{"Blank text", "user-1", "acc-9", "   \n  "},
		{"No transactions", "user-1", "acc-9", "Today\nPending\n"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ImportText(context.Background(), tt.uid, tt.accountID, tt.text); !errors.Is(err, ErrMissingInput) {
				t.Errorf("ImportText() error = %v, want ErrMissingInput", err)
			}
		})
	}
}
