package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pasqualebf/finanzas-app/internal/domain/importer"
	"github.com/pasqualebf/finanzas-app/internal/domain/store"
	"github.com/pasqualebf/finanzas-app/internal/domain/sync"
	"github.com/pasqualebf/finanzas-app/internal/infrastructure/simplefin"
	"github.com/pasqualebf/finanzas-app/internal/shared/middleware"
)

type mockClient struct {
	ClaimFunc       func(ctx context.Context, setupToken string) (string, error)
	GetAccountsFunc func(ctx context.Context, accessURL string, start, end time.Time) (*simplefin.Snapshot, error)
}

func (m *mockClient) Claim(ctx context.Context, setupToken string) (string, error) {
	return m.ClaimFunc(ctx, setupToken)
}

func (m *mockClient) GetAccounts(ctx context.Context, accessURL string, start, end time.Time) (*simplefin.Snapshot, error) {
	return m.GetAccountsFunc(ctx, accessURL, start, end)
}

type fakeStore struct {
	profiles  map[string]*store.UserProfile
	accounts  []store.Account
	movements []store.Movement
	lastLimit int
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: map[string]*store.UserProfile{}}
}

func (f *fakeStore) UserProfile(ctx context.Context, uid string) (*store.UserProfile, error) {
	return f.profiles[uid], nil
}

func (f *fakeStore) SaveAccessURL(ctx context.Context, uid, accessURL string) error {
	f.profiles[uid] = &store.UserProfile{UID: uid, SimpleFinURL: accessURL, Connected: true}
	return nil
}

func (f *fakeStore) AccountIDs(ctx context.Context, uid string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (f *fakeStore) CategoryRules(ctx context.Context, uid string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (f *fakeStore) ListAccounts(ctx context.Context, uid string) ([]store.Account, error) {
	return f.accounts, nil
}

func (f *fakeStore) ListMovements(ctx context.Context, uid string, limit int) ([]store.Movement, error) {
	f.lastLimit = limit
	return f.movements, nil
}

func (f *fakeStore) ConnectedUserIDs(ctx context.Context) ([]string, error) { return nil, nil }

func (f *fakeStore) Batch(uid string) store.Batch { return &fakeBatch{} }

type fakeBatch struct{}

func (b *fakeBatch) SetAccount(a store.Account)                   {}
func (b *fakeBatch) SetMovement(m store.Movement)                 {}
func (b *fakeBatch) IncrementBalance(accountID string, d float64) {}
func (b *fakeBatch) Commit(ctx context.Context) error             { return nil }

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, "user-1")
	return req.WithContext(ctx)
}

func TestHandleConnect(t *testing.T) {
	st := newFakeStore()
	client := &mockClient{
		ClaimFunc: func(ctx context.Context, setupToken string) (string, error) {
			return "https://bridge.example.com", nil
		},
		GetAccountsFunc: func(ctx context.Context, accessURL string, start, end time.Time) (*simplefin.Snapshot, error) {
			return &simplefin.Snapshot{}, nil
		},
	}
	handler := NewSimpleFinHandler(sync.NewService(client, st, 60))

	rec := httptest.NewRecorder()
	handler.HandleConnect(rec, authedRequest(http.MethodPost, "/api/simplefin/connect", `{"setupToken":"token-abc"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if st.profiles["user-1"] == nil || !st.profiles["user-1"].Connected {
		t.Error("user not marked connected")
	}
}

func TestHandleConnectMissingToken(t *testing.T) {
	handler := NewSimpleFinHandler(sync.NewService(&mockClient{}, newFakeStore(), 60))

	rec := httptest.NewRecorder()
	handler.HandleConnect(rec, authedRequest(http.MethodPost, "/api/simplefin/connect", `{"setupToken":""}`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSyncNowNotConnected(t *testing.T) {
	handler := NewSimpleFinHandler(sync.NewService(&mockClient{}, newFakeStore(), 60))

	rec := httptest.NewRecorder()
	handler.HandleSyncNow(rec, authedRequest(http.MethodPost, "/api/simplefin/sync", ""))

	if rec.Code != http.StatusPreconditionFailed {
		t.Errorf("status = %d, want 412", rec.Code)
	}
}

func TestHandleSyncNowUpstreamError(t *testing.T) {
	st := newFakeStore()
	st.profiles["user-1"] = &store.UserProfile{UID: "user-1", SimpleFinURL: "https://bridge.example.com", Connected: true}
	client := &mockClient{
		GetAccountsFunc: func(ctx context.Context, accessURL string, start, end time.Time) (*simplefin.Snapshot, error) {
			return nil, context.DeadlineExceeded
		},
	}
	handler := NewSimpleFinHandler(sync.NewService(client, st, 60))

	rec := httptest.NewRecorder()
	handler.HandleSyncNow(rec, authedRequest(http.MethodPost, "/api/simplefin/sync", ""))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestHandleSyncNowUnauthorized(t *testing.T) {
	handler := NewSimpleFinHandler(sync.NewService(&mockClient{}, newFakeStore(), 60))

	rec := httptest.NewRecorder()
	handler.HandleSyncNow(rec, httptest.NewRequest(http.MethodPost, "/api/simplefin/sync", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandleImportText(t *testing.T) {
	handler := NewImporterHandler(importer.NewService(newFakeStore()))

	body := `{"accountId":"acc-9","text":"Today\nSTARBUCKS STORE 112\n$7.45\n"}`
	rec := httptest.NewRecorder()
	handler.HandleImportText(rec, authedRequest(http.MethodPost, "/api/import/text", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Result  struct {
			Imported int `json:"imported"`
		} `json:"result"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Result.Imported != 1 {
		t.Errorf("imported = %d, want 1", resp.Result.Imported)
	}
}

func TestHandleImportTextMissingAccount(t *testing.T) {
	handler := NewImporterHandler(importer.NewService(newFakeStore()))

	rec := httptest.NewRecorder()
	handler.HandleImportText(rec, authedRequest(http.MethodPost, "/api/import/text", `{"text":"Today\nX\n$1.00\n"}`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleListMovementsLimit(t *testing.T) {
	st := newFakeStore()
	st.movements = []store.Movement{{ID: "m1", Name: "Starbucks", Amount: 7.45, Type: "expense"}}
	handler := NewMovementHandler(st)

	rec := httptest.NewRecorder()
	handler.HandleListMovements(rec, authedRequest(http.MethodGet, "/api/movements?limit=10", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if st.lastLimit != 10 {
		t.Errorf("limit = %d, want 10", st.lastLimit)
	}

	var out []movementResponse
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(out) != 1 || out[0].Name != "Starbucks" {
		t.Errorf("movements = %+v", out)
	}
}

func TestHandleListAccounts(t *testing.T) {
	st := newFakeStore()
	balance := 1250.75
	st.accounts = []store.Account{{AccountID: "acc-1", Name: "Everyday Checking", Type: "checking", Balance: &balance}}
	handler := NewAccountHandler(st)

	rec := httptest.NewRecorder()
	handler.HandleListAccounts(rec, authedRequest(http.MethodGet, "/api/accounts", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var out []accountResponse
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(out) != 1 || out[0].Balance == nil || *out[0].Balance != 1250.75 {
		t.Errorf("accounts = %+v", out)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := NewSimpleFinHandler(sync.NewService(&mockClient{}, newFakeStore(), 60))

	rec := httptest.NewRecorder()
	handler.HandleConnect(rec, authedRequest(http.MethodGet, "/api/simplefin/connect", ""))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
