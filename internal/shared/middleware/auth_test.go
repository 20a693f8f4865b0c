package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockVerifier struct {
	VerifyFunc func(ctx context.Context, idToken string) (string, error)
}

func (m *mockVerifier) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	return m.VerifyFunc(ctx, idToken)
}

func TestAuth(t *testing.T) {
	verifier := &mockVerifier{
		VerifyFunc: func(ctx context.Context, idToken string) (string, error) {
			if idToken == "good-token" {
				return "user-1", nil
			}
			return "", errors.New("invalid token")
		},
	}

	var gotUID string
	handler := Auth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, _ = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUID    string
	}{
		{"Valid token", "Bearer good-token", http.StatusOK, "user-1"},
		{"Invalid token", "Bearer bad-token", http.StatusUnauthorized, ""},
		{"Missing header", "", http.StatusUnauthorized, ""},
		{"Malformed header", "good-token", http.StatusUnauthorized, ""},
		{"Wrong scheme", "Basic good-token", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUID = ""
			req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if gotUID != tt.wantUID {
				t.Errorf("uid = %q, want %q", gotUID, tt.wantUID)
			}
		})
	}
}
