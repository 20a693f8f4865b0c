package http

import (
	"log"
	"net/http"
	"time"

	"github.com/pasqualebf/finanzas-app/internal/domain/store"
	"github.com/pasqualebf/finanzas-app/internal/shared/middleware"
)

// AccountHandler reads the caller's stored accounts.
type AccountHandler struct {
	store store.Store
}

func NewAccountHandler(st store.Store) *AccountHandler {
	return &AccountHandler{store: st}
}

type accountResponse struct {
	AccountID       string    `json:"accountId"`
	Name            string    `json:"name"`
	InstitutionName string    `json:"institutionName"`
	Currency        string    `json:"currency"`
	Type            string    `json:"type"`
	Balance         *float64  `json:"balance,omitempty"`
	LastSync        time.Time `json:"lastSync"`
}

// HandleListAccounts returns every stored account for the caller.
func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := h.store.ListAccounts(r.Context(), uid)
	if err != nil {
		log.Printf("Error listing accounts for user %s: %v", uid, err)
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountResponse{
			AccountID:       a.AccountID,
			Name:            a.Name,
			InstitutionName: a.InstitutionName,
			Currency:        a.Currency,
			Type:            a.Type,
			Balance:         a.Balance,
			LastSync:        a.LastSync,
		})
	}

	writeJSON(w, http.StatusOK, out)
}
