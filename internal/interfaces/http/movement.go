package http

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pasqualebf/finanzas-app/internal/domain/store"
	"github.com/pasqualebf/finanzas-app/internal/shared/middleware"
)

// MovementHandler reads the caller's stored movements.
type MovementHandler struct {
	store store.Store
}

func NewMovementHandler(st store.Store) *MovementHandler {
	return &MovementHandler{store: st}
}

type movementResponse struct {
	ID             string    `json:"id"`
	AccountID      string    `json:"accountId"`
	Amount         float64   `json:"amount"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	Category       string    `json:"category"`
	Type           string    `json:"type"`
	IsManualImport bool      `json:"isManualImport,omitempty"`
}

// HandleListMovements returns the caller's movements, newest first. The
// optional limit query parameter caps the page size (default 50).
func (h *MovementHandler) HandleListMovements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	movements, err := h.store.ListMovements(r.Context(), uid, limit)
	if err != nil {
		log.Printf("Error listing movements for user %s: %v", uid, err)
		http.Error(w, "Failed to list movements", http.StatusInternalServerError)
		return
	}

	out := make([]movementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementResponse{
			ID:             m.ID,
			AccountID:      m.AccountID,
			Amount:         m.Amount,
			Name:           m.Name,
			Description:    m.Description,
			Date:           m.Date,
			Category:       m.Category,
			Type:           m.Type,
			IsManualImport: m.IsManualImport,
		})
	}

	writeJSON(w, http.StatusOK, out)
}
