package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pasqualebf/finanzas-app/internal/domain/sync"
	"github.com/pasqualebf/finanzas-app/internal/shared/middleware"
)

// SimpleFinHandler exposes aggregator connect and manual sync.
type SimpleFinHandler struct {
	syncService *sync.Service
}

func NewSimpleFinHandler(syncService *sync.Service) *SimpleFinHandler {
	return &SimpleFinHandler{syncService: syncService}
}

type connectRequest struct {
	SetupToken string `json:"setupToken"`
}

// HandleConnect claims a one-time setup token and runs the initial sync.
func (h *SimpleFinHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding connect request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.syncService.Connect(r.Context(), uid, req.SetupToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// HandleSyncNow refreshes the caller's accounts and movements on demand.
func (h *SimpleFinHandler) HandleSyncNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := h.syncService.Sync(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}
