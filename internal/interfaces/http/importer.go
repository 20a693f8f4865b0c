package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pasqualebf/finanzas-app/internal/domain/importer"
	"github.com/pasqualebf/finanzas-app/internal/shared/middleware"
)

// ImporterHandler exposes the text-paste import.
type ImporterHandler struct {
	importService *importer.Service
}

func NewImporterHandler(importService *importer.Service) *ImporterHandler {
	return &ImporterHandler{importService: importService}
}

type importTextRequest struct {
	AccountID string `json:"accountId"`
	Text      string `json:"text"`
}

// HandleImportText parses pasted statement text into movements for one
// account.
func (h *ImporterHandler) HandleImportText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req importTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding import request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.importService.ImportText(r.Context(), uid, req.AccountID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}
