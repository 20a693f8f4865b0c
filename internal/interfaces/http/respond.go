// Package http holds the HTTP handlers for the API.
package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pasqualebf/finanzas-app/internal/domain/importer"
	"github.com/pasqualebf/finanzas-app/internal/domain/sync"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeServiceError maps domain errors onto HTTP status codes. Validation
// failures are the caller's fault, a missing connection is a failed
// precondition and aggregator failures surface as a bad gateway.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sync.ErrMissingInput) || errors.Is(err, importer.ErrMissingInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, sync.ErrNotConnected):
		http.Error(w, "SimpleFIN connection required", http.StatusPreconditionFailed)
	case errors.Is(err, sync.ErrUpstream):
		log.Printf("Upstream error: %v", err)
		http.Error(w, "Aggregator request failed", http.StatusBadGateway)
	default:
		log.Printf("Internal error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
