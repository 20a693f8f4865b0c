package main

import (
	"context"
	"log"

	"github.com/pasqualebf/finanzas-app/internal/domain/importer"
	"github.com/pasqualebf/finanzas-app/internal/domain/store"
	"github.com/pasqualebf/finanzas-app/internal/domain/sync"
	fb "github.com/pasqualebf/finanzas-app/internal/infrastructure/firebase"
	fsstore "github.com/pasqualebf/finanzas-app/internal/infrastructure/firestore"
	"github.com/pasqualebf/finanzas-app/internal/infrastructure/simplefin"
	httphandlers "github.com/pasqualebf/finanzas-app/internal/interfaces/http"
	"github.com/pasqualebf/finanzas-app/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Firebase *fb.App
	Store    store.Store

	// Handlers
	SimpleFinHandler *httphandlers.SimpleFinHandler
	ImporterHandler  *httphandlers.ImporterHandler
	AccountHandler   *httphandlers.AccountHandler
	MovementHandler  *httphandlers.MovementHandler

	// Services (for scheduler)
	SyncService *sync.Service
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	app, err := fb.NewApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to Firebase")

	st := fsstore.NewStore(app.Firestore)

	sfClient := simplefin.NewClient()
	syncService := sync.NewService(sfClient, st, cfg.SimpleFin.SyncWindowDays)
	importService := importer.NewService(st)

	return &Dependencies{
		Firebase:         app,
		Store:            st,
		SimpleFinHandler: httphandlers.NewSimpleFinHandler(syncService),
		ImporterHandler:  httphandlers.NewImporterHandler(importService),
		AccountHandler:   httphandlers.NewAccountHandler(st),
		MovementHandler:  httphandlers.NewMovementHandler(st),
		SyncService:      syncService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Firebase != nil {
		if err := d.Firebase.Close(); err != nil {
			log.Printf("Error closing Firebase: %v", err)
		}
	}
}
