// Package firebase bootstraps the Firebase SDK: Auth for ID-token
// verification and Firestore for persistence.
package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase clients.
type App struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// NewApp initializes Firebase for the given project. credentialsFile may be
// empty, in which case application default credentials apply.
func NewApp(ctx context.Context, projectID, credentialsFile string) (*App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase auth: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firestore: %w", err)
	}

	return &App{Auth: authClient, Firestore: fsClient}, nil
}

// VerifyIDToken validates a Firebase ID token and returns the user's UID.
func (a *App) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	token, err := a.Auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("verifying id token: %w", err)
	}
	return token.UID, nil
}

// Close releases the Firestore connection.
func (a *App) Close() error {
	return a.Firestore.Close()
}
