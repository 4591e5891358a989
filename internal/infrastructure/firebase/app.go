// Package firebase initialises the Firebase Admin SDK app shared by the
// identity verifier and the emergency notifier.
package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Config selects the Firebase project. CredentialsFile may be empty when
// application default credentials are available.
type Config struct {
	ProjectID       string
	CredentialsFile string
}

// NewApp creates a Firebase app for cfg.
func NewApp(ctx context.Context, cfg Config) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	return app, nil
}
