package config

import (
	"context"
	"encoding/base64"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/HSouheill/storefront_backend/logging"
)

// InitFirebase initializes the Firebase Admin SDK. It returns (nil, nil) when no
// credentials are configured, which disables the push channel.
func InitFirebase(ctx context.Context, cfg FirebaseConfig) (*firebase.App, error) {
	var opt option.ClientOption
	switch {
	case cfg.CredentialsBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.CredentialsBase64)
		if err != nil {
			return nil, fmt.Errorf("decode firebase credentials: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		logging.Info().Msg("using Firebase credentials from base64 environment variable")
	case cfg.CredentialsFile != "":
		opt = option.WithCredentialsFile(cfg.CredentialsFile)
		logging.Info().Str("file", cfg.CredentialsFile).Msg("using Firebase credentials file")
	default:
		logging.Warn().Msg("no Firebase credentials configured; push notifications disabled")
		return nil, nil
	}

	var fbConfig *firebase.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	return app, nil
}
