package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// parseEnv loads envFile (if present) into the process environment without
// overriding variables that are already set, then copies recognised
// variables into config.
//
//	DATABASE_URL          database DSN
//	PORT                  HTTP port; ":" is prepended when missing
//	GRPC_ADDR             gRPC bind address
//	STORAGE_DRIVER        postgres | memory | file
//	ENTRIES_FILE          path of the JSON entries file
//	JOURNAL_SECRET_KEY    access token secret
//	GOOGLE_CLIENT_ID      OAuth client id
//	GOOGLE_CLIENT_SECRET  OAuth client secret
//	GOOGLE_REDIRECT_URL   OAuth callback
//	FRONTEND_URL          redirect target after social login
//	ALLOWED_ORIGINS       comma separated CORS origins
//	LOG_LEVEL             debug | info | warn | error
func parseEnv(config *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	setString(&config.DatabaseDSN, "DATABASE_URL")
	setString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	setString(&config.StorageDriver, "STORAGE_DRIVER")
	setString(&config.EntriesFile, "ENTRIES_FILE")
	setString(&config.SecretKey, "JOURNAL_SECRET_KEY")
	setString(&config.GoogleClientID, "GOOGLE_CLIENT_ID")
	setString(&config.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&config.GoogleRedirectURL, "GOOGLE_REDIRECT_URL")
	setString(&config.FrontendURL, "FRONTEND_URL")
	setString(&config.LogLevel, "LOG_LEVEL")

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if !strings.Contains(port, ":") {
			port = ":" + port
		}
		config.EndpointAddrHTTP = port
	}

	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		config.AllowedOrigins = splitList(origins)
	}

	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
