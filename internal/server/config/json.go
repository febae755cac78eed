package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophjournal/internal/flagx"
	"github.com/dmitrijs2005/gophjournal/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Only fields present
// in the file are applied, so a partial file overlays earlier sources.
// Durations accept both "15m" strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	StorageDriver               *string         `json:"storage_driver"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	EntriesFile                 *string         `json:"entries_file"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	SessionValidityDuration     *timex.Duration `json:"session_validity_duration"`
	SessionSweepSchedule        *string         `json:"session_sweep_schedule"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
	GoogleClientID              *string         `json:"google_client_id"`
	GoogleClientSecret          *string         `json:"google_client_secret"`
	GoogleRedirectURL           *string         `json:"google_redirect_url"`
	FrontendURL                 *string         `json:"frontend_url"`
	AllowedOrigins              []string        `json:"allowed_origins"`
	CookieSecure                *bool           `json:"cookie_secure"`
	LogLevel                    *string         `json:"log_level"`
}

// parseJson overlays config with the file named by -c/-config in args.
// Nothing happens when no path is given.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	str := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	str(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	str(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	str(&config.StorageDriver, c.StorageDriver)
	str(&config.DatabaseDSN, c.DatabaseDSN)
	str(&config.EntriesFile, c.EntriesFile)
	str(&config.SecretKey, c.SecretKey)
	str(&config.SessionSweepSchedule, c.SessionSweepSchedule)
	str(&config.S3RootUser, c.S3RootUser)
	str(&config.S3RootPassword, c.S3RootPassword)
	str(&config.S3Bucket, c.S3Bucket)
	str(&config.S3Region, c.S3Region)
	str(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	str(&config.GoogleClientID, c.GoogleClientID)
	str(&config.GoogleClientSecret, c.GoogleClientSecret)
	str(&config.GoogleRedirectURL, c.GoogleRedirectURL)
	str(&config.FrontendURL, c.FrontendURL)
	str(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
}
