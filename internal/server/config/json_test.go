package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":             ":9000",
		"endpoint_addr_grpc":             "www.example:9001",
		"storage_driver":                 "file",
		"entries_file":                   "/var/lib/journal/entries.json",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "1m",
		"session_validity_duration":      int64(3 * time.Hour),
		"s3_bucket":                      "bucket",
		"google_client_id":               "gid",
		"allowed_origins":                []string{"https://app.example"},
		"cookie_secure":                  true,
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, ":9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "www.example:9001", cfg.EndpointAddrGRPC)
		assert.Equal(t, StorageFile, cfg.StorageDriver)
		assert.Equal(t, "/var/lib/journal/entries.json", cfg.EntriesFile)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Hour, cfg.SessionValidityDuration)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "gid", cfg.GoogleClientID)
		assert.Equal(t, []string{"https://app.example"}, cfg.AllowedOrigins)
		assert.True(t, cfg.CookieSecure)

		// absent keys keep earlier values
		assert.Equal(t, "us-east-1", cfg.S3Region)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{EndpointAddrGRPC: "defaults:1234", SecretKey: "key"}
		require.NoError(t, parseJson(cfg, []string{"-a", ":1"}))

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrGRPC)
		assert.Equal(t, "key", cfg.SecretKey)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Error(t, parseJson(&Config{}, []string{"-config", bad}))
	})

	t.Run("missing file → error", func(t *testing.T) {
		require.Error(t, parseJson(&Config{}, []string{"-c", filepath.Join(dir, "absent.json")}))
	})
}
