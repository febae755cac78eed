package config

import "time"

// Config holds runtime settings for the journal terminal client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the journal gRPC endpoint.
//   - RequestTimeout: deadline applied to every call.
//   - DownloadDir: where exported snapshots are saved.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	DownloadDir        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.DownloadDir = "."
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args exclude the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
