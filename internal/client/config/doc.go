// Package config loads runtime configuration for the journal terminal
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the journal gRPC endpoint
//	-t int      request timeout (seconds)
//	-d string   directory for exported snapshots
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s",
//	  "download_dir": "exports"
//	}
package config
