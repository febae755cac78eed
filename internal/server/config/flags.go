package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophjournal/internal/flagx"
)

var knownFlags = []string{
	"-a", "-l", "-d", "-m", "-f", "-s", "-t", "-r",
	"-u", "-p", "-b", "-g", "-e", "-o", "-v",
}

// parseFlags overlays config with command-line flags.
//
//	-a string   HTTP bind address (e.g. ":3001")
//	-l string   gRPC bind address (e.g. ":50051")
//	-d string   PostgreSQL DSN
//	-m string   storage driver: postgres | memory | file
//	-f string   entries file for the file driver
//	-s string   access token secret
//	-t int      access token validity, minutes
//	-r int      session validity, minutes
//	-u/-p       S3 user and password
//	-b string   S3 bucket (empty disables export)
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-o list     comma separated CORS origins
//	-v string   log level
//
// Arguments are first filtered with flagx.FilterArgs so that -c and flags of
// other components do not cause parse errors.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "l", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageDriver, "m", config.StorageDriver, "storage driver")
	fs.StringVar(&config.EntriesFile, "f", config.EntriesFile, "entries file")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.Var(flagx.Minutes{D: &config.AccessTokenValidityDuration}, "t", "access token validity (in minutes)")
	fs.Var(flagx.Minutes{D: &config.SessionValidityDuration}, "r", "session validity (in minutes)")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.Var(flagx.StringList{L: &config.AllowedOrigins}, "o", "allowed CORS origins")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
