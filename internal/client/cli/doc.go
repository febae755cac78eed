// Package cli provides the interactive journal command-line client.
//
// It wires configuration, the gRPC client and a small REPL. Typical flow:
// register or log in, then list, add, update, delete or export entries.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
