// Package client talks to the journal server over gRPC.
//
// GRPCClient manages the connection, attaches the access token to every
// call through an interceptor, transparently refreshes an expired token
// once using the session (refresh) token, and maps gRPC status codes to the
// sentinel errors in errors.go so callers can use errors.Is.
package client
