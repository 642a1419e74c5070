// Package protocol owns the SNPP (RFC 1861) wire contract.
//
// Ownership boundary:
// - command line formatting and parsing
// - reply parsing and multi-line aggregation
// - payload quoting (newline normalization + dot-stuffing)
// - reply-code classification and the protocol error taxonomy
//
// The package is sans-io: it never touches a socket. internal/snpp
// composes these primitives over a live connection.
package protocol
