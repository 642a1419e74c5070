// Package snpp is the SNPP protocol client.
//
// Ownership boundary:
// - the TCP connection, its read buffer, and reconnect-on-demand
// - the command channel (one command line out, one classified reply back)
// - the session verb surface and the DATA transaction
//
// The protocol is strictly synchronous: one command in flight per
// connection, every call blocks until its reply is aggregated. The
// layer sets no read deadlines; a server that stalls mid-reply stalls
// the caller.
package snpp
