// Package page maps recipients and a message onto a sequence of SNPP
// commands.
//
// Ownership boundary:
// - recipient/message models and their optional delivery properties
// - the property -> verb dispatch table
// - the full send sequence (login, per-recipient setup, DATA, SEND)
// - two-way send receipts and their status lookups
//
// The protocol engine itself lives in internal/snpp; this layer only
// decides which verbs to issue and in what order.
package page
