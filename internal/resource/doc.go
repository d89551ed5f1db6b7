// Package resource defines the read-only file store behind the demo routes.
// Every request re-reads the file from RootDir so that edits on disk are
// visible immediately; the store keeps no content in memory between calls.
// Callers distinguish a missing resource (ErrNotFound) from other I/O faults
// so the dispatcher can map them to 404 and 500 respectively.
package resource
