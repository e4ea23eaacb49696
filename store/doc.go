// Package store holds the current configuration of a module.
//
// A Store is an explicitly owned object; there is no package-level
// instance. Readers take a full clone with Snapshot, writers replace the
// whole document with Replace or ReplaceFromEncoded. Concurrent writers are
// serialized by the lock and the last one to acquire it wins. There is no
// change notification.
//
// Decoding happens before the lock is taken, so a large or malformed
// buffer never stalls readers. Malformed input resets the configuration to
// the empty default and is counted in Diagnostics.
package store
