// Package badger provides BadgerDB-backed implementations of the storage
// repositories. The document cache and index snapshot each open their own
// database directory so either artifact can be wiped independently.
package badger
