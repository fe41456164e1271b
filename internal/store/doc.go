// Package store provides the SQLite-backed todo store used by the example
// modules.
//
// The store is an ordinary dependency from the runtime's point of view: the
// application registers a *Store value, handlers receive it by type
// injection, and the dispatch core never learns its shape. It is shared by
// reference across transaction scopes; the single-connection SQLite setup is
// the store's own synchronization, as the runtime provides none.
package store
