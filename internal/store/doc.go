// Package store provides SQLite-backed durable storage for the prepare
// log.
//
// The prepare log records each distinct serialization outcome: which
// wire text, formal declarations, and defaults count a (query, target
// version) pair produced. It exists for diagnostics - comparing
// serializer behavior across server versions and across releases of this
// module - and sits outside the hot path: the serializer itself never
// touches it.
//
// Records are content-addressed (querytext.ContentHash) and deduplicated
// on that hash, so repeatedly preparing the same query for the same
// version leaves a single row.
//
// Ordering uses seq INTEGER (insertion order), never wall-clock
// timestamps, and reads order by seq ASC, id ASC COLLATE BINARY for
// deterministic results.
package store
