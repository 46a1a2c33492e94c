// Package respval models a raw server response as a tagged value tree.
//
// A response arriving from the GraphQL endpoint is decoded into a sealed
// set of variants (Null, String, Int, Float, Bool, Array, Object) instead
// of being handled through reflection or map[string]any plumbing. The
// backfill engine navigates and mutates these trees when splicing default
// values for fields that were excluded from the outgoing query by version
// gating.
//
// Key properties:
//   - Sealed interface: only the types in this package implement Value,
//     which keeps type switches over response nodes exhaustive.
//   - Deterministic encoding: Object marshals with RFC 8785 key ordering
//     so diagnostic output and golden files are stable.
//   - MarshalCanonical produces the strict canonical form used for
//     content-addressed identity of prepared queries; it rejects floats
//     and nulls, which never appear in that identity material.
package respval
