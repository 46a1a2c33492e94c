// Package query defines the field specification model: a closed set of
// variant node types describing the shape of one structured query against
// a versioned GraphQL endpoint.
//
// A spec tree is built once from the combinator constructors (Scalar,
// Nested, List, Args, Alias, SinceVersion, ...) and is immutable from
// then on. Trees may be shared read-only across arbitrarily many
// concurrent serialization calls.
//
// SEALED INTERFACE:
//
// FieldSpec is a sealed interface using the marker method pattern. Only
// types in this package implement it, which keeps type switches in the
// serializer and backfill engine exhaustive:
//
//	switch f := spec.(type) {
//	case query.Value:
//	    // scalar leaf
//	case query.Object:
//	    // nested object
//	...
//	default:
//	    // impossible for trees built from this package
//	}
//
// VERSION GATING:
//
// VersionPredicate wraps a field with a minimum server version. When the
// target server predates it, the field is excluded from the wire text and
// its declared default is recorded for post-response backfill. The
// default must structurally match the realized shape of the wrapped field
// (enforced by convention, flagged by Validate where detectable).
//
// This package contains type definitions and pure tree walks only. The
// serializer lives in querytext, response mutation in backfill.
package query
