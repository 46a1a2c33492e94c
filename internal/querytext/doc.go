// Package querytext compiles field spec trees into wire text.
//
// Prepare is a recursive-descent compiler from a spec tree plus a target
// server version into three outputs:
//
//   - Text: the structured-query document body, or nil when every
//     top-level field was version-excluded (callers skip the network
//     call entirely)
//   - Formals: the renamed external parameters the document declares
//   - Defaults: deferred instructions recording where default values
//     must be spliced into the eventual response for excluded fields
//
// ARCHITECTURE:
//
//	[query.FieldSpec tree] → [Prepare] → [wire text + formals + defaults]
//	                                        ↓ (transport, caller-owned)
//	[raw response]         → [backfill.ApplyDefaults(response, defaults)]
//
// Prepare is referentially transparent: equal trees and versions produce
// text-identical output and structurally identical formals and defaults.
// Each invocation owns its own buffer, formals list, and defaults list,
// so immutable spec trees are safe to share across concurrent calls.
//
// FIELD PATHS:
//
// The serializer threads a FieldPath down the tree as it walks - a
// singly-linked ancestry chain created fresh per call, never cyclic, and
// never mutated after creation. Paths escape only inside Defaults, where
// the backfill engine replays them as response-navigation instructions.
//
// CONTRACT ERRORS:
//
// Construction-time defects in a spec tree (an argument wrapper or label
// whose field realizes no output, an argument-position variant used as a
// field, an unparsable version) surface as ContractError immediately at
// the point of detection. Version-based exclusion is not an error; it is
// the normal outcome that produces a recorded default.
package querytext
