// Package backfill splices recorded default values into a raw response.
//
// When Prepare excludes a field because the target server predates it,
// the caller still expects the full realized shape of the spec tree in
// the response it hands to application code. ApplyDefaults replays the
// field paths recorded at serialization time against the decoded
// response and inserts deep copies of the configured defaults at the
// locations the excluded fields would have occupied.
//
// Every navigation step asserts the node kind it expects and fails fast
// on mismatch; silent coercion would mask schema drift between the spec
// tree and the server's actual response shape.
package backfill

import (
	"github.com/salewski/sourcegraph--cody/internal/query"
	"github.com/salewski/sourcegraph--cody/internal/querytext"
	"github.com/salewski/sourcegraph--cody/internal/respval"
)

// ApplyDefaults mutates response in place, inserting a deep copy of each
// setter's value at its recorded path, and returns the same response for
// chaining. A default is only inserted where the response is missing the
// property; present properties are left untouched.
//
// The response must not be shared with concurrent callers during the
// mutation.
func ApplyDefaults(response respval.Value, defaults []querytext.DefaultSetter) (respval.Value, error) {
	for _, setter := range defaults {
		if err := applySteps(response, setter.Path.Steps(), setter.Value); err != nil {
			return nil, err
		}
	}
	return response, nil
}

// applySteps walks one recorded path root-to-leaf over node, translating
// each spec step into a response-navigation instruction:
//
//   - WithArguments: no navigation (arguments are a naming-time concept)
//   - Labeled: descend into the label's property; this is the
//     authoritative navigation for the field it wraps
//   - Object: descend by name unless the preceding navigation step was a
//     Labeled (which already descended)
//   - Array: same descent rule, then fan the remaining steps out over
//     every element; the schema is homogeneous across elements, so a
//     version exclusion applies uniformly to all of them
//   - VersionPredicate: terminal; write a deep copy of the default at the
//     realized name of the wrapped field
//   - Value: never reached; a scalar leaf is never itself the cause of
//     version exclusion
func applySteps(node respval.Value, steps []query.FieldSpec, def respval.Value) error {
	cur := node
	afterLabel := false

	for i := 0; i < len(steps); i++ {
		switch st := steps[i].(type) {
		case query.WithArguments:
			// Transparent: keeps an afterLabel from a preceding Labeled
			// step in effect for the field it wraps.
			continue

		case query.Labeled:
			child, err := descend(cur, st.Name)
			if err != nil {
				return err
			}
			cur = child
			afterLabel = true

		case query.Object:
			if !afterLabel {
				child, err := descend(cur, st.Name)
				if err != nil {
					return err
				}
				cur = child
			}
			afterLabel = false

		case query.Array:
			if !afterLabel {
				child, err := descend(cur, st.Name)
				if err != nil {
					return err
				}
				cur = child
			}
			afterLabel = false

			arr, ok := cur.(respval.Array)
			if !ok {
				return querytext.NewContractError(querytext.ErrCodeNodeKindMismatch, st.Name, "expected array node, got %T", cur)
			}
			rest := steps[i+1:]
			for _, elem := range arr {
				if err := applySteps(elem, rest, def); err != nil {
					return err
				}
			}
			// The per-element application supersedes the outer walk.
			return nil

		case query.VersionPredicate:
			if i != len(steps)-1 {
				return querytext.NewContractError(querytext.ErrCodeNodeKindMismatch, query.RealizedName(st.Field), "version predicate step is not terminal")
			}
			obj, ok := cur.(respval.Object)
			if !ok {
				return querytext.NewContractError(querytext.ErrCodeNodeKindMismatch, query.RealizedName(st.Field), "expected object node, got %T", cur)
			}
			key := query.RealizedName(st.Field)
			if _, exists := obj[key]; !exists {
				obj[key] = respval.Clone(def)
			}
			return nil

		case query.Value:
			return querytext.NewContractError(querytext.ErrCodeValueStepInBackfill, st.Name, "backfill navigation reached a scalar leaf")

		default:
			return querytext.NewContractError(querytext.ErrCodeUnknownFieldKind, "", "unknown field kind: %T", steps[i])
		}
	}

	return querytext.NewContractError(querytext.ErrCodeNodeKindMismatch, "", "path ended without a version predicate step")
}

// descend navigates into an object property, asserting the current node
// is an object and the property exists.
func descend(cur respval.Value, name string) (respval.Value, error) {
	obj, ok := cur.(respval.Object)
	if !ok {
		return nil, querytext.NewContractError(querytext.ErrCodeNodeKindMismatch, name, "expected object node, got %T", cur)
	}
	child, ok := obj[name]
	if !ok {
		return nil, querytext.NewContractError(querytext.ErrCodeNodeKindMismatch, name, "response is missing property %q", name)
	}
	return child, nil
}
