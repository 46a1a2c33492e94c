package query

// CollectFormals walks spec trees and returns the external parameters
// they require, in declaration order and multiplicity.
//
// Rules per variant:
//   - WithArguments contributes its own Formal-typed arguments followed
//     by those of its wrapped field
//   - Object/Array contribute the concatenation of their children's
//     formals, in child order
//   - Labeled/VersionPredicate pass through to the wrapped field
//   - Value/Constant contribute nothing
//   - A bare Formal contributes itself
//
// The walk is side-effect-free: repeated calls on the same trees return
// equal lists. Names here are the declared base names; gensym renaming
// happens at serialization time.
func CollectFormals(fields ...FieldSpec) []Formal {
	formals := []Formal{}
	for _, f := range fields {
		formals = appendFormals(formals, f)
	}
	return formals
}

func appendFormals(formals []Formal, spec FieldSpec) []Formal {
	switch f := spec.(type) {
	case Value, Constant:
		return formals
	case Formal:
		return append(formals, f)
	case Object:
		for _, child := range f.Fields {
			formals = appendFormals(formals, child)
		}
		return formals
	case Array:
		for _, child := range f.Fields {
			formals = appendFormals(formals, child)
		}
		return formals
	case WithArguments:
		for _, arg := range f.Args {
			if formal, ok := arg.(Formal); ok {
				formals = append(formals, formal)
			}
		}
		return appendFormals(formals, f.Field)
	case Labeled:
		return appendFormals(formals, f.Field)
	case VersionPredicate:
		return appendFormals(formals, f.Field)
	default:
		// Unknown kinds carry no formals; the serializer rejects them.
		return formals
	}
}

// RealizedName returns the response property name a field realizes:
// the label for Labeled fields, the wrapped field's name for argument
// wrappers and version predicates, and the field's own name otherwise.
// Returns "" for argument-position variants, which realize nothing.
func RealizedName(spec FieldSpec) string {
	switch f := spec.(type) {
	case Value:
		return f.Name
	case Object:
		return f.Name
	case Array:
		return f.Name
	case Labeled:
		return f.Name
	case WithArguments:
		return RealizedName(f.Field)
	case VersionPredicate:
		return RealizedName(f.Field)
	default:
		return ""
	}
}
