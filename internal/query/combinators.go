package query

import "github.com/salewski/sourcegraph--cody/internal/respval"

// Combinator constructors. All are stateless and never fail; they exist
// so call sites read like the query they describe:
//
//	query.Nested("currentUser",
//	    query.String("id"),
//	    query.String("displayName"),
//	)
//
// The scalar helpers (String, Number, Boolean) all build the same Value
// node; the distinction is documentation of the expected response type at
// the call site, since result typing is pushed to callers.

// Scalar builds a scalar leaf field.
func Scalar(name string) Value {
	return Value{Name: name}
}

// String builds a scalar leaf field expected to realize a string.
func String(name string) Value {
	return Value{Name: name}
}

// Number builds a scalar leaf field expected to realize a number.
func Number(name string) Value {
	return Value{Name: name}
}

// Boolean builds a scalar leaf field expected to realize a boolean.
func Boolean(name string) Value {
	return Value{Name: name}
}

// Nested builds an object field containing the given fields.
func Nested(name string, fields ...FieldSpec) Object {
	return Object{Name: name, Fields: fields}
}

// List builds an array field whose elements are shaped by the given
// fields.
func List(name string, fields ...FieldSpec) Array {
	return Array{Name: name, Fields: fields}
}

// Const builds a literal argument for use inside Args.
// Pass an Enum value for arguments that must render as bare tokens.
func Const(name string, value any) Constant {
	return Constant{Name: name, Value: value}
}

// FormalArg builds a declared external argument for use inside Args.
func FormalArg(name string, t TypeTag) Formal {
	return Formal{Name: name, Type: t}
}

// Args wraps a field with an argument list. Each argument must be a
// Constant or Formal.
func Args(field FieldSpec, args ...FieldSpec) WithArguments {
	return WithArguments{Field: field, Args: args}
}

// Alias wraps a field with a response alias.
func Alias(label string, field FieldSpec) Labeled {
	return Labeled{Name: label, Field: field}
}

// SinceVersion gates a field on a minimum server version. Servers older
// than minVersion never see the field; def is spliced into their
// responses instead.
func SinceVersion(minVersion string, def respval.Value, field FieldSpec) VersionPredicate {
	return VersionPredicate{MinVersion: minVersion, Field: field, Default: def}
}
