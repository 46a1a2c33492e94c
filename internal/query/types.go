package query

import "github.com/salewski/sourcegraph--cody/internal/respval"

// FieldSpec represents one field of a structured query.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the serializer and backfill engine.
//
// Field kinds:
//   - Value: scalar leaf field
//   - Object: named field with nested fields
//   - Array: named field whose value is a homogeneous list
//   - Constant: literal argument (argument position only)
//   - Formal: externally-supplied argument (argument position only)
//   - WithArguments: wraps a field with an argument list
//   - Labeled: wraps a field with a response alias
//   - VersionPredicate: gates a field on a minimum server version
//
// Trees are acyclic by construction: no constructor takes a reference to
// an ancestor, and nodes are never mutated after construction.
type FieldSpec interface {
	fieldNode() // Marker method - seals interface to this package
}

// TypeTag is the declared wire type of a formal argument.
type TypeTag string

// Recognized formal argument types.
const (
	TypeInt            TypeTag = "Int!"
	TypeString         TypeTag = "String!"
	TypeNullableString TypeTag = "String"
)

// Enum marks a constant argument value that serializes as a bare token
// (its description) rather than a JSON literal. Used for server-side enum
// arguments such as sort orders.
type Enum string

// Value is a scalar leaf field. It realizes exactly one response
// property and never nests.
type Value struct {
	Name string
}

func (Value) fieldNode() {}

// Object is a named field containing nested fields.
// Realizes a response property holding an object.
type Object struct {
	Name   string
	Fields []FieldSpec
}

func (Object) fieldNode() {}

// Array is a named field whose realized value is a list of homogeneous
// elements, each shaped by Fields. A version exclusion beneath an Array
// applies uniformly to every element of the corresponding response list.
type Array struct {
	Name   string
	Fields []FieldSpec
}

func (Array) fieldNode() {}

// Constant is a literal argument: name plus a fixed value.
// Valid only inside WithArguments.Args. An Enum value renders as a bare
// token, everything else as a JSON literal.
type Constant struct {
	Name  string
	Value any
}

func (Constant) fieldNode() {}

// Formal is a declared external argument: name plus wire type.
// Valid only inside WithArguments.Args. The caller binds a concrete
// value at execution time. Names are mechanically renamed during
// serialization (base name + positional counter) so the same base name
// may recur at different nesting depths without collision.
type Formal struct {
	Name string
	Type TypeTag
}

func (Formal) fieldNode() {}

// WithArguments wraps a field with an argument list.
// Args entries must be Constant or Formal; anything else is a
// construction defect surfaced at serialization time.
type WithArguments struct {
	Field FieldSpec
	Args  []FieldSpec
}

func (WithArguments) fieldNode() {}

// Labeled wraps a field with a response alias. The wire text carries
// "name:" before the wrapped field, and the response keys the realized
// value under Name instead of the field's own name.
type Labeled struct {
	Name  string
	Field FieldSpec
}

func (Labeled) fieldNode() {}

// VersionPredicate gates Field on a minimum server version (inclusive).
// When the target server's version is older than MinVersion, the field
// is excluded from the wire text and Default is recorded for backfill
// into the eventual response.
//
// Default must structurally match the realized shape of Field: an object
// default for a Nested field, a scalar default for a scalar field, and so
// on. The model does not enforce this; Validate flags the detectable
// mismatches.
type VersionPredicate struct {
	MinVersion string
	Field      FieldSpec
	Default    respval.Value
}

func (VersionPredicate) fieldNode() {}
