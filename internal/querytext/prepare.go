package querytext

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/salewski/sourcegraph--cody/internal/query"
	"github.com/salewski/sourcegraph--cody/internal/respval"
)

// FieldPath is one step of an ancestry chain built as the serializer
// walks down a spec tree. Paths are created fresh per Prepare call, never
// shared across calls, never cyclic, and never mutated after creation.
// They surface only inside DefaultSetter, where the backfill engine
// replays them root-to-leaf as response-navigation instructions.
type FieldPath struct {
	Spec   query.FieldSpec
	Parent *FieldPath
}

// Steps flattens the chain into root-to-leaf order.
func (p *FieldPath) Steps() []query.FieldSpec {
	var n int
	for cur := p; cur != nil; cur = cur.Parent {
		n++
	}
	steps := make([]query.FieldSpec, n)
	for cur := p; cur != nil; cur = cur.Parent {
		n--
		steps[n] = cur.Spec
	}
	return steps
}

// DefaultSetter is a pending instruction produced for a version-excluded
// field: if Path is missing in the response, insert a deep copy of Value
// there. The terminal step of Path is always the VersionPredicate that
// caused the exclusion.
type DefaultSetter struct {
	Path  *FieldPath
	Value respval.Value
}

// PreparedQuery is the full output of one serialization pass.
type PreparedQuery struct {
	// Query is the spec tree the pass was run over.
	Query []query.FieldSpec

	// Text is the wire document body, or nil when no top-level field
	// produced output (every field version-excluded, or Query empty).
	// A nil Text signals that no network call is necessary.
	Text *string

	// Formals are the declared external parameters after gensym
	// renaming. Names are unique within one PreparedQuery.
	Formals []query.Formal

	// Defaults are the deferred backfill instructions for fields the
	// target server will not return.
	Defaults []DefaultSetter
}

// Prepare serializes spec trees into wire text for a server running
// realVersion. An unparsable realVersion fails outright rather than
// silently disabling version gating.
func Prepare(realVersion string, fields ...query.FieldSpec) (*PreparedQuery, error) {
	v, err := semver.NewVersion(realVersion)
	if err != nil {
		return nil, NewContractError(ErrCodeBadVersion, "", "unparsable server version %q: %v", realVersion, err)
	}

	s := &serializer{
		version:  v,
		formals:  []query.Formal{},
		defaults: []DefaultSetter{},
	}

	var body strings.Builder
	emittedAny := false
	for _, f := range fields {
		var fieldBuf strings.Builder
		emitted, err := s.serialize(nil, f, &fieldBuf)
		if err != nil {
			return nil, err
		}
		if !emitted {
			continue
		}
		// Separating comma only between fields that produced output, so
		// an excluded field never leaves a dangling separator behind.
		if emittedAny {
			body.WriteByte(',')
		}
		body.WriteString(fieldBuf.String())
		emittedAny = true
	}

	prepared := &PreparedQuery{
		Query:    fields,
		Formals:  s.formals,
		Defaults: s.defaults,
	}
	if !emittedAny {
		return prepared, nil
	}

	var doc strings.Builder
	doc.WriteString("query(")
	for _, formal := range s.formals {
		doc.WriteByte('$')
		doc.WriteString(formal.Name)
		doc.WriteByte(':')
		doc.WriteString(string(formal.Type))
		// Trailing commas are tolerated by the target grammar and are
		// not stripped.
		doc.WriteByte(',')
	}
	doc.WriteString("){")
	doc.WriteString(body.String())
	doc.WriteByte('}')

	text := doc.String()
	prepared.Text = &text
	return prepared, nil
}

// serializer accumulates formals and defaults across one Prepare pass.
// The text buffer is caller-provided per field so that parents can tell
// whether a child realized any output before committing separators.
type serializer struct {
	version  *semver.Version
	formals  []query.Formal
	defaults []DefaultSetter
}

// serialize emits one field into buf and reports whether it realized any
// output. parent is the ancestry chain above spec; included version
// predicates are transparent and leave no step on it.
func (s *serializer) serialize(parent *FieldPath, spec query.FieldSpec, buf *strings.Builder) (bool, error) {
	switch f := spec.(type) {
	case query.Value:
		if !nameSuppressed(parent) {
			buf.WriteString(f.Name)
		}
		return true, nil

	case query.Object:
		path := &FieldPath{Spec: f, Parent: parent}
		return s.serializeComposite(path, f.Name, f.Fields, buf)

	case query.Array:
		path := &FieldPath{Spec: f, Parent: parent}
		return s.serializeComposite(path, f.Name, f.Fields, buf)

	case query.Constant:
		return false, NewContractError(ErrCodeArgumentPositionField, f.Name, "constant used as a field")

	case query.Formal:
		return false, NewContractError(ErrCodeArgumentPositionField, f.Name, "formal used as a field")

	case query.WithArguments:
		return s.serializeWithArguments(parent, f, buf)

	case query.Labeled:
		path := &FieldPath{Spec: f, Parent: parent}
		buf.WriteString(f.Name)
		buf.WriteByte(':')
		emitted, err := s.serialize(path, f.Field, buf)
		if err != nil {
			return false, err
		}
		if !emitted {
			return false, NewContractError(ErrCodeEmptyLabelTarget, f.Name, "labeled field realized no output")
		}
		return true, nil

	case query.VersionPredicate:
		min, err := semver.NewVersion(f.MinVersion)
		if err != nil {
			return false, NewContractError(ErrCodeBadVersion, query.RealizedName(f.Field), "unparsable minimum version %q: %v", f.MinVersion, err)
		}
		if s.version.LessThan(min) {
			// Normal outcome, not an error: the field is excluded and a
			// default is recorded at the current path. The predicate
			// itself forms the terminal step.
			s.defaults = append(s.defaults, DefaultSetter{
				Path:  &FieldPath{Spec: f, Parent: parent},
				Value: f.Default,
			})
			return false, nil
		}
		// Included predicates are transparent: the wrapped field serializes
		// as if the predicate were not there, and no path step is recorded.
		return s.serialize(parent, f.Field, buf)

	default:
		return false, NewContractError(ErrCodeUnknownFieldKind, "", "unknown field kind: %T", spec)
	}
}

// serializeComposite emits "name{child,child,...}" for Object and Array
// fields. path already carries the composite's own step.
func (s *serializer) serializeComposite(path *FieldPath, name string, fields []query.FieldSpec, buf *strings.Builder) (bool, error) {
	if !nameSuppressed(path.Parent) {
		buf.WriteString(name)
	}
	buf.WriteByte('{')

	emittedAny := false
	for _, child := range fields {
		var childBuf strings.Builder
		emitted, err := s.serialize(path, child, &childBuf)
		if err != nil {
			return false, err
		}
		if !emitted {
			continue
		}
		if emittedAny {
			buf.WriteByte(',')
		}
		buf.WriteString(childBuf.String())
		emittedAny = true
	}

	buf.WriteByte('}')
	return true, nil
}

// serializeWithArguments emits "name(arg:value,...)" followed by the
// wrapped field's body. The wrapper emits the field's name itself, so the
// wrapped field suppresses its own.
func (s *serializer) serializeWithArguments(parent *FieldPath, f query.WithArguments, buf *strings.Builder) (bool, error) {
	path := &FieldPath{Spec: f, Parent: parent}
	name := query.RealizedName(f.Field)

	if !nameSuppressed(parent) {
		buf.WriteString(name)
	}
	buf.WriteByte('(')

	for _, arg := range f.Args {
		switch a := arg.(type) {
		case query.Constant:
			lit, err := constantLiteral(a.Value)
			if err != nil {
				return false, NewContractError(ErrCodeUnknownFieldKind, a.Name, "unserializable constant: %v", err)
			}
			buf.WriteString(a.Name)
			buf.WriteByte(':')
			buf.WriteString(lit)
			buf.WriteByte(',')

		case query.Formal:
			// Gensym: base name plus the running formals count keeps
			// renamed variables unique even when the same base name
			// recurs at different nesting depths.
			renamed := a.Name + strconv.Itoa(len(s.formals))
			s.formals = append(s.formals, query.Formal{Name: renamed, Type: a.Type})
			buf.WriteString(a.Name)
			buf.WriteString(":$")
			buf.WriteString(renamed)
			buf.WriteByte(',')

		default:
			return false, NewContractError(ErrCodeArgumentPositionField, name, "argument must be a constant or formal, got %T", arg)
		}
	}

	buf.WriteByte(')')

	emitted, err := s.serialize(path, f.Field, buf)
	if err != nil {
		return false, err
	}
	if !emitted {
		return false, NewContractError(ErrCodeEmptyArgumentTarget, name, "argument wrapper realized no output")
	}
	return true, nil
}

// nameSuppressed reports whether the immediate parent step is an argument
// wrapper, which already emitted the field's name as part of the argument
// list syntax.
func nameSuppressed(parent *FieldPath) bool {
	if parent == nil {
		return false
	}
	_, ok := parent.Spec.(query.WithArguments)
	return ok
}

// constantLiteral renders a constant argument value: Enum values as bare
// tokens, everything else as a JSON literal.
func constantLiteral(v any) (string, error) {
	if e, ok := v.(query.Enum); ok {
		return string(e), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
