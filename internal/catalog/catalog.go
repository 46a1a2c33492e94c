// Package catalog compiles CUE query declarations into field spec trees.
//
// The application's named queries live in .cue files rather than Go
// source, so the set of queries sent to the server can be audited and
// extended without touching the serializer. A catalog document has the
// shape:
//
//	queries: {
//		siteStats: {
//			fields: [
//				{since: "2.0.0", default: {count: 0}, field: {
//					object: "stats", fields: [{value: "count"}],
//				}},
//			]
//		}
//	}
//
// Field forms, one discriminator key each:
//
//	{value: <name>}                                  scalar leaf
//	{object: <name>, fields: [...]}                  nested object
//	{array: <name>, fields: [...]}                   list field
//	{label: <name>, field: {...}}                    response alias
//	{args: [...], field: {...}}                      argument wrapper
//	{since: <semver>, default: <json>, field: {...}} version gate
//
// Argument entries inside args:
//
//	{formal: <name>, type: "Int!" | "String!" | "String"}
//	{constant: <name>, value: <json>}
//	{constant: <name>, enum: <token>}
package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/salewski/sourcegraph--cody/internal/query"
	"github.com/salewski/sourcegraph--cody/internal/respval"
)

// Catalog is a compiled set of named queries.
type Catalog struct {
	Queries map[string]QuerySpec
}

// QuerySpec is one named query: the top-level field list handed to the
// serializer.
type QuerySpec struct {
	Name   string
	Fields []query.FieldSpec
}

// Get returns the named query spec.
func (c *Catalog) Get(name string) (QuerySpec, bool) {
	q, ok := c.Queries[name]
	return q, ok
}

// Names returns the declared query names in unspecified order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Queries))
	for name := range c.Queries {
		names = append(names, name)
	}
	return names
}

// CompileError represents a defect in a catalog document.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

// Compile parses a CUE value holding a catalog document into a Catalog.
// The value should be the document root (the struct containing "queries").
func Compile(v cue.Value) (*Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	queriesVal := v.LookupPath(cue.ParsePath("queries"))
	if !queriesVal.Exists() {
		return nil, &CompileError{
			Field:   "queries",
			Message: "queries is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := queriesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	cat := &Catalog{Queries: make(map[string]QuerySpec)}
	for iter.Next() {
		name := iter.Label()
		spec, err := compileQuery(name, iter.Value())
		if err != nil {
			return nil, err
		}
		cat.Queries[name] = spec
	}

	return cat, nil
}

// compileQuery parses one named query declaration.
func compileQuery(name string, v cue.Value) (QuerySpec, error) {
	spec := QuerySpec{Name: name}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return spec, &CompileError{
			Field:   name,
			Message: "fields is required",
			Pos:     v.Pos(),
		}
	}

	fields, err := compileFieldList(fieldsVal)
	if err != nil {
		return spec, err
	}
	if len(fields) == 0 {
		return spec, &CompileError{
			Field:   name,
			Message: "at least one field is required",
			Pos:     fieldsVal.Pos(),
		}
	}
	spec.Fields = fields

	return spec, nil
}

func compileFieldList(v cue.Value) ([]query.FieldSpec, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var fields []query.FieldSpec
	for iter.Next() {
		f, err := compileField(iter.Value())
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// compileField parses one field form by its discriminator key.
func compileField(v cue.Value) (query.FieldSpec, error) {
	if name, ok, err := lookupString(v, "value"); ok || err != nil {
		if err != nil {
			return nil, err
		}
		return query.Value{Name: name}, nil
	}

	if name, ok, err := lookupString(v, "object"); ok || err != nil {
		if err != nil {
			return nil, err
		}
		children, err := compileChildren(v, name)
		if err != nil {
			return nil, err
		}
		return query.Object{Name: name, Fields: children}, nil
	}

	if name, ok, err := lookupString(v, "array"); ok || err != nil {
		if err != nil {
			return nil, err
		}
		children, err := compileChildren(v, name)
		if err != nil {
			return nil, err
		}
		return query.Array{Name: name, Fields: children}, nil
	}

	if label, ok, err := lookupString(v, "label"); ok || err != nil {
		if err != nil {
			return nil, err
		}
		wrapped, err := compileWrapped(v, label)
		if err != nil {
			return nil, err
		}
		return query.Labeled{Name: label, Field: wrapped}, nil
	}

	if argsVal := v.LookupPath(cue.ParsePath("args")); argsVal.Exists() {
		args, err := compileArgs(argsVal)
		if err != nil {
			return nil, err
		}
		wrapped, err := compileWrapped(v, "args")
		if err != nil {
			return nil, err
		}
		return query.WithArguments{Field: wrapped, Args: args}, nil
	}

	if min, ok, err := lookupString(v, "since"); ok || err != nil {
		if err != nil {
			return nil, err
		}
		defVal := v.LookupPath(cue.ParsePath("default"))
		if !defVal.Exists() {
			return nil, &CompileError{
				Field:   "since",
				Message: "default is required for version-gated fields",
				Pos:     v.Pos(),
			}
		}
		def, err := decodeValue(defVal)
		if err != nil {
			return nil, err
		}
		wrapped, err := compileWrapped(v, "since "+min)
		if err != nil {
			return nil, err
		}
		return query.VersionPredicate{MinVersion: min, Field: wrapped, Default: def}, nil
	}

	return nil, &CompileError{
		Field:   "field",
		Message: "field must declare one of: value, object, array, label, args, since",
		Pos:     v.Pos(),
	}
}

// compileChildren parses the required "fields" list of a composite field.
func compileChildren(v cue.Value, name string) ([]query.FieldSpec, error) {
	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return nil, &CompileError{
			Field:   name,
			Message: "fields is required",
			Pos:     v.Pos(),
		}
	}
	return compileFieldList(fieldsVal)
}

// compileWrapped parses the required "field" of a wrapper form.
func compileWrapped(v cue.Value, context string) (query.FieldSpec, error) {
	fieldVal := v.LookupPath(cue.ParsePath("field"))
	if !fieldVal.Exists() {
		return nil, &CompileError{
			Field:   context,
			Message: "field is required",
			Pos:     v.Pos(),
		}
	}
	return compileField(fieldVal)
}

// compileArgs parses an argument list: formal and constant entries only.
func compileArgs(v cue.Value) ([]query.FieldSpec, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var args []query.FieldSpec
	for iter.Next() {
		arg, err := compileArg(iter.Value())
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func compileArg(v cue.Value) (query.FieldSpec, error) {
	if name, ok, err := lookupString(v, "formal"); ok || err != nil {
		if err != nil {
			return nil, err
		}
		typeTag, ok, err := lookupString(v, "type")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &CompileError{
				Field:   name,
				Message: "type is required for formal arguments",
				Pos:     v.Pos(),
			}
		}
		return query.Formal{Name: name, Type: query.TypeTag(typeTag)}, nil
	}

	if name, ok, err := lookupString(v, "constant"); ok || err != nil {
		if err != nil {
			return nil, err
		}
		if enumVal := v.LookupPath(cue.ParsePath("enum")); enumVal.Exists() {
			token, err := enumVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			return query.Constant{Name: name, Value: query.Enum(token)}, nil
		}
		litVal := v.LookupPath(cue.ParsePath("value"))
		if !litVal.Exists() {
			return nil, &CompileError{
				Field:   name,
				Message: "constant requires a value or enum",
				Pos:     v.Pos(),
			}
		}
		var raw any
		if err := litVal.Decode(&raw); err != nil {
			return nil, formatCUEError(err)
		}
		return query.Constant{Name: name, Value: raw}, nil
	}

	return nil, &CompileError{
		Field:   "args",
		Message: "argument must declare formal or constant",
		Pos:     v.Pos(),
	}
}

// decodeValue decodes a CUE value into a response value tree, used for
// version-gate defaults.
func decodeValue(v cue.Value) (respval.Value, error) {
	var raw any
	if err := v.Decode(&raw); err != nil {
		return nil, formatCUEError(err)
	}
	rv, err := respval.FromAny(raw)
	if err != nil {
		return nil, &CompileError{
			Field:   "default",
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return rv, nil
}

// lookupString reads an optional string at path. Returns ok=false when
// the path does not exist and an error when it exists but is not a
// string.
func lookupString(v cue.Value, path string) (string, bool, error) {
	val := v.LookupPath(cue.ParsePath(path))
	if !val.Exists() {
		return "", false, nil
	}
	s, err := val.String()
	if err != nil {
		return "", true, formatCUEError(err)
	}
	return s, true, nil
}
