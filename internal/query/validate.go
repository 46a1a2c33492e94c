package query

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ValidationResult contains well-formedness analysis of spec trees.
type ValidationResult struct {
	// OK indicates no defects were found. A tree that fails validation
	// will produce a contract error at serialization or backfill time.
	OK bool

	// Warnings lists the defects found, with field context.
	// Empty when OK is true.
	Warnings []string
}

// Validate checks spec trees for construction defects that would
// otherwise surface as contract errors during serialization or backfill:
//
//  1. Empty field, label, or argument names
//  2. Argument-position variants (Constant, Formal) used as fields
//  3. WithArguments arguments that are not Constant or Formal
//  4. WithArguments or Labeled directly wrapping a VersionPredicate
//     (a contract violation the moment the version excludes the field)
//  5. Unparsable VersionPredicate minimum versions
//  6. VersionPredicate with no default value
//  7. Unrecognized formal type tags
//
// Validate is a pure function with no side effects.
func Validate(fields ...FieldSpec) ValidationResult {
	v := &validator{warnings: []string{}}
	for _, f := range fields {
		v.validateField(f, false)
	}

	return ValidationResult{
		OK:       len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

// validateField checks one node. argPosition is true when the node sits
// in a WithArguments argument list, where only Constant and Formal are
// legal.
func (v *validator) validateField(spec FieldSpec, argPosition bool) {
	if spec == nil {
		v.addWarning("nil field spec")
		return
	}

	switch f := spec.(type) {
	case Value:
		if argPosition {
			v.addWarning("scalar field %q in argument position", f.Name)
		}
		if f.Name == "" {
			v.addWarning("scalar field with empty name")
		}
	case Object:
		if argPosition {
			v.addWarning("object field %q in argument position", f.Name)
		}
		if f.Name == "" {
			v.addWarning("object field with empty name")
		}
		for _, child := range f.Fields {
			v.validateField(child, false)
		}
	case Array:
		if argPosition {
			v.addWarning("array field %q in argument position", f.Name)
		}
		if f.Name == "" {
			v.addWarning("array field with empty name")
		}
		for _, child := range f.Fields {
			v.validateField(child, false)
		}
	case Constant:
		if !argPosition {
			v.addWarning("constant %q outside argument position", f.Name)
		}
		if f.Name == "" {
			v.addWarning("constant argument with empty name")
		}
	case Formal:
		if !argPosition {
			v.addWarning("formal %q outside argument position", f.Name)
		}
		if f.Name == "" {
			v.addWarning("formal argument with empty name")
		}
		switch f.Type {
		case TypeInt, TypeString, TypeNullableString:
		default:
			v.addWarning("formal %q has unrecognized type tag %q", f.Name, f.Type)
		}
	case WithArguments:
		if argPosition {
			v.addWarning("argument wrapper in argument position")
		}
		if f.Field == nil {
			v.addWarning("argument wrapper with nil field")
		} else if _, gated := f.Field.(VersionPredicate); gated {
			// The wrapper requires its field to realize output; a version
			// exclusion inside it is a contract violation at serialization
			// time. Gate the wrapper instead.
			v.addWarning("argument wrapper for %q directly wraps a version predicate; wrap the predicate around the argument wrapper instead", RealizedName(f.Field))
		}
		for _, arg := range f.Args {
			v.validateField(arg, true)
		}
		if f.Field != nil {
			v.validateField(f.Field, false)
		}
	case Labeled:
		if argPosition {
			v.addWarning("labeled field %q in argument position", f.Name)
		}
		if f.Name == "" {
			v.addWarning("labeled field with empty label")
		}
		if f.Field == nil {
			v.addWarning("labeled field %q with nil field", f.Name)
		} else if _, gated := f.Field.(VersionPredicate); gated {
			// Same contract as the argument wrapper: the label requires
			// realized output.
			v.addWarning("label %q directly wraps a version predicate; wrap the predicate around the label instead", f.Name)
		}
		if f.Field != nil {
			v.validateField(f.Field, false)
		}
	case VersionPredicate:
		if argPosition {
			v.addWarning("version predicate in argument position")
		}
		if _, err := semver.NewVersion(f.MinVersion); err != nil {
			v.addWarning("version predicate for %q has unparsable minimum version %q", RealizedName(f.Field), f.MinVersion)
		}
		if f.Default == nil {
			v.addWarning("version predicate for %q has no default value", RealizedName(f.Field))
		}
		if f.Field == nil {
			v.addWarning("version predicate with nil field")
		} else {
			v.validateField(f.Field, false)
		}
	default:
		v.addWarning("unknown field kind: %T", spec)
	}
}
