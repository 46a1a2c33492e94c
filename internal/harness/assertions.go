package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/salewski/sourcegraph--cody/internal/respval"
)

// AssertionError describes one failed assertion.
type AssertionError struct {
	Type    string
	Message string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// EvaluateAssertions checks every assertion against the result and
// returns the failures. An empty slice means all assertions passed.
func EvaluateAssertions(result *Result, assertions []Assertion) []error {
	var failures []error
	for _, a := range assertions {
		if err := evaluate(result, a); err != nil {
			failures = append(failures, err)
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertText:
		if result.Prepared.Text == nil {
			return &AssertionError{Type: a.Type, Message: fmt.Sprintf("expected text %q, got nil", a.Text)}
		}
		if *result.Prepared.Text != a.Text {
			return &AssertionError{Type: a.Type, Message: fmt.Sprintf("expected text %q, got %q", a.Text, *result.Prepared.Text)}
		}
		return nil

	case AssertTextNull:
		if result.Prepared.Text != nil {
			return &AssertionError{Type: a.Type, Message: fmt.Sprintf("expected nil text, got %q", *result.Prepared.Text)}
		}
		return nil

	case AssertFormalNames:
		names := make([]string, len(result.Prepared.Formals))
		for i, f := range result.Prepared.Formals {
			names[i] = f.Name
		}
		if !reflect.DeepEqual(names, a.Names) && !(len(names) == 0 && len(a.Names) == 0) {
			return &AssertionError{Type: a.Type, Message: fmt.Sprintf("expected formals %v, got %v", a.Names, names)}
		}
		return nil

	case AssertResponseProperty:
		actual, err := lookupPath(result.Response, a.Path)
		if err != nil {
			return &AssertionError{Type: a.Type, Message: err.Error()}
		}
		expected, err := respval.FromAny(a.Value)
		if err != nil {
			return &AssertionError{Type: a.Type, Message: fmt.Sprintf("bad expected value: %v", err)}
		}
		if !reflect.DeepEqual(actual, expected) {
			return &AssertionError{Type: a.Type, Message: fmt.Sprintf("at %s: expected %#v, got %#v", a.Path, expected, actual)}
		}
		return nil

	default:
		return &AssertionError{Type: a.Type, Message: "unknown assertion type"}
	}
}

// lookupPath walks a dot-separated property path over a response tree.
func lookupPath(v respval.Value, path string) (respval.Value, error) {
	cur := v
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(respval.Object)
		if !ok {
			return nil, fmt.Errorf("at %q: expected object, got %T", part, cur)
		}
		child, ok := obj[part]
		if !ok {
			return nil, fmt.Errorf("missing property %q", part)
		}
		cur = child
	}
	return cur, nil
}
