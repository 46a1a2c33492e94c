package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salewski/sourcegraph--cody/internal/respval"
)

// MustDecode parses a JSON literal into a response value, failing the
// test on malformed input. It keeps response fixtures readable inline:
//
//	resp := testutil.MustDecode(t, `{"currentUser":{"id":"u1"}}`)
func MustDecode(t *testing.T, data string) respval.Value {
	t.Helper()
	v, err := respval.Decode([]byte(data))
	require.NoError(t, err, "fixture must be valid JSON")
	return v
}

// MustObject is MustDecode narrowed to an object root.
func MustObject(t *testing.T, data string) respval.Object {
	t.Helper()
	v := MustDecode(t, data)
	obj, ok := v.(respval.Object)
	require.True(t, ok, "fixture root must be an object")
	return obj
}

// CanonicalJSON renders a value in canonical form, failing the test on
// values the canonical encoding rejects.
func CanonicalJSON(t *testing.T, v respval.Value) string {
	t.Helper()
	data, err := respval.MarshalCanonical(v)
	require.NoError(t, err)
	return string(data)
}
