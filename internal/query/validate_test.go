package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salewski/sourcegraph--cody/internal/respval"
)

func TestValidateWellFormed(t *testing.T) {
	result := Validate(
		Nested("currentUser",
			String("id"),
			Alias("avatar", String("avatarURL")),
			Args(List("organizations", String("name")),
				FormalArg("first", TypeInt),
				Const("order", Enum("NAME_ASC")),
			),
			SinceVersion("5.4.0", respval.Bool(false), Boolean("codyEnabled")),
		),
	)

	assert.True(t, result.OK)
	assert.Empty(t, result.Warnings)
}

func TestValidateDefects(t *testing.T) {
	tests := []struct {
		name    string
		spec    FieldSpec
		warning string
	}{
		{"empty scalar name", String(""), "empty name"},
		{"empty object name", Nested(""), "empty name"},
		{"empty label", Alias("", String("id")), "empty label"},
		{"constant as field", Const("n", 1), "outside argument position"},
		{"formal as field", FormalArg("q", TypeString), "outside argument position"},
		{"scalar as argument", Args(String("f"), String("notAnArg")), "argument position"},
		{"nested wrapper as argument", Args(String("f"), Args(String("g"))), "argument position"},
		{
			"wrapper over version predicate",
			Args(SinceVersion("1.0.0", respval.Null{}, String("flag")), Const("n", 1)),
			"wrap the predicate around the argument wrapper",
		},
		{
			"label over version predicate",
			Alias("l", SinceVersion("1.0.0", respval.Null{}, String("flag"))),
			"wrap the predicate around the label",
		},
		{"unparsable version", SinceVersion("not-a-version", respval.Null{}, String("f")), "unparsable minimum version"},
		{"missing default", VersionPredicate{MinVersion: "1.0.0", Field: String("f")}, "no default value"},
		{"bad type tag", Args(String("f"), FormalArg("x", TypeTag("Float!"))), "unrecognized type tag"},
		{"nil field", nil, "nil field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.spec)
			require.False(t, result.OK)
			require.NotEmpty(t, result.Warnings)

			found := false
			for _, w := range result.Warnings {
				if strings.Contains(w, tt.warning) {
					found = true
					break
				}
			}
			assert.True(t, found, "expected a warning containing %q, got %v", tt.warning, result.Warnings)
		})
	}
}

func TestValidateCollectsAllDefects(t *testing.T) {
	result := Validate(
		String(""),
		Const("loose", 1),
		SinceVersion("bogus", nil, String("f")),
	)

	require.False(t, result.OK)
	// Not fail-fast: one pass reports every defect.
	assert.GreaterOrEqual(t, len(result.Warnings), 4)
}

func TestValidateRecursesIntoChildren(t *testing.T) {
	result := Validate(
		Nested("outer",
			List("inner",
				Alias("a", Const("buried", 1)),
			),
		),
	)

	require.False(t, result.OK)
	assert.Contains(t, result.Warnings[0], "buried")
}
