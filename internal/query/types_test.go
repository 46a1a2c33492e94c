package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salewski/sourcegraph--cody/internal/respval"
)

func TestFieldSpecSealed(t *testing.T) {
	// Verify all variants implement FieldSpec (compile-time check via assignment)
	var _ FieldSpec = Value{Name: "id"}
	var _ FieldSpec = Object{Name: "user"}
	var _ FieldSpec = Array{Name: "items"}
	var _ FieldSpec = Constant{Name: "first", Value: 10}
	var _ FieldSpec = Formal{Name: "query", Type: TypeString}
	var _ FieldSpec = WithArguments{Field: Value{Name: "n"}}
	var _ FieldSpec = Labeled{Name: "alias", Field: Value{Name: "n"}}
	var _ FieldSpec = VersionPredicate{MinVersion: "1.0.0", Field: Value{Name: "n"}}
}

func TestCombinatorsBuildExpectedNodes(t *testing.T) {
	assert.Equal(t, Value{Name: "id"}, Scalar("id"))
	assert.Equal(t, Value{Name: "name"}, String("name"))
	assert.Equal(t, Value{Name: "count"}, Number("count"))
	assert.Equal(t, Value{Name: "ok"}, Boolean("ok"))

	nested := Nested("currentUser", String("id"), String("displayName"))
	assert.Equal(t, Object{Name: "currentUser", Fields: []FieldSpec{
		Value{Name: "id"}, Value{Name: "displayName"},
	}}, nested)

	list := List("nodes", String("id"))
	assert.Equal(t, Array{Name: "nodes", Fields: []FieldSpec{Value{Name: "id"}}}, list)

	assert.Equal(t, Constant{Name: "first", Value: 5}, Const("first", 5))
	assert.Equal(t, Formal{Name: "query", Type: TypeString}, FormalArg("query", TypeString))

	wrapped := Args(String("search"), Const("first", 5))
	assert.Equal(t, WithArguments{
		Field: Value{Name: "search"},
		Args:  []FieldSpec{Constant{Name: "first", Value: 5}},
	}, wrapped)

	assert.Equal(t, Labeled{Name: "me", Field: Value{Name: "currentUser"}},
		Alias("me", String("currentUser")))

	gated := SinceVersion("5.4.0", respval.Bool(false), Boolean("siteHasCodyEnabled"))
	assert.Equal(t, VersionPredicate{
		MinVersion: "5.4.0",
		Field:      Value{Name: "siteHasCodyEnabled"},
		Default:    respval.Bool(false),
	}, gated)
}

func TestRealizedName(t *testing.T) {
	tests := []struct {
		name     string
		spec     FieldSpec
		expected string
	}{
		{"scalar", String("id"), "id"},
		{"object", Nested("user"), "user"},
		{"array", List("nodes"), "nodes"},
		{"label wins over field name", Alias("me", String("currentUser")), "me"},
		{"argument wrapper passes through", Args(String("search"), Const("n", 1)), "search"},
		{"version predicate passes through", SinceVersion("1.0.0", respval.Null{}, String("flag")), "flag"},
		{"stacked wrappers", Args(Alias("hit", String("result"))), "hit"},
		{"constant realizes nothing", Const("n", 1), ""},
		{"formal realizes nothing", FormalArg("q", TypeString), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RealizedName(tt.spec))
		})
	}
}
