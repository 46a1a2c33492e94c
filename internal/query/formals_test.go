package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salewski/sourcegraph--cody/internal/respval"
)

func TestCollectFormalsEmpty(t *testing.T) {
	assert.Empty(t, CollectFormals())
	assert.Empty(t, CollectFormals(String("id")))
	assert.Empty(t, CollectFormals(Nested("user", String("id"), Boolean("admin"))))
}

func TestCollectFormalsDeclarationOrder(t *testing.T) {
	spec := Nested("search",
		Args(List("results", String("title")),
			FormalArg("query", TypeString),
			Const("first", 20),
			FormalArg("after", TypeNullableString),
		),
	)

	formals := CollectFormals(spec)
	assert.Equal(t, []Formal{
		{Name: "query", Type: TypeString},
		{Name: "after", Type: TypeNullableString},
	}, formals)
}

func TestCollectFormalsWrapperBeforeWrapped(t *testing.T) {
	// A wrapper's own formals come before those of its wrapped field.
	spec := Args(
		Nested("outer",
			Args(String("inner"), FormalArg("innerArg", TypeInt)),
		),
		FormalArg("outerArg", TypeString),
	)

	formals := CollectFormals(spec)
	assert.Equal(t, []Formal{
		{Name: "outerArg", Type: TypeString},
		{Name: "innerArg", Type: TypeInt},
	}, formals)
}

func TestCollectFormalsMultiplicity(t *testing.T) {
	// The same base name at different depths is reported once per use.
	spec := Nested("repo",
		Args(String("a"), FormalArg("name", TypeString)),
		Args(String("b"), FormalArg("name", TypeString)),
	)

	formals := CollectFormals(spec)
	assert.Len(t, formals, 2)
	assert.Equal(t, "name", formals[0].Name)
	assert.Equal(t, "name", formals[1].Name)
}

func TestCollectFormalsWrapperTransparency(t *testing.T) {
	spec := Alias("me",
		SinceVersion("1.2.0", respval.Object{},
			Args(Nested("currentUser", String("id")), FormalArg("detail", TypeInt)),
		),
	)

	// Labels and version predicates pass through to the wrapped field.
	formals := CollectFormals(spec)
	assert.Equal(t, []Formal{{Name: "detail", Type: TypeInt}}, formals)
}

func TestCollectFormalsBareFormal(t *testing.T) {
	// A bare formal in field position is still a construction defect, but
	// the collector reports it rather than hiding it.
	formals := CollectFormals(FormalArg("loose", TypeInt))
	assert.Equal(t, []Formal{{Name: "loose", Type: TypeInt}}, formals)
}

func TestCollectFormalsIsPure(t *testing.T) {
	spec := Args(String("f"), FormalArg("x", TypeInt))

	first := CollectFormals(spec)
	second := CollectFormals(spec)
	assert.Equal(t, first, second)
}
