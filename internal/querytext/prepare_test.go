package querytext

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salewski/sourcegraph--cody/internal/query"
	"github.com/salewski/sourcegraph--cody/internal/respval"
)

func requireText(t *testing.T, p *PreparedQuery) string {
	t.Helper()
	require.NotNil(t, p.Text)
	return *p.Text
}

func TestPrepareCurrentUserID(t *testing.T) {
	p, err := Prepare("1.0.0",
		query.Nested("currentUser", query.String("id")),
	)
	require.NoError(t, err)
	assert.Equal(t, "query(){currentUser{id}}", requireText(t, p))
}

func TestPrepareGatedStatsCount(t *testing.T) {
	spec := query.SinceVersion("2.0.0", respval.Object{"count": respval.Int(0)},
		query.Nested("stats", query.Number("count")),
	)

	old, err := Prepare("1.0.0", spec)
	require.NoError(t, err)
	assert.Nil(t, old.Text)
	require.Len(t, old.Defaults, 1)

	modern, err := Prepare("2.0.0", spec)
	require.NoError(t, err)
	assert.Equal(t, "query(){stats{count}}", requireText(t, modern))
	assert.Empty(t, modern.Defaults)
}

func TestPrepareSimpleObject(t *testing.T) {
	p, err := Prepare("1.0.0",
		query.Nested("currentUser",
			query.String("id"),
			query.String("displayName"),
		),
	)
	require.NoError(t, err)

	assert.Equal(t, "query(){currentUser{id,displayName}}", requireText(t, p))
	assert.Empty(t, p.Formals)
	assert.Empty(t, p.Defaults)
}

func TestPrepareMultipleTopLevelFields(t *testing.T) {
	p, err := Prepare("1.0.0",
		query.Nested("site", query.String("productVersion")),
		query.Nested("currentUser", query.String("id")),
	)
	require.NoError(t, err)

	assert.Equal(t, "query(){site{productVersion},currentUser{id}}", requireText(t, p))
}

func TestPrepareArrayField(t *testing.T) {
	p, err := Prepare("1.0.0",
		query.List("repositories",
			query.String("name"),
			query.Number("starCount"),
		),
	)
	require.NoError(t, err)

	assert.Equal(t, "query(){repositories{name,starCount}}", requireText(t, p))
}

func TestPrepareConstantArguments(t *testing.T) {
	p, err := Prepare("1.0.0",
		query.Args(query.List("search", query.String("title")),
			query.Const("first", 5),
			query.Const("order", query.Enum("NAME_ASC")),
			query.Const("query", "needle"),
		),
	)
	require.NoError(t, err)

	// Enum constants render as bare tokens; everything else as JSON
	// literals. Trailing commas after each argument are tolerated by the
	// target grammar and kept.
	assert.Equal(t, `query(){search(first:5,order:NAME_ASC,query:"needle",){title}}`, requireText(t, p))
}

func TestPrepareFormalRenaming(t *testing.T) {
	p, err := Prepare("1.0.0",
		query.Args(query.List("repositories", query.String("name")),
			query.FormalArg("first", query.TypeInt),
		),
	)
	require.NoError(t, err)

	assert.Equal(t, "query($first0:Int!,){repositories(first:$first0,){name}}", requireText(t, p))
	assert.Equal(t, []query.Formal{{Name: "first0", Type: query.TypeInt}}, p.Formals)
}

func TestPrepareFormalRenamingUniqueAcrossDepths(t *testing.T) {
	// The same base name at different nesting depths never collides: the
	// running count suffixes each occurrence distinctly.
	p, err := Prepare("1.0.0",
		query.Nested("node",
			query.Args(query.String("a"), query.FormalArg("id", query.TypeString)),
			query.Args(query.String("b"), query.FormalArg("id", query.TypeString)),
		),
	)
	require.NoError(t, err)

	assert.Equal(t,
		"query($id0:String!,$id1:String!,){node{a(id:$id0,),b(id:$id1,)}}",
		requireText(t, p))
	assert.Equal(t, []query.Formal{
		{Name: "id0", Type: query.TypeString},
		{Name: "id1", Type: query.TypeString},
	}, p.Formals)
}

func TestPrepareLabel(t *testing.T) {
	p, err := Prepare("1.0.0",
		query.Alias("me", query.Nested("currentUser", query.String("id"))),
	)
	require.NoError(t, err)

	assert.Equal(t, "query(){me:currentUser{id}}", requireText(t, p))
}

func TestPrepareLabelOverArguments(t *testing.T) {
	p, err := Prepare("1.0.0",
		query.Alias("firstPage",
			query.Args(query.List("results", query.String("url")),
				query.Const("first", 1),
			),
		),
	)
	require.NoError(t, err)

	assert.Equal(t, "query(){firstPage:results(first:1,){url}}", requireText(t, p))
}

func TestPrepareVersionGateIncluded(t *testing.T) {
	spec := query.Nested("site",
		query.SinceVersion("5.4.0", respval.Bool(false), query.Boolean("codyEnabled")),
		query.String("productVersion"),
	)

	for _, version := range []string{"5.4.0", "5.4.1", "6.0.0"} {
		t.Run(version, func(t *testing.T) {
			p, err := Prepare(version, spec)
			require.NoError(t, err)

			// Included predicates are transparent in the wire text.
			assert.Equal(t, "query(){site{codyEnabled,productVersion}}", requireText(t, p))
			assert.Empty(t, p.Defaults)
		})
	}
}

func TestPrepareVersionGateExcluded(t *testing.T) {
	spec := query.Nested("site",
		query.SinceVersion("5.4.0", respval.Bool(false), query.Boolean("codyEnabled")),
		query.String("productVersion"),
	)

	p, err := Prepare("5.3.9", spec)
	require.NoError(t, err)

	// The excluded field leaves no trace in the text, not even a comma.
	assert.Equal(t, "query(){site{productVersion}}", requireText(t, p))

	require.Len(t, p.Defaults, 1)
	setter := p.Defaults[0]
	assert.Equal(t, respval.Bool(false), setter.Value)

	steps := setter.Path.Steps()
	require.Len(t, steps, 2)
	assert.IsType(t, query.Object{}, steps[0])
	assert.IsType(t, query.VersionPredicate{}, steps[1])
}

func TestPrepareAllFieldsExcluded(t *testing.T) {
	p, err := Prepare("1.0.0",
		query.SinceVersion("2.0.0", respval.Object{},
			query.Nested("newAPI", query.String("x")),
		),
	)
	require.NoError(t, err)

	// Nothing to send: nil text means no network call is necessary.
	assert.Nil(t, p.Text)
	require.Len(t, p.Defaults, 1)
	assert.Empty(t, p.Formals)
}

func TestPrepareEmptyQuery(t *testing.T) {
	p, err := Prepare("1.0.0")
	require.NoError(t, err)
	assert.Nil(t, p.Text)
	assert.Empty(t, p.Defaults)
}

func TestPrepareIdempotent(t *testing.T) {
	spec := query.Nested("search",
		query.Args(query.List("results", query.String("title")),
			query.FormalArg("query", query.TypeString),
			query.Const("first", 20),
		),
		query.SinceVersion("3.0.0", respval.Int(0), query.Number("totalCount")),
	)

	first, err := Prepare("2.5.0", spec)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := Prepare("2.5.0", spec)
		require.NoError(t, err)
		assert.Equal(t, requireText(t, first), requireText(t, again))
		assert.Equal(t, first.Formals, again.Formals)
		assert.Len(t, again.Defaults, len(first.Defaults))
	}
}

func TestPrepareBadServerVersion(t *testing.T) {
	_, err := Prepare("not-a-version", query.String("id"))
	require.Error(t, err)

	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeBadVersion, ce.Code)
}

func TestPrepareBadMinimumVersion(t *testing.T) {
	_, err := Prepare("1.0.0",
		query.SinceVersion("garbage", respval.Null{}, query.String("f")),
	)
	require.Error(t, err)

	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeBadVersion, ce.Code)
	assert.Equal(t, "f", ce.Field)
}

func TestPrepareArgumentPositionVariantsAsFields(t *testing.T) {
	for _, spec := range []query.FieldSpec{
		query.Const("loose", 1),
		query.FormalArg("loose", query.TypeInt),
	} {
		_, err := Prepare("1.0.0", spec)
		require.Error(t, err)

		var ce *ContractError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, ErrCodeArgumentPositionField, ce.Code)
	}
}

func TestPrepareIllegalArgumentKind(t *testing.T) {
	_, err := Prepare("1.0.0",
		query.Args(query.String("f"), query.String("notAnArgument")),
	)
	require.Error(t, err)

	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeArgumentPositionField, ce.Code)
}

func TestPrepareWrapperOverExcludedGate(t *testing.T) {
	// An argument wrapper needs realized output; gating must wrap the
	// wrapper, not sit inside it.
	_, err := Prepare("1.0.0",
		query.Args(
			query.SinceVersion("2.0.0", respval.Null{}, query.String("flag")),
			query.Const("n", 1),
		),
	)
	require.Error(t, err)

	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeEmptyArgumentTarget, ce.Code)
}

func TestPrepareLabelOverExcludedGate(t *testing.T) {
	_, err := Prepare("1.0.0",
		query.Alias("l",
			query.SinceVersion("2.0.0", respval.Null{}, query.String("flag")),
		),
	)
	require.Error(t, err)

	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeEmptyLabelTarget, ce.Code)
}

func TestPrepareGateOverWrapperExcludesCleanly(t *testing.T) {
	// The legal arrangement: the gate wraps the argument wrapper, so an
	// old server sees neither the field nor its arguments.
	p, err := Prepare("1.0.0",
		query.Nested("site",
			query.String("productVersion"),
			query.SinceVersion("2.0.0", respval.Array{},
				query.Args(query.List("newList", query.String("x")),
					query.FormalArg("first", query.TypeInt),
				),
			),
		),
	)
	require.NoError(t, err)

	assert.Equal(t, "query(){site{productVersion}}", requireText(t, p))
	// The excluded wrapper's formals were never collected.
	assert.Empty(t, p.Formals)
	require.Len(t, p.Defaults, 1)
}

func TestFieldPathSteps(t *testing.T) {
	root := &FieldPath{Spec: query.Object{Name: "a"}}
	mid := &FieldPath{Spec: query.Array{Name: "b"}, Parent: root}
	leaf := &FieldPath{Spec: query.Value{Name: "c"}, Parent: mid}

	steps := leaf.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, query.Object{Name: "a"}, steps[0])
	assert.Equal(t, query.Array{Name: "b"}, steps[1])
	assert.Equal(t, query.Value{Name: "c"}, steps[2])
}

func TestPrepareNestedGatePathIncludesAncestors(t *testing.T) {
	p, err := Prepare("1.0.0",
		query.Nested("a",
			query.List("b",
				query.SinceVersion("9.0.0", respval.String("none"), query.String("c")),
			),
		),
	)
	require.NoError(t, err)

	require.Len(t, p.Defaults, 1)
	steps := p.Defaults[0].Path.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, "a", query.RealizedName(steps[0]))
	assert.Equal(t, "b", query.RealizedName(steps[1]))
	assert.IsType(t, query.VersionPredicate{}, steps[2])
}
