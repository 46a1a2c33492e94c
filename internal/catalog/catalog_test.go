package catalog

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salewski/sourcegraph--cody/internal/query"
	"github.com/salewski/sourcegraph--cody/internal/querytext"
	"github.com/salewski/sourcegraph--cody/internal/respval"
)

func compileString(t *testing.T, src string) (*Catalog, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return Compile(v)
}

func TestCompileScalarQuery(t *testing.T) {
	cat, err := compileString(t, `
queries: currentUser: fields: [
	{object: "currentUser", fields: [
		{value: "id"},
		{value: "displayName"},
	]},
]
`)
	require.NoError(t, err)

	spec, ok := cat.Get("currentUser")
	require.True(t, ok)
	assert.Equal(t, "currentUser", spec.Name)
	assert.Equal(t, []query.FieldSpec{
		query.Object{Name: "currentUser", Fields: []query.FieldSpec{
			query.Value{Name: "id"},
			query.Value{Name: "displayName"},
		}},
	}, spec.Fields)
}

func TestCompileArrayField(t *testing.T) {
	cat, err := compileString(t, `
queries: repos: fields: [
	{array: "repositories", fields: [{value: "name"}]},
]
`)
	require.NoError(t, err)

	spec, _ := cat.Get("repos")
	assert.Equal(t, []query.FieldSpec{
		query.Array{Name: "repositories", Fields: []query.FieldSpec{query.Value{Name: "name"}}},
	}, spec.Fields)
}

func TestCompileLabel(t *testing.T) {
	cat, err := compileString(t, `
queries: q: fields: [
	{label: "me", field: {object: "currentUser", fields: [{value: "id"}]}},
]
`)
	require.NoError(t, err)

	spec, _ := cat.Get("q")
	labeled, ok := spec.Fields[0].(query.Labeled)
	require.True(t, ok)
	assert.Equal(t, "me", labeled.Name)
	assert.IsType(t, query.Object{}, labeled.Field)
}

func TestCompileArguments(t *testing.T) {
	cat, err := compileString(t, `
queries: search: fields: [
	{
		args: [
			{formal: "query", type: "String!"},
			{constant: "first", value: 20},
			{constant: "order", enum: "RANK"},
		],
		field: {array: "results", fields: [{value: "title"}]},
	},
]
`)
	require.NoError(t, err)

	spec, _ := cat.Get("search")
	wrapped, ok := spec.Fields[0].(query.WithArguments)
	require.True(t, ok)
	require.Len(t, wrapped.Args, 3)
	assert.Equal(t, query.Formal{Name: "query", Type: query.TypeString}, wrapped.Args[0])

	first := wrapped.Args[1].(query.Constant)
	assert.Equal(t, "first", first.Name)
	assert.EqualValues(t, 20, first.Value)

	assert.Equal(t, query.Constant{Name: "order", Value: query.Enum("RANK")}, wrapped.Args[2])
}

func TestCompileVersionGate(t *testing.T) {
	cat, err := compileString(t, `
queries: site: fields: [
	{object: "site", fields: [
		{value: "productVersion"},
		{since: "5.4.0", default: false, field: {value: "codyEnabled"}},
	]},
]
`)
	require.NoError(t, err)

	spec, _ := cat.Get("site")
	obj := spec.Fields[0].(query.Object)
	gate, ok := obj.Fields[1].(query.VersionPredicate)
	require.True(t, ok)
	assert.Equal(t, "5.4.0", gate.MinVersion)
	assert.Equal(t, respval.Bool(false), gate.Default)
	assert.Equal(t, query.Value{Name: "codyEnabled"}, gate.Field)
}

func TestCompileObjectDefault(t *testing.T) {
	cat, err := compileString(t, `
queries: q: fields: [
	{since: "2.0.0", default: {limit: 0, used: 0}, field: {
		object: "rateLimit", fields: [{value: "limit"}, {value: "used"}],
	}},
]
`)
	require.NoError(t, err)

	spec, _ := cat.Get("q")
	gate := spec.Fields[0].(query.VersionPredicate)
	assert.Equal(t, respval.Object{"limit": respval.Int(0), "used": respval.Int(0)}, gate.Default)
}

func TestCompiledCatalogServesSerializer(t *testing.T) {
	// The compiled tree feeds straight into serialization.
	cat, err := compileString(t, `
queries: stats: fields: [
	{object: "stats", fields: [{value: "count"}]},
]
`)
	require.NoError(t, err)

	spec, _ := cat.Get("stats")
	p, err := querytext.Prepare("1.0.0", spec.Fields...)
	require.NoError(t, err)
	require.NotNil(t, p.Text)
	assert.Equal(t, "query(){stats{count}}", *p.Text)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"missing queries", `other: {}`, "queries is required"},
		{"missing fields", `queries: q: {}`, "fields is required"},
		{"empty fields", `queries: q: fields: []`, "at least one field"},
		{"unknown form", `queries: q: fields: [{bogus: "x"}]`, "must declare one of"},
		{"gate without default", `queries: q: fields: [{since: "1.0.0", field: {value: "f"}}]`, "default is required"},
		{"label without field", `queries: q: fields: [{label: "l"}]`, "field is required"},
		{"formal without type", `queries: q: fields: [{args: [{formal: "x"}], field: {value: "f"}}]`, "type is required"},
		{"constant without value", `queries: q: fields: [{args: [{constant: "x"}], field: {value: "f"}}]`, "value or enum"},
		{"argument without discriminator", `queries: q: fields: [{args: [{weird: 1}], field: {value: "f"}}]`, "formal or constant"},
		{"object without children", `queries: q: fields: [{object: "o"}]`, "fields is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileString(t, tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCatalogNames(t *testing.T) {
	cat, err := compileString(t, `
queries: {
	a: fields: [{value: "x"}]
	b: fields: [{value: "y"}]
}
`)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, cat.Names())
}
