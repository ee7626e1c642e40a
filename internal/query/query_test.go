package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Term(t *testing.T) {
	e, err := Parse("rust")
	require.NoError(t, err)
	assert.Equal(t, &Term{Text: "rust"}, e)
}

func TestParse_ImplicitAnd(t *testing.T) {
	e, err := Parse("rust async")
	require.NoError(t, err)
	want := &And{Clauses: []Expr{&Term{Text: "rust"}, &Term{Text: "async"}}}
	assert.True(t, Equal(want, e), "got %s", ToQueryString(e))
}

func TestParse_Or(t *testing.T) {
	e, err := Parse("rust OR python")
	require.NoError(t, err)
	want := &Or{Clauses: []Expr{&Term{Text: "rust"}, &Term{Text: "python"}}}
	assert.True(t, Equal(want, e))

	eCI, err := Parse("rust or python")
	require.NoError(t, err)
	assert.True(t, Equal(want, eCI), "OR is case-insensitive")
}

func TestParse_Negation(t *testing.T) {
	e, err := Parse("rust -python")
	require.NoError(t, err)
	want := &And{Clauses: []Expr{
		&Term{Text: "rust"},
		&Not{Inner: &Term{Text: "python"}},
	}}
	assert.True(t, Equal(want, e))
}

func TestParse_Phrase(t *testing.T) {
	e, err := Parse(`"rust async programming"`)
	require.NoError(t, err)
	assert.Equal(t, &Phrase{Words: []string{"rust", "async", "programming"}}, e)
}

func TestParse_FieldWithBoost(t *testing.T) {
	e, err := Parse("title:guide^5 rust")
	require.NoError(t, err)
	want := &And{Clauses: []Expr{
		&Boost{Inner: &Field{Name: "title", Inner: &Term{Text: "guide"}}, Factor: 5},
		&Term{Text: "rust"},
	}}
	assert.True(t, Equal(want, e), "got %s", ToQueryString(e))
}

func TestParse_FieldWithGroup(t *testing.T) {
	e, err := Parse("tree:(docs OR api)")
	require.NoError(t, err)
	want := &Field{Name: "tree", Inner: &Or{Clauses: []Expr{&Term{Text: "docs"}, &Term{Text: "api"}}}}
	assert.True(t, Equal(want, e))
}

func TestParse_GroupingChangesPrecedence(t *testing.T) {
	e, err := Parse("(rust OR python) async")
	require.NoError(t, err)
	want := &And{Clauses: []Expr{
		&Or{Clauses: []Expr{&Term{Text: "rust"}, &Term{Text: "python"}}},
		&Term{Text: "async"},
	}}
	assert.True(t, Equal(want, e))
}

func TestParse_BoostOnGroup(t *testing.T) {
	e, err := Parse("(rust OR python)^2.5")
	require.NoError(t, err)
	want := &Boost{
		Inner:  &Or{Clauses: []Expr{&Term{Text: "rust"}, &Term{Text: "python"}}},
		Factor: 2.5,
	}
	assert.True(t, Equal(want, e))
}

func TestParse_DoubleNegation(t *testing.T) {
	e, err := Parse("--rust")
	require.NoError(t, err)
	assert.Equal(t, &Not{Inner: &Not{Inner: &Term{Text: "rust"}}}, e)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"unclosed quote", `"rust async`},
		{"trailing boost marker", "rust^"},
		{"trailing OR", "rust OR"},
		{"stray close paren", "rust)"},
		{"unclosed paren", "(rust"},
		{"field without value", "title:"},
		{"field without value before OR", "title: OR rust"},
		{"negation without expression", "rust -"},
		{"empty group", "()"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.input)
			require.Error(t, err)
		})
	}
}

func TestExtractTerms(t *testing.T) {
	e, err := Parse(`title:guide^5 rust -python "async io"`)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"guide", "rust", "python", "async", "io"}, ExtractTerms(e))
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"rust",
		"rust async",
		"rust OR python",
		"rust -python",
		`"rust async programming"`,
		"title:guide^5 rust",
		"tree:(docs OR api)",
		"(rust OR python) async",
		"(rust OR python)^2.5",
		"--rust",
		"-title:guide",
		"a OR b OR c",
		"a b c",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first, err := Parse(in)
			require.NoError(t, err)

			rendered := ToQueryString(first)
			second, err := Parse(rendered)
			require.NoError(t, err, "re-parsing rendered query %q", rendered)

			assert.True(t, Equal(first, second), "parse(%q) = %s, parse(to_query_string(...)) = %s", in, ToQueryString(first), ToQueryString(second))
		})
	}
}

func TestEqual_IgnoresClauseOrder(t *testing.T) {
	a, err := Parse("rust OR python")
	require.NoError(t, err)
	b, err := Parse("python OR rust")
	require.NoError(t, err)
	assert.True(t, Equal(a, b))
}

func TestEqual_DetectsDifference(t *testing.T) {
	a, err := Parse("rust")
	require.NoError(t, err)
	b, err := Parse("python")
	require.NoError(t, err)
	assert.False(t, Equal(a, b))
}
