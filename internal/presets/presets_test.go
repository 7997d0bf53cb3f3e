package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexgen/internal/scanner"
)

func tokenStrings(t *testing.T, preset, src string) []string {
	t.Helper()
	p, ok := Lookup(preset)
	require.True(t, ok, "preset %s should exist", preset)

	table, err := p.Document().Compile()
	require.NoError(t, err)

	tokens, errs := scanner.Tokenize(table, src)
	require.Empty(t, errs)

	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.String()
	}
	return out
}

func TestGetPresets(t *testing.T) {
	all := GetPresets()

	assert.NotNil(t, all["calc"], "calc preset should exist")
	assert.NotNil(t, all["json"], "json preset should exist")
	assert.NotNil(t, all["sexpr"], "sexpr preset should exist")

	for name, p := range all {
		assert.Equal(t, name, p.Name)
		assert.NotEmpty(t, p.Description)

		_, err := p.Document().Compile()
		assert.NoError(t, err, "preset %s should compile", name)
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"calc", "json", "sexpr"}, Names())
}

func TestLookup(t *testing.T) {
	p, ok := Lookup("builtin:json")
	require.True(t, ok)
	assert.Equal(t, "json", p.Name)

	_, ok = Lookup("json")
	assert.True(t, ok)

	_, ok = Lookup("builtin:toml")
	assert.False(t, ok)

	assert.True(t, IsPreset("builtin:calc"))
	assert.False(t, IsPreset("calc.lex"))
}

func TestDocumentIsACopy(t *testing.T) {
	p, _ := Lookup("calc")
	doc := p.Document()
	doc.Keywords[0] = "changed"

	again, _ := Lookup("calc")
	assert.Equal(t, "let", again.Keywords[0])
	assert.Equal(t, "builtin:calc", doc.Path)
}

func TestJSONPreset(t *testing.T) {
	got := tokenStrings(t, "json", `{"a": [1, -2.5e3, true, null]}`)
	assert.Equal(t, []string{
		"lbrace({)", `string("a")`, "colon(:)", "lbracket([)",
		"number(1)", "comma(,)", "number(-2.5e3)", "comma(,)",
		"keyword(true)", "comma(,)", "keyword(null)", "rbracket(])", "rbrace(})",
	}, got)
}

func TestSexprPreset(t *testing.T) {
	got := tokenStrings(t, "sexpr", "(define x -5) ; set\n'(- x)")
	assert.Equal(t, []string{
		"lparen(()", "symbol(define)", "symbol(x)", "number(-5)", "rparen())",
		"comment(; set)", "quote(')", "lparen(()", "symbol(-)", "symbol(x)", "rparen())",
	}, got)
}

func TestCalcPreset(t *testing.T) {
	got := tokenStrings(t, "calc", "let r = (1 + 2) // sum")
	assert.Equal(t, []string{
		"keyword(let)", "ident(r)", "assign(=)", "lparen(()", "number(1)",
		"add(+)", "number(2)", "rparen())", "comment(// sum)",
	}, got)
}

func TestLoad(t *testing.T) {
	table, doc, err := Load("builtin:sexpr")
	require.NoError(t, err)
	assert.True(t, table.Has("symbol"))
	assert.Equal(t, "builtin:sexpr", doc.Path)

	table, _, err = Load("../../examples/calc.lex")
	require.NoError(t, err)
	assert.True(t, table.Has("ident"))

	_, _, err = Load("builtin:jsn")
	var ue *UnknownError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "jsn", ue.Name)
	assert.Equal(t, `unknown preset "jsn"`, err.Error())
}
