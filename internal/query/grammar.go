package query

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_-]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Punct", Pattern: `[.\[\]|*:]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var queryParser = participle.MustBuild[queryNode](
	participle.Lexer(queryLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(4),
)

type queryNode struct {
	Stages []*stageNode `parser:"@@ ( '|' @@ )*"`
}

type stageNode struct {
	Head *headNode       `parser:"@@"`
	Tail []*accessorNode `parser:"@@*"`
}

type headNode struct {
	Field   *string      `parser:"  @(Ident | String)"`
	Bracket *bracketNode `parser:"| @@"`
}

type accessorNode struct {
	Field   *string      `parser:"  '.' @(Ident | String)"`
	Bracket *bracketNode `parser:"| @@"`
}

// bracketNode covers `[]`, `[*]`, `[n]` and `[a:b]`.
type bracketNode struct {
	Slice *sliceNode `parser:"'[' ( @@"`
	Index *string    `parser:"    | @Int"`
	Star  bool       `parser:"    | @'*' )? ']'"`
}

type sliceNode struct {
	Start *string `parser:"@Int? ':'"`
	Stop  *string `parser:"@Int?"`
}
