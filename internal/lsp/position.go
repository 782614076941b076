package lsp

import (
	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/token"
	"github.com/funvibe/funxy-types/internal/types"
)

// identAt scans a checker's typed-AST index for the *ast.Identifier
// whose token covers the given 1-based line/column — the teacher's
// cmd/lsp walks a full node-position tree (FindNodePath) to answer the
// same question; internal/checker records every visited expression's
// token implicitly through TypeOf's keys, so a linear scan over that
// map's Identifier entries serves the same purpose without a separate
// position index.
func identAt(nodes map[ast.Expression]types.Type, line, col int) (*ast.Identifier, bool) {
	for e := range nodes {
		id, ok := e.(*ast.Identifier)
		if !ok {
			continue
		}
		t := id.GetToken()
		if t.Line == line && col >= t.Column && col <= t.Column+len(t.Lexeme) {
			return id, true
		}
	}
	return nil, false
}

// tokenRange converts a single token's position into an LSP Range.
// internal/token positions are 1-based; LSP positions are 0-based.
func tokenRange(t token.Token) Range {
	start := Position{Line: t.Line - 1, Character: t.Column - 1}
	end := Position{Line: t.Line - 1, Character: t.Column - 1 + len(t.Lexeme)}
	return Range{Start: start, End: end}
}
