package parser

import (
	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/diagnostics"
)

// ParseSource lexes and parses one file's worth of source and converts
// any recovered parse errors into diagnostics.SyntaxErrorf entries,
// merged into the returned bag the same way internal/checker reports
// its own errors — so a driver (cmd/funxy, internal/lsp) never needs
// to know parser.Parser's internal error representation.
func ParseSource(file, source string) (*ast.Program, *diagnostics.Bag) {
	p := New(source)
	prog := p.ParseProgram()

	bag := diagnostics.NewBag()
	for i, msg := range p.errors {
		tok := p.errTokens[i]
		bag.Add(diagnostics.SyntaxErrorf(tok, file, "%s", msg))
	}
	return prog, bag
}

// LSPFrontend satisfies internal/lsp's Frontend interface by delegating
// to ParseSource, without internal/parser importing internal/lsp —
// Frontend is consumed structurally, matching the seam internal/lsp's
// tests already exercise with a hand-built stub.
type LSPFrontend struct{}

func (LSPFrontend) Parse(file, source string) (*ast.Program, *diagnostics.Bag) {
	return ParseSource(file, source)
}
