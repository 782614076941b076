package lsp

import (
	"sync"

	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/checker"
	"github.com/funvibe/funxy-types/internal/diagnostics"
	"github.com/funvibe/funxy-types/internal/symbols"
)

// Frontend turns source text into a Program the checker can walk.
// internal/lsp depends on this as an interface rather than a concrete
// lexer/parser pair so the server package stays buildable and testable
// against hand-built ASTs independent of the front end that eventually
// supplies one.
type Frontend interface {
	Parse(file, source string) (*ast.Program, *diagnostics.Bag)
}

// document is the cached state for one open text document: its last
// known text plus the most recent analysis (parse diagnostics folded
// together with check diagnostics, and the checker that produced the
// typed-AST index hover/definition/references read from).
type document struct {
	mu sync.RWMutex

	uri     string
	version int
	text    string

	program *ast.Program
	scope   *symbols.Context
	check   *checker.Checker
	bag     *diagnostics.Bag
}

func newDocument(uri string) *document {
	return &document{uri: uri}
}

// analyze parses and type-checks text, replacing the document's cached
// state. moduleName is derived from the URI so each document gets its
// own fresh symbols.Context rather than colliding with another open
// document's declarations.
func (d *document) analyze(front Frontend, uri, moduleName, text string, version int) {
	bag := diagnostics.NewBag()
	prog, parseBag := front.Parse(uri, text)
	if parseBag != nil {
		bag.Merge(parseBag)
	}

	scope := symbols.NewModuleContext(moduleName)
	var c *checker.Checker
	if prog != nil {
		c = checker.New(scope, bag, uri)
		c.Check(prog)
	}

	d.mu.Lock()
	d.uri = uri
	d.version = version
	d.text = text
	d.program = prog
	d.scope = scope
	d.check = c
	d.bag = bag
	d.mu.Unlock()
}

func (d *document) snapshot() (prog *ast.Program, c *checker.Checker, bag *diagnostics.Bag) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.program, d.check, d.bag
}
