package lsp

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/diagnostics"
	"github.com/funvibe/funxy-types/internal/token"
)

// stubFrontend recognizes exactly one line of source, "id x = x", and
// builds the matching hand-built AST directly — internal/lsp has no
// dependency on a real lexer/parser pair, so its tests exercise the
// Frontend seam the same way internal/checker's tests exercise the
// checker directly against hand-built ASTs.
type stubFrontend struct{}

func tok(lexeme string, line, col int) token.Token {
	return token.Token{Lexeme: lexeme, Line: line, Column: col}
}

func (stubFrontend) Parse(file, source string) (*ast.Program, *diagnostics.Bag) {
	if !strings.Contains(source, "id x = x") {
		return &ast.Program{}, diagnostics.NewBag()
	}
	fd := &ast.FunctionDeclaration{
		Token: tok("id", 1, 1),
		Name:  &ast.Identifier{Token: tok("id", 1, 1), Value: "id"},
		Params: []*ast.Param{
			{Name: &ast.Identifier{Token: tok("x", 1, 4), Value: "x"}},
		},
		Body: &ast.Identifier{Token: tok("x", 1, 8), Value: "x"},
	}
	return &ast.Program{Statements: []ast.Statement{fd}}, diagnostics.NewBag()
}

// lastFramedMessage strips the Content-Length header off the final
// message written to buf and unmarshals its JSON body into v.
func lastFramedMessage(t *testing.T, buf *bytes.Buffer, v interface{}) {
	t.Helper()
	raw := buf.String()
	parts := strings.Split(raw, "\r\n\r\n")
	body := parts[len(parts)-1]
	if err := json.Unmarshal([]byte(body), v); err != nil {
		t.Fatalf("unmarshal framed message %q: %v", body, err)
	}
}

func TestDidOpenThenHoverReturnsResultForParameter(t *testing.T) {
	var out bytes.Buffer
	srv := NewServer(stubFrontend{}, nil, &out)

	if err := srv.handleDidOpen(DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: "file:///m.fx", LanguageID: "funxy", Version: 1, Text: "id x = x"},
	}); err != nil {
		t.Fatalf("handleDidOpen: %v", err)
	}

	d := srv.document("file:///m.fx")
	_, c, bag := d.snapshot()
	if c == nil {
		t.Fatalf("expected a checker to have run")
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Errors())
	}

	out.Reset()
	if err := srv.handleHover(float64(1), HoverParams{
		TextDocument: TextDocumentIdentifier{URI: "file:///m.fx"},
		Position:     Position{Line: 0, Character: 7}, // the second "x", 0-based
	}); err != nil {
		t.Fatalf("handleHover: %v", err)
	}

	var resp ResponseMessage
	lastFramedMessage(t, &out, &resp)
	if resp.Result == nil {
		t.Fatalf("expected a hover result for the bound parameter x")
	}
}

func TestDidOpenRegistersDeclaredName(t *testing.T) {
	srv := NewServer(stubFrontend{}, nil, &bytes.Buffer{})
	if err := srv.handleDidOpen(DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: "file:///m.fx", Version: 1, Text: "id x = x"},
	}); err != nil {
		t.Fatalf("handleDidOpen: %v", err)
	}

	d := srv.document("file:///m.fx")
	_, c, _ := d.snapshot()
	if c == nil {
		t.Fatalf("expected a checker to have run")
	}
	if _, _, ok := c.Scope.GetVar("id"); !ok {
		t.Fatalf("expected id to be registered in document scope")
	}
}

func TestContentLengthFramingRoundTrips(t *testing.T) {
	var out bytes.Buffer
	srv := NewServer(stubFrontend{}, nil, &out)

	if err := srv.sendNotification(NotificationMessage{
		Method: "textDocument/publishDiagnostics",
		Params: PublishDiagnosticsParams{URI: "file:///m.fx"},
	}); err != nil {
		t.Fatalf("sendNotification: %v", err)
	}

	raw := out.String()
	if !strings.HasPrefix(raw, "Content-Length: ") {
		t.Fatalf("expected Content-Length header, got %q", raw)
	}
	headerEnd := strings.Index(raw, "\r\n\r\n")
	if headerEnd < 0 {
		t.Fatalf("expected header/body separator in %q", raw)
	}
	declared, err := strconv.Atoi(strings.TrimPrefix(raw[:headerEnd], "Content-Length: "))
	if err != nil {
		t.Fatalf("parse Content-Length: %v", err)
	}
	body := raw[headerEnd+4:]
	if len(body) != declared {
		t.Fatalf("declared length %d does not match body length %d", declared, len(body))
	}
}
