package lsp

import (
	"fmt"
	"strings"
)

func (s *Server) handleInitialize(id interface{}, params InitializeParams) error {
	if params.RootPath != nil {
		s.rootPath = *params.RootPath
	} else if params.RootURI != nil {
		s.rootPath = strings.TrimPrefix(*params.RootURI, "file://")
	}
	return s.sendResponse(ResponseMessage{
		ID: id,
		Result: InitializeResult{
			Capabilities: ServerCapabilities{
				TextDocumentSync:   1, // full-document sync
				HoverProvider:      true,
				DefinitionProvider: true,
				ReferencesProvider: true,
			},
		},
	})
}

func moduleName(uri string) string {
	name := strings.TrimPrefix(uri, "file://")
	name = strings.TrimSuffix(name, ".fx")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (s *Server) document(uri string) *document {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[uri]
	if !ok {
		d = newDocument(uri)
		s.documents[uri] = d
	}
	return d
}

func (s *Server) handleDidOpen(params DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	d := s.document(uri)
	d.analyze(s.front, uri, moduleName(uri), params.TextDocument.Text, params.TextDocument.Version)
	return s.publishDiagnostics(d)
}

func (s *Server) handleDidChange(params DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	d := s.document(uri)
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// full-document sync: the last change event carries the whole text.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	d.analyze(s.front, uri, moduleName(uri), text, params.TextDocument.Version)
	return s.publishDiagnostics(d)
}

func (s *Server) handleDidClose(params DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()
	return nil
}

func (s *Server) publishDiagnostics(d *document) error {
	_, _, bag := d.snapshot()
	diags := []Diagnostic{}
	if bag != nil {
		for _, e := range bag.Errors() {
			diags = append(diags, Diagnostic{
				Range:    tokenRange(e.Token),
				Severity: SeverityError,
				Code:     string(e.Code),
				Message:  e.Message,
				Source:   "funxy",
			})
		}
	}
	return s.sendNotification(NotificationMessage{
		Method: "textDocument/publishDiagnostics",
		Params: PublishDiagnosticsParams{URI: d.uri, Diagnostics: diags},
	})
}

func (s *Server) handleHover(id interface{}, params HoverParams) error {
	d := s.document(params.TextDocument.URI)
	_, c, _ := d.snapshot()
	if c == nil {
		return s.sendResponse(ResponseMessage{ID: id, Result: nil})
	}
	ident, ok := identAt(c.TypeOf, params.Position.Line+1, params.Position.Character+1)
	if !ok {
		return s.sendResponse(ResponseMessage{ID: id, Result: nil})
	}
	t, ok := c.TypeOf[ident]
	if !ok {
		return s.sendResponse(ResponseMessage{ID: id, Result: nil})
	}
	return s.sendResponse(ResponseMessage{
		ID: id,
		Result: Hover{Contents: MarkupContent{
			Kind:  "plaintext",
			Value: fmt.Sprintf("%s: %s", ident.Value, t),
		}},
	})
}

func (s *Server) handleDefinition(id interface{}, params DefinitionParams) error {
	d := s.document(params.TextDocument.URI)
	_, c, _ := d.snapshot()
	if c == nil {
		return s.sendResponse(ResponseMessage{ID: id, Result: nil})
	}
	ident, ok := identAt(c.TypeOf, params.Position.Line+1, params.Position.Character+1)
	if !ok {
		return s.sendResponse(ResponseMessage{ID: id, Result: nil})
	}
	info, _, found := c.Scope.GetVar(ident.Value)
	if !found || info.DefNode == nil {
		return s.sendResponse(ResponseMessage{ID: id, Result: nil})
	}
	uri := params.TextDocument.URI
	if info.DefFile != "" {
		uri = "file://" + info.DefFile
	}
	return s.sendResponse(ResponseMessage{
		ID:     id,
		Result: Location{URI: uri, Range: tokenRange(info.DefNode.GetToken())},
	})
}

func (s *Server) handleReferences(id interface{}, params ReferenceParams) error {
	d := s.document(params.TextDocument.URI)
	_, c, _ := d.snapshot()
	if c == nil {
		return s.sendResponse(ResponseMessage{ID: id, Result: []Location{}})
	}
	ident, ok := identAt(c.TypeOf, params.Position.Line+1, params.Position.Character+1)
	if !ok {
		return s.sendResponse(ResponseMessage{ID: id, Result: []Location{}})
	}
	var locs []Location
	for _, tok := range c.Referrers[ident.Value] {
		locs = append(locs, Location{URI: params.TextDocument.URI, Range: tokenRange(tok)})
	}
	return s.sendResponse(ResponseMessage{ID: id, Result: locs})
}
