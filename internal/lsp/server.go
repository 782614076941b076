package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Server is the stdin/stdout JSON-RPC loop, grounded on the teacher's
// cmd/lsp.LanguageServer: same Content-Length framing, same
// request/notification split, but resolving hover/definition/references
// against a Frontend-produced, checker-checked document index instead
// of the teacher's own analyzer.
type Server struct {
	documents map[string]*document
	mu        sync.RWMutex
	writer    io.Writer
	reader    io.Reader
	front     Frontend
	rootPath  string
}

func NewServer(front Frontend, in io.Reader, out io.Writer) *Server {
	if out == nil {
		out = os.Stdout
	}
	if in == nil {
		in = os.Stdin
	}
	return &Server{
		documents: make(map[string]*document),
		writer:    out,
		reader:    in,
		front:     front,
	}
}

// Start runs the read loop until stdin closes or an "exit" notification
// is received. Each message is a Content-Length-prefixed JSON-RPC
// payload, exactly the framing the teacher's server.go implements.
func (s *Server) Start() {
	reader := bufio.NewReader(s.reader)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("lsp: error reading header: %v", err)
			}
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "Content-Length: ") {
			continue
		}

		contentLength, err := strconv.Atoi(strings.TrimPrefix(line, "Content-Length: "))
		if err != nil {
			log.Printf("lsp: bad Content-Length: %v", err)
			continue
		}
		for {
			sep, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.TrimRight(sep, "\r\n") == "" {
				break
			}
		}

		content := make([]byte, contentLength)
		if _, err := io.ReadFull(reader, content); err != nil {
			log.Printf("lsp: error reading body: %v", err)
			return
		}

		if err := s.handleMessage(content); err != nil {
			log.Printf("lsp: error handling message: %v", err)
		}
	}
}

type baseMessage struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func (s *Server) handleMessage(content []byte) error {
	var msg baseMessage
	if err := json.Unmarshal(content, &msg); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	if msg.ID != nil {
		return s.handleRequest(msg)
	}
	return s.handleNotification(msg)
}

func (s *Server) handleRequest(msg baseMessage) error {
	switch msg.Method {
	case "initialize":
		var params InitializeParams
		_ = json.Unmarshal(msg.Params, &params)
		return s.handleInitialize(msg.ID, params)
	case "shutdown":
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: msg.ID, Result: nil})
	case "textDocument/hover":
		var params HoverParams
		_ = json.Unmarshal(msg.Params, &params)
		return s.handleHover(msg.ID, params)
	case "textDocument/definition":
		var params DefinitionParams
		_ = json.Unmarshal(msg.Params, &params)
		return s.handleDefinition(msg.ID, params)
	case "textDocument/references":
		var params ReferenceParams
		_ = json.Unmarshal(msg.Params, &params)
		return s.handleReferences(msg.ID, params)
	default:
		return s.sendResponse(ResponseMessage{
			Jsonrpc: "2.0",
			ID:      msg.ID,
			Error:   &Error{Code: errMethodNotFound, Message: fmt.Sprintf("method not found: %s", msg.Method)},
		})
	}
}

func (s *Server) handleNotification(msg baseMessage) error {
	switch msg.Method {
	case "initialized":
		return nil
	case "textDocument/didOpen":
		var params DidOpenTextDocumentParams
		_ = json.Unmarshal(msg.Params, &params)
		return s.handleDidOpen(params)
	case "textDocument/didChange":
		var params DidChangeTextDocumentParams
		_ = json.Unmarshal(msg.Params, &params)
		return s.handleDidChange(params)
	case "textDocument/didClose":
		var params DidCloseTextDocumentParams
		_ = json.Unmarshal(msg.Params, &params)
		return s.handleDidClose(params)
	case "exit":
		os.Exit(0)
		return nil
	default:
		return nil
	}
}

func (s *Server) sendResponse(r ResponseMessage) error {
	r.Jsonrpc = "2.0"
	return s.sendMessage(r)
}

func (s *Server) sendNotification(n NotificationMessage) error {
	n.Jsonrpc = "2.0"
	return s.sendMessage(n)
}

func (s *Server) sendMessage(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n%s", len(data), data)
	return err
}
