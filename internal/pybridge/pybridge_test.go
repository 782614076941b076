package pybridge

import (
	"net"
	"os"
	"testing"
	"time"
)

// fakeServer accepts one connection and answers `load` with "ok" and
// `exit` with "closed", mimicking the Python repl_server.py protocol.
func fakeServer(t *testing.T, ln net.Listener) {
	t.Helper()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 64)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			switch string(buf[:n]) {
			case "load":
				conn.Write([]byte("ok"))
			case "exit":
				conn.Write([]byte("closed"))
				return
			}
		}
	}()
}

func TestBridgeLoadAndExit(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	fakeServer(t, ln)

	var conn net.Conn
	dial := func(network, address string) (net.Conn, error) {
		c, err := net.Dial(network, ln.Addr().String())
		conn = c
		return c, err
	}

	b := &Bridge{cfg: Config{Quiet: true, PyServerTimeout: 2 * time.Second}, session: "test-session"}
	c, err := dial("tcp", "")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	b.conn = c
	_ = conn

	out, err := b.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out != "ok" {
		t.Fatalf("expected %q, got %q", "ok", out)
	}

	artifact := b.ArtifactName()
	if artifact != "o-test-session.pyc" {
		t.Fatalf("unexpected artifact name %q", artifact)
	}
	f, err := os.Create(artifact)
	if err != nil {
		t.Fatalf("create artifact: %v", err)
	}
	f.Close()

	if err := b.Exit(); err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if _, err := os.Stat(artifact); !os.IsNotExist(err) {
		t.Fatalf("expected artifact %q to be removed on Exit", artifact)
	}
}

func TestFindAvailablePortReturnsUsablePort(t *testing.T) {
	port, err := findAvailablePort()
	if err != nil {
		t.Fatalf("findAvailablePort: %v", err)
	}
	if port <= 0 {
		t.Fatalf("expected a positive port, got %d", port)
	}
}
