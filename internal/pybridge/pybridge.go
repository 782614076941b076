// Package pybridge implements the REPL↔Python TCP protocol client
// described in spec.md §6 and expanded in SPEC_FULL.md §3, grounded
// directly on Erg's DummyVM (_examples/original_source/src/dummy.rs):
// spawn a companion Python process, retry-connect to its localhost
// port every 500ms, then speak a line-oriented `load`/`exit` protocol
// over a single persistent connection with a configurable read
// timeout, cleaning up the temporary .pyc artifact on exit.
package pybridge

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
)

const retryInterval = 500 * time.Millisecond

// Config mirrors the subset of ErgConfig that DummyVM::new reads.
type Config struct {
	PyCommand      string
	PyServerTimeout time.Duration
	Quiet          bool
}

// Bridge is the REPL-side half of the protocol: one TCP connection to
// a co-resident Python server process, plus the temp artifact this
// session owns.
type Bridge struct {
	cfg     Config
	conn    net.Conn
	cmd     *exec.Cmd
	session string // uuid-derived, disambiguates concurrent REPL sessions' .pyc files
}

// Dialer abstracts net.Dial for tests; production code uses net.Dial directly.
type Dialer func(network, address string) (net.Conn, error)

// Spawn starts the companion Python process (running serverScript,
// with __PORT__ substituted) and connects to it, retrying every
// 500ms until the connection succeeds — exactly DummyVM::new's loop.
func Spawn(cfg Config, serverScript func(port int) string, dial Dialer) (*Bridge, error) {
	if dial == nil {
		dial = net.Dial
	}
	port, err := findAvailablePort()
	if err != nil {
		return nil, fmt.Errorf("pybridge: no available port: %w", err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(os.Stderr, "Starting the REPL server...")
	}
	code := serverScript(port)
	cmd := exec.Command(cfg.PyCommand, "-c", code)
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("pybridge: spawn %s: %w", cfg.PyCommand, err)
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	if !cfg.Quiet {
		fmt.Fprintln(os.Stderr, "Connecting to the REPL server...")
	}
	var conn net.Conn
	for {
		conn, err = dial("tcp", addr)
		if err == nil {
			break
		}
		if !cfg.Quiet {
			fmt.Fprintln(os.Stderr, "Retrying to connect to the REPL server...")
		}
		time.Sleep(retryInterval)
	}

	return &Bridge{cfg: cfg, conn: conn, cmd: cmd, session: uuid.NewString()}, nil
}

// SessionID is the uuid that disambiguates this REPL session's
// temporary artifact from any concurrently running session's.
func (b *Bridge) SessionID() string { return b.session }

// ArtifactName is the per-session .pyc filename this bridge produces
// and later cleans up — `o-<session>.pyc`, generalizing DummyVM's
// fixed `o.pyc` so concurrent sessions cannot collide.
func (b *Bridge) ArtifactName() string {
	return fmt.Sprintf("o-%s.pyc", b.session)
}

// Load sends the `load` command: the server executes whatever chunk
// was already dumped to this session's .pyc artifact and replies with
// either its captured stdout or the literal "[Exception] SystemExit".
func (b *Bridge) Load() (string, error) {
	return b.roundTrip("load")
}

// Exit sends the `exit` command and reads the server's shutdown
// confirmation, then removes the temporary .pyc artifact —
// DummyVM::finish's handshake and cleanup.
func (b *Bridge) Exit() error {
	reply, err := b.roundTrip("exit")
	if err != nil {
		return err
	}
	if !b.cfg.Quiet && strings.Contains(reply, "closed") {
		fmt.Fprintln(os.Stderr, "The REPL server is closed.")
	}
	_ = os.Remove(b.ArtifactName())
	if b.cmd != nil && b.cmd.Process != nil {
		_ = b.cmd.Process.Kill()
	}
	return b.conn.Close()
}

func (b *Bridge) roundTrip(command string) (string, error) {
	if b.cfg.PyServerTimeout > 0 {
		if err := b.conn.SetReadDeadline(time.Now().Add(b.cfg.PyServerTimeout)); err != nil {
			return "", fmt.Errorf("pybridge: set read deadline: %w", err)
		}
	}
	if _, err := io.WriteString(b.conn, command); err != nil {
		return "", fmt.Errorf("pybridge: write %q: %w", command, err)
	}
	buf := make([]byte, 4096)
	n, err := b.conn.Read(buf)
	if err != nil {
		return "", fmt.Errorf("pybridge: read reply: %w", err)
	}
	return string(buf[:n]), nil
}

// findAvailablePort asks the OS for an ephemeral free port by binding
// to port 0 and immediately releasing it — the Go idiom for
// find_available_port, rather than Erg's manual bind-scan loop.
func findAvailablePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
