// Command funxy is the CLI entry point: it lexes, parses, and type
// checks source given on the command line or read from a file, and
// drops into an interactive REPL when given neither. Argument parsing
// follows the teacher's cmd/funxy/main.go idiom of scanning os.Args by
// hand rather than reaching for the flag package, since the surface
// mixes single-dash short flags, double-dash long flags, and bare
// positional arguments in ways flag.FlagSet does not model well.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/funvibe/funxy-types/internal/ast"
	"github.com/funvibe/funxy-types/internal/checker"
	"github.com/funvibe/funxy-types/internal/config"
	"github.com/funvibe/funxy-types/internal/diagnostics"
	"github.com/funvibe/funxy-types/internal/lexer"
	"github.com/funvibe/funxy-types/internal/lsp"
	"github.com/funvibe/funxy-types/internal/modcache"
	"github.com/funvibe/funxy-types/internal/parser"
	"github.com/funvibe/funxy-types/internal/repl"
	"github.com/funvibe/funxy-types/internal/symbols"
	"github.com/funvibe/funxy-types/internal/token"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options holds every flag spec.md §6 names. Zero values mean "not
// given"; defaulting happens at the call site that needs a default,
// not here. For the numeric flags an explicit 0 and an omitted flag
// are indistinguishable; an empty mode means "omitted".
type options struct {
	eval            string
	module          string
	mode            string
	verbose         int
	optLevel        int
	pythonVersion   uint64
	pyServerTimeout uint64
	dumpAsPyc       bool
	help            bool
	version         bool
	grpcAddr        string
}

var modes = map[string]bool{
	"lex": true, "parse": true, "lower": true, "check": true,
	"compile": true, "exec": true, "read": true,
}

func run(args []string, in io.Reader, out, errw io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(errw, "internal error: %v\n", r)
			code = 1
		}
	}()

	if len(args) >= 1 && args[0] == "lsp" {
		opts, positional, err := parseArgs(args[1:])
		if err != nil {
			fmt.Fprintln(errw, err)
			return 1
		}
		return runLSP(opts, positional, in, out, errw)
	}

	opts, positional, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(errw, err)
		return 1
	}

	if opts.help {
		printUsage(out)
		return 0
	}
	if opts.version {
		fmt.Fprintln(out, config.Version)
		return 0
	}

	switch {
	case opts.eval != "":
		return runSource(opts, "<string>", opts.eval, out, errw)
	case opts.module != "":
		path := opts.module
		if !config.HasSourceExt(path) {
			path += config.SourceFileExt
		}
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(errw, "funxy: %s\n", err)
			return 1
		}
		return runSource(opts, path, string(src), out, errw)
	case len(positional) > 0:
		path := positional[0]
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(errw, "funxy: %s\n", err)
			return 1
		}
		return runSource(opts, path, string(src), out, errw)
	default:
		return runREPL(opts, in, out, errw)
	}
}

func parseArgs(args []string) (*options, []string, error) {
	opts := &options{}
	var positional []string

	next := func(i *int, flag string) (string, error) {
		*i++
		if *i >= len(args) {
			return "", fmt.Errorf("funxy: %s requires a value", flag)
		}
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-c":
			v, err := next(&i, arg)
			if err != nil {
				return nil, nil, err
			}
			opts.eval = v
		case "-m":
			v, err := next(&i, arg)
			if err != nil {
				return nil, nil, err
			}
			opts.module = v
		case "--help", "-?", "-h":
			opts.help = true
		case "--version", "-V":
			opts.version = true
		case "--verbose":
			v, err := next(&i, arg)
			if err != nil {
				return nil, nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 || n > 2 {
				return nil, nil, fmt.Errorf("funxy: --verbose must be 0, 1, or 2")
			}
			opts.verbose = n
		case "--opt-level", "-o":
			v, err := next(&i, arg)
			if err != nil {
				return nil, nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 || n > 3 {
				return nil, nil, fmt.Errorf("funxy: --opt-level must be 0-3")
			}
			opts.optLevel = n
		case "--python-version", "-p":
			v, err := next(&i, arg)
			if err != nil {
				return nil, nil, err
			}
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return nil, nil, fmt.Errorf("funxy: --python-version must be a u32")
			}
			opts.pythonVersion = n
		case "--py-server-timeout":
			v, err := next(&i, arg)
			if err != nil {
				return nil, nil, err
			}
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("funxy: --py-server-timeout must be a u64")
			}
			opts.pyServerTimeout = n
		case "--dump-as-pyc":
			opts.dumpAsPyc = true
		case "--grpc-addr":
			v, err := next(&i, arg)
			if err != nil {
				return nil, nil, err
			}
			opts.grpcAddr = v
		case "--mode":
			v, err := next(&i, arg)
			if err != nil {
				return nil, nil, err
			}
			if !modes[v] {
				return nil, nil, fmt.Errorf("funxy: unknown --mode %q", v)
			}
			opts.mode = v
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, nil, fmt.Errorf("funxy: unknown flag %q", arg)
			}
			positional = append(positional, arg)
		}
	}
	return opts, positional, nil
}

func printUsage(out io.Writer) {
	fmt.Fprintf(out, `funxy %s

Usage:
  funxy [file]
  funxy -c <source>
  funxy -m <module>
  funxy lsp [file] [--grpc-addr <addr>]

Flags:
  -c <str>                 evaluate a string of source
  -m <module>               load and check a named module
  --mode <stage>            lex|parse|lower|check|compile|exec|read
  --verbose 0|1|2           diagnostic verbosity
  --opt-level, -o 0-3       optimization level (validated; no effect in this build)
  --python-version, -p N    target Python version (validated; no effect in this build)
  --py-server-timeout N     Python bridge timeout in seconds (validated; no effect in this build)
  --dump-as-pyc             dump the compiled artifact (accepted; no effect in this build)
  --grpc-addr <addr>        also expose the symbol index over gRPC (lsp mode)
  --help, -?, -h            show this message
  --version, -V             show the version
`, config.Version)
}

// runSource drives one file's worth of source through as much of the
// pipeline as its --mode asks for, writing diagnostics to errw and
// returning the process exit code (0 success, 1 compilation/runtime
// error) per spec.md §6.
func runSource(opts *options, file, src string, out, errw io.Writer) int {
	mode := opts.mode
	if mode == "" {
		mode = "check"
	}

	if mode == "lex" {
		return runLex(file, src, out)
	}

	prog, bag := parser.ParseSource(file, src)
	if mode == "parse" {
		return runParseDump(prog, bag, out, errw)
	}

	cache := modcache.Get()
	entry, _ := cache.LoadOrCreate(file)
	c := checker.New(entry.Scope, bag, file)
	c.Check(prog)
	cache.SetProgram(entry.ID, prog)

	reportDiagnostics(bag, file, opts.verbose, errw)
	if bag.HasErrors() {
		return 1
	}

	switch mode {
	case "lower", "check":
		if opts.verbose > 0 {
			fmt.Fprintf(out, "%s: %d declarations checked, %d expressions typed\n", file, len(prog.Statements), len(c.TypeOf))
		}
		return 0
	case "read":
		return runRead(file, cache, out, errw)
	case "compile", "exec":
		// No backend in this workspace turns a checked Program into
		// Python bytecode: internal/pybridge.Bridge.Load only loads an
		// artifact a prior, external compilation already produced, it
		// never produces one itself. Reporting success
		// here would claim an executable was built when none was.
		fmt.Fprintf(errw, "funxy: --mode %s requires a bytecode-compile backend that is not built into this binary\n", mode)
		return 1
	default:
		return 0
	}
}

func runLex(file, src string, out io.Writer) int {
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		fmt.Fprintf(out, "%d:%d\t%s\t%q\n", tok.Line, tok.Column, tok.Type, tok.Lexeme)
		if tok.Type == token.EOF {
			break
		}
	}
	return 0
}

func runParseDump(prog *ast.Program, bag *diagnostics.Bag, out, errw io.Writer) int {
	for _, stmt := range prog.Statements {
		fmt.Fprintf(out, "%T\n", stmt)
	}
	reportDiagnostics(bag, "", 1, errw)
	if bag.HasErrors() {
		return 1
	}
	return 0
}

func runRead(file string, cache *modcache.Cache, out, errw io.Writer) int {
	mirrorPath := file + ".modcache.db"
	mirror, err := modcache.OpenDiskMirror(mirrorPath)
	if err != nil {
		fmt.Fprintf(errw, "funxy: %s\n", err)
		return 1
	}
	defer mirror.Close()

	if err := mirror.Snapshot(cache); err != nil {
		fmt.Fprintf(errw, "funxy: %s\n", err)
		return 1
	}
	paths, err := mirror.ReadModules()
	if err != nil {
		fmt.Fprintf(errw, "funxy: %s\n", err)
		return 1
	}
	doc, err := yaml.Marshal(map[string]any{"modules": paths})
	if err != nil {
		fmt.Fprintf(errw, "funxy: %s\n", err)
		return 1
	}
	out.Write(doc)
	return 0
}

func reportDiagnostics(bag *diagnostics.Bag, file string, verbose int, errw io.Writer) {
	for _, d := range bag.Errors() {
		fmt.Fprintln(errw, d.Error())
		if verbose >= 2 && d.Hint != "" {
			fmt.Fprintf(errw, "  hint: %s\n", d.Hint)
		}
	}
}

// runLSP runs the stdio JSON-RPC server, and — when --grpc-addr is
// given — also starts the gRPC symbol-index service alongside it,
// answering Lookup requests against whichever document uri is named
// (the positional file argument, if any; the in-memory index still
// fills in as documents are opened over stdio). Both servers share the
// same *lsp.Server, so a gRPC client sees the same index an editor
// connected over stdio would.
func runLSP(opts *options, positional []string, in io.Reader, out, errw io.Writer) int {
	server := lsp.NewServer(parser.LSPFrontend{}, in, out)

	if opts.grpcAddr != "" {
		uri := ""
		if len(positional) > 0 {
			uri = positional[0]
		}
		ix := lsp.NewIndexServer(server, uri)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := ix.Serve(ctx, opts.grpcAddr); err != nil {
				fmt.Fprintf(errw, "funxy: grpc index server: %s\n", err)
			}
		}()
	}

	server.Start()
	return 0
}

// checkOnlyEvaluator backs the REPL when no Python bridge is
// available: every submission is parsed and checked against a single
// persistent module scope, and Eval reports either the type of the
// last expression or the checker's diagnostics. It does not execute
// anything — see the --mode exec note in runSource for why there is
// no code in this workspace that turns a checked Program into a
// running value.
type checkOnlyEvaluator struct {
	scope *symbols.Context
	file  string
}

func newCheckOnlyEvaluator() *checkOnlyEvaluator {
	return &checkOnlyEvaluator{scope: symbols.NewModuleContext("<repl>"), file: "<repl>"}
}

func (e *checkOnlyEvaluator) Eval(src string) (string, error) {
	prog, bag := parser.ParseSource(e.file, src)
	c := checker.New(e.scope, bag, e.file)
	c.Check(prog)
	if bag.HasErrors() {
		var b strings.Builder
		for _, d := range bag.Errors() {
			b.WriteString(d.Error())
			b.WriteByte('\n')
		}
		return "", fmt.Errorf("%s", strings.TrimRight(b.String(), "\n"))
	}
	if len(prog.Statements) == 0 {
		return "", nil
	}
	last, ok := prog.Statements[len(prog.Statements)-1].(*ast.ExpressionStatement)
	if !ok {
		return "", nil
	}
	t, ok := c.TypeOf[last.Expression]
	if !ok {
		return "", nil
	}
	return t.String(), nil
}

func runREPL(opts *options, in io.Reader, out, errw io.Writer) int {
	interactive := isatty.IsTerminal(os.Stdin.Fd())
	eval := newCheckOnlyEvaluator()
	driver := repl.NewDriver("funxy", in, out, eval)
	if interactive {
		fmt.Fprintln(out, driver.StartMessage())
	}
	driver.Run()
	return 0
}
