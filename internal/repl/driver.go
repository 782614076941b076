package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Evaluator is the capability the driver needs from the rest of the
// pipeline: evaluate one complete chunk of source, returning the
// captured output or an error. internal/checker (via internal/pybridge
// for the actual Python handoff) implements this in the full driver;
// tests substitute a fake.
type Evaluator interface {
	Eval(src string) (string, error)
}

// Driver wires an Assembler to an input/output stream and an
// Evaluator, reproducing Erg's Runnable::run REPL loop (traits.rs)
// generalized to the block-kind stack of spec.md §4.8.
type Driver struct {
	Name  string // used in the start message, e.g. "funxy interpreter"
	Out   io.Writer
	In    *bufio.Scanner
	Eval  Evaluator
	Quiet bool // suppress the start message and the prompts

	asm *Assembler
}

func NewDriver(name string, in io.Reader, out io.Writer, eval Evaluator) *Driver {
	return &Driver{Name: name, Out: out, In: bufio.NewScanner(in), Eval: eval, asm: New()}
}

// Ps1/Ps2 return the REPL prompts, grounded on Runnable::ps1/ps2 in
// traits.rs. Both are fixed strings; the Driver has no field to change
// them.
func (d *Driver) Ps1() string { return ">>> " }
func (d *Driver) Ps2() string { return "... " }

func (d *Driver) StartMessage() string {
	return fmt.Sprintf("%s\n", d.Name)
}

// interactive reports whether prompts should be printed: only when
// out is a terminal, checked with go-isatty. Stdin is not examined
// here; cmd/funxy checks stdin when it decides whether to start the REPL.
func interactive(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run drives the REPL loop until `:quit`/`:exit` or EOF (Ctrl-Z/Ctrl-D).
// It honors spec.md §7's SystemExit propagation: a SystemExit error
// from Eval terminates only the REPL, not the host process' caller.
func (d *Driver) Run() {
	quiet := d.Quiet || !interactive(d.Out)
	if !quiet {
		fmt.Fprint(d.Out, d.StartMessage())
	}
	d.printPrompt(quiet)
	for d.In.Scan() {
		line := d.In.Text()
		if line == ":quit" || line == ":exit" {
			return
		}
		sub := d.asm.Feed(line)
		if !sub.Ready {
			d.printPrompt(quiet)
			continue
		}
		out, err := d.Eval.Eval(sub.Source)
		if err != nil {
			if IsSystemExit(err) {
				return
			}
			fmt.Fprintf(os.Stderr, "%s\n", err)
			d.asm.Fail()
		} else if out != "" {
			fmt.Fprintf(d.Out, "%s\n", out)
		}
		d.printPrompt(quiet)
	}
}

func (d *Driver) printPrompt(quiet bool) {
	if quiet {
		return
	}
	if d.asm.Depth() > 1 {
		fmt.Fprint(d.Out, d.Ps2())
	} else {
		fmt.Fprint(d.Out, d.Ps1())
	}
}

// SystemExitError marks an evaluation error that should terminate the
// REPL cleanly (spec.md §7: "SystemExit bubbles out of REPL
// evaluation and terminates only the REPL, not the server").
type SystemExitError struct{ Message string }

func (e *SystemExitError) Error() string { return e.Message }

func IsSystemExit(err error) bool {
	_, ok := err.(*SystemExitError)
	return ok
}
