// Package repl implements the C9 block assembler: a small state
// machine that turns a stream of REPL input lines into complete,
// compilable chunks. Grounded on Erg's Runnable::run loop and
// expect_block heuristic (erg_common/traits.rs) — the line-at-a-time
// read/classify/accumulate/submit shape is kept, generalized from
// Erg's single boolean heuristic into the block-kind stack spec.md
// §4.8 describes (Main/Block/MultiLineStr/Error, decorator frames).
package repl

import "strings"

// BlockKind names one frame of the assembler's block stack.
type BlockKind int

const (
	Main BlockKind = iota
	Block
	MultiLineStr
	Decorator
	ErrorKind
)

// Assembler holds the state described in spec.md §4.8: a stack of
// block kinds with Main always at the bottom, a code buffer, and the
// running indent depth.
type Assembler struct {
	stack []BlockKind
	buf   strings.Builder
	// inStr tracks whether we are inside an unterminated """ block,
	// independent of the stack entry so a single line can both close
	// a MultiLineStr frame and still open a new Block frame.
	inStr bool
}

// New returns an assembler with Main at the bottom of its stack.
func New() *Assembler {
	return &Assembler{stack: []BlockKind{Main}}
}

// Depth is the current stack depth (>= 1; 1 means only Main is open).
func (a *Assembler) Depth() int { return len(a.stack) }

// IndentWidth is spec.md §4.8's indent rule: 4*(depth-1), or
// 4*(depth-2) when a decorator frame is present on the stack (a
// decorator frame doesn't itself indent the body it precedes).
func (a *Assembler) IndentWidth() int {
	depth := a.Depth()
	for _, k := range a.stack {
		if k == Decorator {
			return 4 * (depth - 2)
		}
	}
	return 4 * (depth - 1)
}

// Submission is what Feed returns once a chunk is ready to hand to
// the rest of the pipeline.
type Submission struct {
	Source string
	Ready  bool
}

// stripComment removes a trailing `#`-comment before classification,
// matching Erg's loop, which always strips before testing expect_block.
// A `#` inside an in-progress MultiLineStr is not a comment marker.
func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// opensBlock implements spec.md §4.8's trailing-token table: a line
// ending in one of these tokens (after comment-stripping and
// trimming trailing whitespace) opens a new block.
func opensBlock(trimmed string) bool {
	for _, suffix := range []string{"do!:", "do:", "::", "->", "=>", "=", ":", "."} {
		if strings.HasSuffix(trimmed, suffix) {
			return true
		}
	}
	return false
}

func countQuotes(line string) int {
	return strings.Count(line, `"""`)
}

// Feed consumes one raw input line and returns either an incomplete
// state (Ready == false, caller should print Prompt and read another
// line) or a complete submission (Ready == true, caller should
// evaluate Source then call Reset).
func (a *Assembler) Feed(line string) Submission {
	if a.inStr {
		a.buf.WriteString(line)
		a.buf.WriteByte('\n')
		if countQuotes(line)%2 == 1 {
			a.inStr = false
			if len(a.stack) > 0 && a.stack[len(a.stack)-1] == MultiLineStr {
				a.stack = a.stack[:len(a.stack)-1]
			}
		}
		return a.pendingOrEmpty(line)
	}

	classified := stripComment(line)
	trimmed := strings.TrimRight(classified, " \t")

	if trimmed == "" {
		return a.handleEmptyLine()
	}

	a.buf.WriteString(line)
	a.buf.WriteByte('\n')

	if countQuotes(trimmed)%2 == 1 {
		a.inStr = true
		a.stack = append(a.stack, MultiLineStr)
		return Submission{Ready: false}
	}

	if strings.HasPrefix(strings.TrimLeft(line, " \t"), "@") {
		a.stack = append(a.stack, Decorator)
		return Submission{Ready: false}
	}

	indented := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
	switch {
	case opensBlock(trimmed):
		// Always opens a new frame, whatever the current depth — this
		// is how nested blocks (a loop inside a loop) grow the stack.
		a.stack = append(a.stack, Block)
		return Submission{Ready: false}
	case a.Depth() == 1 && indented:
		// Continuation by indentation alone, with no explicit opening
		// token on the previous line — Erg's `line.starts_with(' ')`
		// branch in traits.rs, generalized into one frame push.
		a.stack = append(a.stack, Block)
		return Submission{Ready: false}
	}

	// Otherwise the line is just more body inside whatever block is
	// already open (it neither opens nor closes a frame itself).
	if a.Depth() == 1 {
		return a.submit()
	}
	return Submission{Ready: false}
}

func (a *Assembler) pendingOrEmpty(line string) Submission {
	if strings.TrimSpace(line) == "" && !a.inStr {
		return a.handleEmptyLine()
	}
	return Submission{Ready: false}
}

// handleEmptyLine implements spec.md §4.8's empty-line semantics: pop
// one frame when depth > 1; once that leaves only Main on the stack
// (depth == 1, whether immediately or after the pop), submit the
// accumulated buffer for evaluation, clear, and reset.
func (a *Assembler) handleEmptyLine() Submission {
	if a.Depth() > 1 {
		a.stack = a.stack[:len(a.stack)-1]
	}
	if a.Depth() == 1 {
		return a.submit()
	}
	return Submission{Ready: false}
}

func (a *Assembler) submit() Submission {
	src := a.buf.String()
	a.Reset()
	return Submission{Source: src, Ready: true}
}

// Fail implements the Error-kind reset: a syntax/indent error resets
// the stack to [Main] and flushes the buffer, recovering to depth 1.
func (a *Assembler) Fail() {
	a.Reset()
}

// Reset clears the buffer and collapses the stack back to [Main].
func (a *Assembler) Reset() {
	a.stack = []BlockKind{Main}
	a.buf.Reset()
	a.inStr = false
}
