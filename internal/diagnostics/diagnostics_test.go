package diagnostics

import "testing"

func TestBagCollectsMultipleErrors(t *testing.T) {
	bag := NewBag()
	bag.Add(&DiagnosticError{Code: NameError, Message: "a"})
	bag.Add(&DiagnosticError{Code: TypeError, Message: "b"})
	if !bag.HasErrors() {
		t.Fatalf("expected HasErrors to be true")
	}
	if len(bag.Errors()) != 2 {
		t.Fatalf("expected 2 batched errors, got %d", len(bag.Errors()))
	}
	if bag.Fatal() != nil {
		t.Fatalf("expected no fatal error in a non-fatal batch")
	}
}

func TestInternalInvariantViolationIsFatal(t *testing.T) {
	bag := NewBag()
	bag.Add(&DiagnosticError{Code: NameError, Message: "a"})
	fatal := &DiagnosticError{Code: InternalInvariantViolation, Message: "push_or_init_tyvar collision"}
	bag.Add(fatal)
	if bag.Fatal() != fatal {
		t.Fatalf("expected the InternalInvariantViolation to be recorded as fatal")
	}
}

func TestMergeAggregatesAcrossFiles(t *testing.T) {
	a := NewBag()
	a.Add(&DiagnosticError{Code: SyntaxError, Message: "x"})
	b := NewBag()
	b.Add(&DiagnosticError{Code: SyntaxError, Message: "y"})
	a.Merge(b)
	if len(a.Errors()) != 2 {
		t.Fatalf("expected merged bag to contain both errors, got %d", len(a.Errors()))
	}
}
