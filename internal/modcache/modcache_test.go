package modcache

import "testing"

func TestBuiltinAndMainIDAllocation(t *testing.T) {
	Reset()
	c := Get()

	builtin, ok := c.GetByID(BuiltinModuleID)
	if !ok || builtin.Path != "<builtin>" {
		t.Fatalf("expected builtin entry at id 0, got %+v", builtin)
	}

	main, existed := c.LoadOrCreate("<main>")
	if existed {
		t.Fatalf("expected the main module to be freshly created")
	}
	if main.ID != MainModuleID {
		t.Fatalf("expected main module id %d, got %d", MainModuleID, main.ID)
	}

	other, existed := c.LoadOrCreate("math")
	if existed {
		t.Fatalf("expected a fresh entry for a new import path")
	}
	if other.ID <= MainModuleID {
		t.Fatalf("expected subsequent imports to get ids after main, got %d", other.ID)
	}
}

func TestLoadOrCreateIsIdempotentPerPath(t *testing.T) {
	Reset()
	c := Get()
	first, _ := c.LoadOrCreate("math")
	second, existed := c.LoadOrCreate("math")
	if !existed {
		t.Fatalf("expected the second load of the same path to report reuse")
	}
	if first.ID != second.ID || first.Scope != second.Scope {
		t.Fatalf("expected the same entry to be returned for the same path")
	}
}

func TestSessionIDsAreUniquePerCall(t *testing.T) {
	Reset()
	c := Get()
	a := c.NewSession("<main>")
	b := c.NewSession("<main>")
	if a == b {
		t.Fatalf("expected distinct session ids, got %q twice", a)
	}
	path, ok := c.SessionModule(a)
	if !ok || path != "<main>" {
		t.Fatalf("expected session %q to map back to <main>, got %q, %v", a, path, ok)
	}
}
