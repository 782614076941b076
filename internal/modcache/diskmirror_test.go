package modcache

import "testing"

func TestDiskMirrorSnapshotRoundTrip(t *testing.T) {
	Reset()
	c := Get()
	c.LoadOrCreate("<main>")
	c.LoadOrCreate("math")

	mirror, err := OpenDiskMirror(":memory:")
	if err != nil {
		t.Fatalf("OpenDiskMirror: %v", err)
	}
	defer mirror.Close()

	if err := mirror.Snapshot(c); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	paths, err := mirror.ReadModules()
	if err != nil {
		t.Fatalf("ReadModules: %v", err)
	}
	want := map[string]bool{"<builtin>": true, "<main>": true, "math": true}
	if len(paths) != len(want) {
		t.Fatalf("expected %d modules, got %d: %v", len(want), len(paths), paths)
	}
	for _, p := range paths {
		if !want[p] {
			t.Fatalf("unexpected module path %q in mirror", p)
		}
	}
}
