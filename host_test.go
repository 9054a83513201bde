// host_test.go - Rack file reload tests

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeRackFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing rack file: %v", err)
	}
	// Force a strictly newer mtime; coarse filesystem clocks would otherwise
	// hide back-to-back writes from the poller.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("bumping mtime: %v", err)
	}
}

func TestHost_ReloadsOnMtimeChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rack.yaml")
	if err := os.WriteFile(path, []byte("modules:\n  0:\n    type: mixer\n"), 0o644); err != nil {
		t.Fatalf("writing rack file: %v", err)
	}

	h, err := NewHost(path, true)
	if err != nil {
		t.Fatalf("initial load failed: %v", err)
	}
	oldRack := h.engine.rack

	writeRackFile(t, path, "modules:\n  0:\n    type: multiplier\n")
	h.maybeReload()

	if h.engine.rack == oldRack {
		t.Fatalf("rack was not swapped after the file changed")
	}
	if _, ok := h.engine.rack.Module(0).(*Multiplier); !ok {
		t.Fatalf("module 0 is %T, expected the reloaded multiplier", h.engine.rack.Module(0))
	}
}

func TestHost_BadReloadKeepsOldRack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rack.yaml")
	if err := os.WriteFile(path, []byte("modules:\n  0:\n    type: mixer\n"), 0o644); err != nil {
		t.Fatalf("writing rack file: %v", err)
	}

	h, err := NewHost(path, true)
	if err != nil {
		t.Fatalf("initial load failed: %v", err)
	}
	oldRack := h.engine.rack

	writeRackFile(t, path, "modules:\n  0:\n    type: flanger\n")
	h.maybeReload()

	if h.engine.rack != oldRack {
		t.Fatalf("a broken config replaced the running rack")
	}
}

func TestHost_MissingFileFailsLoad(t *testing.T) {
	if _, err := NewHost(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
		t.Fatalf("expected an error for a missing rack file")
	}
}
