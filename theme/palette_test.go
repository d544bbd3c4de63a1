package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.gpl")
	gpl := "GIMP Palette\nName: two\nColumns: 2\n# comment\n  0   0   0\tblack\n255 255 255\twhite\n"
	if err := os.WriteFile(path, []byte(gpl), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadGPL(path)
	if err != nil {
		t.Fatalf("LoadGPL: %v", err)
	}
	if p.Name != "two" || len(p.Colors) != 2 {
		t.Fatalf("unexpected palette %+v", p)
	}
	if got := p.Lookup(0.5); got != (RGB{127, 127, 127}) {
		t.Errorf("expected mid grey, got %v", got)
	}
}

func TestLoadGPLTooFewColors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.gpl")
	if err := os.WriteFile(path, []byte("GIMP Palette\n1 2 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGPL(path); err == nil {
		t.Fatal("expected error for single-color palette")
	}
}

func TestLookupClamps(t *testing.T) {
	p := Default()
	if p.Lookup(-1) != p.Colors[0] {
		t.Error("expected first color below 0")
	}
	if p.Lookup(2) != p.Colors[len(p.Colors)-1] {
		t.Error("expected last color above 1")
	}
}

func TestLoadOrDefault(t *testing.T) {
	p, err := LoadOrDefault("")
	if err != nil || p.Name != "stompbox" {
		t.Fatalf("expected built-in palette, got %v %v", p, err)
	}
}
