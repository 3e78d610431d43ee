package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	opts := Default()
	if !opts.Output.Color {
		t.Error("Default() should enable color")
	}
	if len(opts.Archive) != 0 {
		t.Error("Default() should not restrict any archive codec")
	}
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load of a missing file returned an error: %v", err)
	}
	if !reflect.DeepEqual(opts, Default()) {
		t.Errorf("Load of a missing file should yield Default(), got %+v", opts)
	}
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	opts, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned an error: %v", err)
	}
	if !reflect.DeepEqual(opts, Default()) {
		t.Errorf("Load(\"\") should yield Default(), got %+v", opts)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.yaml")
	contents := `
archive:
  - gz
fileNameOverride: "^custom\\.log$"
output:
  color: false
  width: 120
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(opts.Archive) != 1 || opts.Archive[0] != "gz" {
		t.Errorf("Archive = %v, want [gz]", opts.Archive)
	}
	if opts.FileNameOverride != `^custom\.log$` {
		t.Errorf("FileNameOverride = %q", opts.FileNameOverride)
	}
	if opts.Output.Color {
		t.Error("Output.Color should be false")
	}
	if opts.Output.Width != 120 {
		t.Errorf("Output.Width = %d, want 120", opts.Output.Width)
	}
}

func TestCodecEnabled(t *testing.T) {
	all := Default()
	if !all.CodecEnabled("gz") || !all.CodecEnabled("7z") {
		t.Error("an empty allow-list should enable every codec")
	}

	restricted := Options{Archive: []string{"gz"}}
	if !restricted.CodecEnabled("gz") {
		t.Error("gz should be enabled")
	}
	if restricted.CodecEnabled("7z") {
		t.Error("7z should be disabled by an allow-list that omits it")
	}
}
