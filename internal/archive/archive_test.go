package archive

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func TestRecognized(t *testing.T) {
	cases := map[string]bool{
		"comlib.003.log.gz":  true,
		"comlib.003.log.zst": true,
		"bundle.7z":          true,
		"comlib.003.log":     false,
		"":                   false,
	}
	for name, want := range cases {
		if got := Recognized(name); got != want {
			t.Errorf("Recognized(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestStripCodecExt(t *testing.T) {
	if got := StripCodecExt("comlib.003.log.gz"); got != "comlib.003.log" {
		t.Errorf("StripCodecExt = %q, want comlib.003.log", got)
	}
	if got := StripCodecExt("comlib.003.log"); got != "comlib.003.log" {
		t.Errorf("StripCodecExt of a plain name changed it: %q", got)
	}
}

func TestExpandGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "comlib.003.log.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	want := "2024-03-11 10:22:05.118 42 |INFO |-1|accounts: login|hello\n"
	if _, err := gz.Write([]byte(want)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := Expand(path)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Path != filepath.Join(dir, "comlib.003.log") {
		t.Errorf("entry path = %q", entries[0].Path)
	}
	if string(entries[0].Data) != want {
		t.Errorf("entry data = %q, want %q", entries[0].Data, want)
	}
}
