package linestore

import (
	"testing"

	"github.com/loglens/corelog/internal/fileset"
	"github.com/loglens/corelog/internal/flavor"
)

const comlibFixture = "" +
	"2024-03-11 10:22:05.100 1 |INFO |-1|COMLib.Worker: run | starting up | step=1;\n" +
	"2024-03-11 10:22:05.110 1 |ERROR|-1|COMLib.Worker: run | crashed\n" +
	"stack frame #0 in doWork()\n" +
	"stack frame #1 in main()\n" +
	"2024-03-11 10:22:05.120 1 |INFO |-1|COMLib.Worker: run | recovered | step=2;\n"

func TestBuildFoldsContinuationLines(t *testing.T) {
	set := &fileset.Set{}
	set.AppendBytes("comlib.000.log", []byte(comlibFixture))

	store, err := Build(set, flavor.ComLib)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Three header lines were accepted; the two stack-frame lines fold
	// into the "crashed" record instead of becoming lines of their own.
	if got := store.NumLines(); got != 3 {
		t.Fatalf("NumLines = %d, want 3", got)
	}

	crashed := store.Line(1)
	if crashed.ID != 2 {
		t.Fatalf("crashed record id = %d, want 2", crashed.ID)
	}
	msg := crashed.Msg()
	want := "crashed\nstack frame #0 in doWork()\nstack frame #1 in main()"
	if msg != want {
		t.Errorf("folded msg = %q, want %q", msg, want)
	}

	recovered := store.Line(2)
	if recovered.Msg() != "recovered" {
		t.Errorf("recovered msg = %q, want %q", recovered.Msg(), "recovered")
	}
	if recovered.ID != 3 {
		t.Errorf("recovered record id = %d, want 3", recovered.ID)
	}
}

func TestFileRangesCoverWholeFile(t *testing.T) {
	set := &fileset.Set{}
	set.AppendBytes("comlib.000.log", []byte(comlibFixture))

	store, err := Build(set, flavor.ComLib)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(store.FileRanges) != 1 {
		t.Fatalf("got %d file ranges, want 1", len(store.FileRanges))
	}
	fr := store.FileRanges[0]
	if fr.Start != 0 || fr.End != store.NumLines() {
		t.Errorf("file range = %+v, want [0, %d)", fr, store.NumLines())
	}
}

func TestFromRecordsHasNoFileRanges(t *testing.T) {
	set := &fileset.Set{}
	set.AppendBytes("comlib.000.log", []byte(comlibFixture))
	store, err := Build(set, flavor.ComLib)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	derived := FromRecords(store.Records[:2])
	if len(derived.FileRanges) != 0 {
		t.Error("a store built from a scattered record subset should carry no file ranges")
	}
	if derived.NumLines() != 2 {
		t.Errorf("NumLines = %d, want 2", derived.NumLines())
	}
}
