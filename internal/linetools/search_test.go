package linetools

import (
	"testing"

	"github.com/loglens/corelog/internal/logline"
)

func recordOf(text string) logline.Record {
	buf := []byte(text)
	return logline.NewRecord(buf, 0, len(buf))
}

func newToolsFromLines(lines []string) *Tools {
	records := make([]logline.Record, len(lines))
	for i, l := range lines {
		records[i] = recordOf(l)
	}
	return New(records)
}

var fixtureLines = []string{
	"alpha task one",
	"beta nothing here",
	"gamma TASK two",
	"delta task three",
}

func TestWindowFindAll(t *testing.T) {
	tools := newToolsFromLines(fixtureLines)
	got := tools.WindowFindAll(LineRange{Start: 0, End: tools.NumLines()}, []byte("task"))
	want := []int{0, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestLiteralCursorCaseSensitive(t *testing.T) {
	tools := newToolsFromLines(fixtureLines)
	c := tools.NewLiteralCursor("task", true, LineRange{Start: 0, End: tools.NumLines()})
	if !c.Valid || c.LineIndex != 0 {
		t.Fatalf("first hit = %+v, want line 0", c)
	}
	c = c.Next(tools)
	if !c.Valid || c.LineIndex != 3 {
		t.Fatalf("second hit = %+v, want line 3 (case-sensitive skips the TASK line)", c)
	}
	c = c.Next(tools)
	if c.Valid {
		t.Fatalf("expected exhaustion, got %+v", c)
	}
}

func TestLiteralCursorCaseInsensitive(t *testing.T) {
	tools := newToolsFromLines(fixtureLines)
	c := tools.NewLiteralCursor("task", false, LineRange{Start: 0, End: tools.NumLines()})
	var hits []int
	for c.Valid {
		hits = append(hits, c.LineIndex)
		c = c.Next(tools)
	}
	want := []int{0, 2, 3}
	if len(hits) != len(want) {
		t.Fatalf("got %v, want %v", hits, want)
	}
	for i := range want {
		if hits[i] != want[i] {
			t.Errorf("hits[%d] = %d, want %d", i, hits[i], want[i])
		}
	}
}

func TestRegexCursor(t *testing.T) {
	tools := newToolsFromLines(fixtureLines)
	c := tools.NewRegexCursor(`t[a-z]sk`, true, LineRange{Start: 0, End: tools.NumLines()})
	if !c.Valid || c.LineIndex != 0 {
		t.Fatalf("first hit = %+v, want line 0", c)
	}
}

func TestRegexCursorInvalidPatternIsPermanentlyInvalid(t *testing.T) {
	tools := newToolsFromLines(fixtureLines)
	c := tools.NewRegexCursor(`(unclosed`, true, LineRange{Start: 0, End: tools.NumLines()})
	if c.Valid {
		t.Fatal("an uncompilable pattern should yield an invalid cursor")
	}
	if c.Next(tools) != c {
		t.Error("Next on an invalid cursor must be a no-op returning the same cursor")
	}
}

func TestEmptyQueryIsInvalidCursor(t *testing.T) {
	tools := newToolsFromLines(fixtureLines)
	if c := tools.NewLiteralCursor("", true, LineRange{Start: 0, End: tools.NumLines()}); c.Valid {
		t.Error("an empty literal query should yield an invalid cursor")
	}
}

func TestWindowFindFirstNoMatch(t *testing.T) {
	tools := newToolsFromLines(fixtureLines)
	if _, ok := tools.WindowFindFirst(LineRange{Start: 0, End: tools.NumLines()}, []byte("zzz")); ok {
		t.Error("expected no match")
	}
}
