package repo

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/loglens/corelog/internal/fileset"
	"github.com/loglens/corelog/internal/flavor"
	"github.com/loglens/corelog/internal/translate"
)

const fixtureLog = "" +
	"2024-03-11 10:22:05.100 1 |INFO |-1|COMLib.Scheduler: schedule | task scheduled | id=5; name=worker;\n" +
	"2024-03-11 10:22:05.110 1 |INFO |-1|COMLib.Scheduler: schedule | task executing | id=5; name=worker;\n" +
	"2024-03-11 10:22:05.115 1 |DEBUG|-1|COMLib.Worker: run | doing work | step=1;\n" +
	"2024-03-11 10:22:05.120 1 |WARN |-1|COMLib.Worker: run | slow step | step=2;\n" +
	"2024-03-11 10:22:05.125 1 |INFO |-1|COMLib.Scheduler: schedule | task finishing | id=5; name=worker;\n" +
	"2024-03-11 10:22:05.130 1 |INFO |-1|COMLib.Scheduler: schedule | task finished | id=5; name=worker;\n"

func newFixtureRepo(t *testing.T) *Repo {
	t.Helper()
	set := &fileset.Set{}
	set.AppendBytes("comlib.000.log", []byte(fixtureLog))
	r, err := newRepo(set, flavor.ComLib, true)
	if err != nil {
		t.Fatalf("newRepo: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestNumLines(t *testing.T) {
	r := newFixtureRepo(t)
	if got := r.NumLines(); got != 6 {
		t.Fatalf("NumLines() = %d, want 6", got)
	}
}

func TestGetSummary(t *testing.T) {
	r := newFixtureRepo(t)
	var summary struct {
		NumLines           int     `json:"numLines"`
		WarningsLinesIndex []int   `json:"warningsLinesIndex"`
		ThreadIDs          []int32 `json:"threadIds"`
		Tags               []struct {
			Name        string `json:"name"`
			Count       int    `json:"count"`
			Descendents []struct {
				Name  string `json:"name"`
				Count int    `json:"count"`
			} `json:"descendents"`
		} `json:"tags"`
	}
	if err := json.Unmarshal([]byte(r.GetSummary()), &summary); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if summary.NumLines != 6 {
		t.Errorf("NumLines = %d, want 6", summary.NumLines)
	}
	if len(summary.WarningsLinesIndex) != 1 || summary.WarningsLinesIndex[0] != 3 {
		t.Errorf("WarningsLinesIndex = %v, want [3]", summary.WarningsLinesIndex)
	}
	if len(summary.ThreadIDs) != 1 || summary.ThreadIDs[0] != 1 {
		t.Errorf("ThreadIDs = %v, want [1]", summary.ThreadIDs)
	}

	var comlibCount int
	for _, tag := range summary.Tags {
		if tag.Name == "COMLib" {
			comlibCount = tag.Count
		}
	}
	if comlibCount != 6 {
		t.Errorf("COMLib tag count = %d, want 6", comlibCount)
	}
}

func TestExecuteCommandTaskExecution(t *testing.T) {
	r := newFixtureRepo(t)
	out := r.ExecuteCommand("COMLib", "Task execution", "5")

	var env struct {
		Executed     bool `json:"executed"`
		LinesIndices []struct {
			Indices []int `json:"indices"`
		} `json:"linesIndices"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if !env.Executed {
		t.Fatal("expected executed=true for a known command")
	}
	if len(env.LinesIndices) != 1 {
		t.Fatalf("got %d line groups, want 1", len(env.LinesIndices))
	}
	// Every scheduler event plus the two worker lines running on the
	// same thread while the task executes.
	got := env.LinesIndices[0].Indices
	want := []int{0, 1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got indices %v, want %v", got, want)
	}
	for i, idx := range got {
		if idx != want[i] {
			t.Errorf("indices[%d] = %d, want %d", i, idx, want[i])
		}
	}
}

func TestExecuteCommandUnknown(t *testing.T) {
	r := newFixtureRepo(t)
	out := r.ExecuteCommand("COMLib", "Does not exist", "")

	var env struct {
		Executed bool `json:"executed"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Executed {
		t.Fatal("expected executed=false for an unknown command")
	}
}

func TestFindAll(t *testing.T) {
	r := newFixtureRepo(t)
	out := r.FindAll("task", true)

	var hits []struct {
		Index   int   `json:"index"`
		Offsets []int `json:"offsets"`
	}
	if err := json.Unmarshal([]byte(out), &hits); err != nil {
		t.Fatalf("unmarshal hits: %v", err)
	}
	if len(hits) != 4 {
		t.Fatalf("got %d hit lines, want 4 (scheduled/executing/finishing/finished)", len(hits))
	}
}

func TestSearchCursorResumes(t *testing.T) {
	r := newFixtureRepo(t)
	c := r.SearchText("task", true)
	if !c.Valid {
		t.Fatal("expected a valid first hit")
	}
	first := c.LineIndex
	c = r.SearchNext(c)
	if !c.Valid {
		t.Fatal("expected a valid second hit")
	}
	if c.LineIndex <= first {
		t.Errorf("second hit line %d should be after first hit line %d", c.LineIndex, first)
	}
}

func TestRetrieveLineContent(t *testing.T) {
	r := newFixtureRepo(t)
	s := r.RetrieveLineContent(2, translate.Raw, translate.JSONFull)
	if !strings.Contains(s, `"msg"`) {
		t.Errorf("expected rendered JSON to contain msg field, got %q", s)
	}
	if r.RetrieveLineContent(-1, translate.Raw, translate.Line) != "" {
		t.Error("an out-of-range index should render empty")
	}
}

func TestExportLinesRawFast(t *testing.T) {
	r := newFixtureRepo(t)
	var buf bytes.Buffer
	if err := r.ExportLines(&buf, translate.Raw, translate.Line, 0, r.NumLines()); err != nil {
		t.Fatalf("ExportLines: %v", err)
	}
	if buf.String() != fixtureLog {
		t.Errorf("exported content differs from fixture:\ngot:  %q\nwant: %q", buf.String(), fixtureLog)
	}
}

func TestInitRepoFromLineRange(t *testing.T) {
	r := newFixtureRepo(t)
	derived, err := InitRepoFromLineRange(r, 1, 2)
	if err != nil {
		t.Fatalf("InitRepoFromLineRange: %v", err)
	}
	defer derived.Close()
	if derived.NumLines() != 2 {
		t.Fatalf("derived NumLines = %d, want 2", derived.NumLines())
	}
	// Closing a derived repo must never touch the source's mapping.
	if err := derived.Close(); err != nil {
		t.Errorf("derived Close: %v", err)
	}
	if r.NumLines() != 6 {
		t.Error("source repo was affected by closing its derived repo")
	}
}
