// Package test holds thin end-to-end scenarios exercising the full
// open -> analyze -> export pipeline against small fixture logs, the
// way the teacher keeps its own top-level end-to-end fixtures separate
// from package-level unit tests.
package test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loglens/corelog/internal/flavor"
	"github.com/loglens/corelog/internal/repo"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const deadlockFixture = "" +
	"2024-03-11 10:22:05.100 1 |INFO |-1|COMLib.Scheduler: schedule | task scheduled | id=1; name=taskA;\n" +
	"2024-03-11 10:22:05.110 1 |INFO |-1|COMLib.Scheduler: schedule | task executing | id=1; name=taskA;\n" +
	"2024-03-11 10:22:05.120 1 |INFO |-1|COMLib.Scheduler: schedule | task waiting (task) | id=1; waiting for=2;\n" +
	"2024-03-11 10:22:05.130 2 |INFO |-1|COMLib.Scheduler: schedule | task scheduled | id=2; name=taskB;\n" +
	"2024-03-11 10:22:05.140 2 |INFO |-1|COMLib.Scheduler: schedule | task executing | id=2; name=taskB;\n" +
	"2024-03-11 10:22:05.150 2 |INFO |-1|COMLib.Scheduler: schedule | task waiting (task) | id=2; waiting for=1;\n"

// Two tasks scheduled on separate threads, each waiting on the other
// and neither ever finishing: a deadlock.
func TestSeedDeadlockDetection(t *testing.T) {
	path := writeFixture(t, "comlib.000.log", deadlockFixture)
	r, err := repo.InitRepoFile(flavor.ComLib, path)
	if err != nil {
		t.Fatalf("InitRepoFile: %v", err)
	}
	defer r.Close()

	out := r.ExecuteCommand("COMLib", "Deadlocks", "")

	var env struct {
		Executed bool `json:"executed"`
		Output   []struct {
			LineIndexRange []int   `json:"lineIndexRange"`
			ThreadIDs      []int32 `json:"threadIds"`
			Tasks          struct {
				Executing []int64 `json:"executing"`
				Waiting   []int64 `json:"waiting"`
				Finishing []int64 `json:"finishing"`
			} `json:"tasks"`
		} `json:"output"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if !env.Executed {
		t.Fatal("expected executed=true")
	}
	if len(env.Output) != 1 {
		t.Fatalf("got %d executions, want 1", len(env.Output))
	}

	exec := env.Output[0]
	if len(exec.Tasks.Executing) != 0 {
		t.Errorf("executing = %v, want none (both moved to waiting)", exec.Tasks.Executing)
	}
	if len(exec.Tasks.Waiting) != 2 || exec.Tasks.Waiting[0] != 1 || exec.Tasks.Waiting[1] != 2 {
		t.Errorf("waiting = %v, want [1 2]", exec.Tasks.Waiting)
	}
	if len(exec.Tasks.Finishing) != 0 {
		t.Errorf("finishing = %v, want none", exec.Tasks.Finishing)
	}
	if len(exec.ThreadIDs) != 2 || exec.ThreadIDs[0] != 1 || exec.ThreadIDs[1] != 2 {
		t.Errorf("threadIds = %v, want [1 2]", exec.ThreadIDs)
	}
}

const sipFixture = "" +
	"2024-03-11 10:22:05.100 7 |DEBUG|-1|COMLib.PJSIP: pjsua_core.c | pjsua_core.c .TX 440 bytes Request msg INVITE/cseq=1 (sdp) to UDP 10.0.0.1:5060:\n" +
	"Call-ID: abc@x\n" +
	"CSeq: 1 INVITE\n" +
	"--end msg--\n" +
	"2024-03-11 10:22:05.150 7 |DEBUG|-1|COMLib.PJSIP: pjsua_core.c | pjsua_core.c .RX 390 bytes Response msg INVITE/cseq=1 (sdp) from UDP 10.0.0.1:5060:\n" +
	"Call-ID: abc@x\n" +
	"CSeq: 1 INVITE\n" +
	"--end msg--\n"

// One SIP dialog spanning an outbound request and an inbound response,
// reconstructed from two PJSIP debug dumps whose bodies were each
// folded across continuation lines, with a synthetic packet emitted
// per direction.
func TestSeedSIPDialogCorrelation(t *testing.T) {
	path := writeFixture(t, "comlib.000.log", sipFixture)
	r, err := repo.InitRepoFile(flavor.ComLib, path)
	if err != nil {
		t.Fatalf("InitRepoFile: %v", err)
	}
	defer r.Close()

	if got := r.NumLines(); got != 2 {
		t.Fatalf("NumLines = %d, want 2 (continuation lines folded into each PJSIP dump)", got)
	}

	out := r.ExecuteCommand("COMLib", "SIP flows", "")

	var env struct {
		Executed       bool `json:"executed"`
		NetworkPackets []struct {
			Domain    string    `json:"domain"`
			Endpoints [2]string `json:"endpoints"`
		} `json:"networkPackets"`
		Output []struct {
			Dialogs []struct {
				CallID        string `json:"callId"`
				Method        string `json:"method"`
				TxLineIndices []int  `json:"txLineIndices"`
				RxLineIndices []int  `json:"rxLineIndices"`
			} `json:"dialogs"`
		} `json:"output"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if !env.Executed {
		t.Fatal("expected executed=true")
	}
	if len(env.Output) != 1 || len(env.Output[0].Dialogs) != 1 {
		t.Fatalf("expected exactly one dialog, got %+v", env.Output)
	}
	dialog := env.Output[0].Dialogs[0]
	if dialog.CallID != "abc@x" {
		t.Errorf("callId = %q, want abc@x", dialog.CallID)
	}
	if dialog.Method != "INVITE" {
		t.Errorf("method = %q, want INVITE", dialog.Method)
	}
	if len(dialog.TxLineIndices) != 1 {
		t.Errorf("txLineIndices = %v, want one entry", dialog.TxLineIndices)
	}
	if len(dialog.RxLineIndices) != 1 {
		t.Errorf("rxLineIndices = %v, want one entry", dialog.RxLineIndices)
	}

	if len(env.NetworkPackets) != 2 {
		t.Fatalf("got %d synthetic packets, want 2 (one per direction)", len(env.NetworkPackets))
	}
	for _, p := range env.NetworkPackets {
		if p.Domain != "IPv4" {
			t.Errorf("domain = %q, want IPv4", p.Domain)
		}
		if p.Endpoints[0] != "10.0.0.1:5060" && p.Endpoints[1] != "10.0.0.1:5060" {
			t.Errorf("endpoints = %v, want one side to be 10.0.0.1:5060", p.Endpoints)
		}
	}

	var pcap bytes.Buffer
	if err := r.ExportCommandNetworkPackets(&pcap, out); err != nil {
		t.Fatalf("ExportCommandNetworkPackets: %v", err)
	}
	if pcap.Len() < 24 {
		t.Fatalf("pcap output too short: %d bytes", pcap.Len())
	}
	magic := pcap.Bytes()[0:4]
	if magic[0] != 0xd4 || magic[1] != 0xc3 || magic[2] != 0xb2 || magic[3] != 0xa1 {
		t.Errorf("unexpected pcap magic bytes: %x", magic)
	}
}

// A store where the same literal occurs twice on one line: the search
// cursor must report both hits in offset order, then report invalid
// once exhausted rather than re-finding the first occurrence.
func TestSeedSearchCursorRepeatedMatch(t *testing.T) {
	line5 := "2024-03-11 10:22:05.140 1 |INFO |-1|App.Startup: init | foofoobar | k=5;"
	fixture := "" +
		"2024-03-11 10:22:05.100 1 |INFO |-1|App.Startup: init | one | k=1;\n" +
		"2024-03-11 10:22:05.110 1 |INFO |-1|App.Startup: init | two | k=2;\n" +
		"2024-03-11 10:22:05.120 1 |INFO |-1|App.Startup: init | three | k=3;\n" +
		"2024-03-11 10:22:05.130 1 |INFO |-1|App.Startup: init | four | k=4;\n" +
		line5 + "\n"
	path := writeFixture(t, "comlib.000.log", fixture)
	r, err := repo.InitRepoFile(flavor.ComLib, path)
	if err != nil {
		t.Fatalf("InitRepoFile: %v", err)
	}
	defer r.Close()

	firstFoo := strings.Index(line5, "foo")
	secondFoo := firstFoo + 1 + strings.Index(line5[firstFoo+1:], "foo")

	c := r.SearchText("foo", true)
	if !c.Valid || c.LineIndex != 4 || c.LineOffset != firstFoo {
		t.Fatalf("first hit = %+v, want line 4 offset %d", c, firstFoo)
	}
	c = r.SearchNext(c)
	if !c.Valid || c.LineIndex != 4 || c.LineOffset != secondFoo {
		t.Fatalf("second hit = %+v, want line 4 offset %d", c, secondFoo)
	}
	c = r.SearchNext(c)
	if c.Valid {
		t.Fatalf("expected exhaustion after both occurrences, got %+v", c)
	}
}

// A{count=10} with children B{count=5, with child D{count=2}} and
// C{count=5}, built from tags A.B (x3), A.C (x5) and A.B.D (x2).
func TestSeedTagTree(t *testing.T) {
	var b strings.Builder
	line := func(ts string, tag string) string {
		return ts + " 1 |INFO |-1|" + tag + ": run | event | n=1;\n"
	}
	for i := 0; i < 3; i++ {
		b.WriteString(line("2024-03-11 10:22:05.100", "A.B"))
	}
	for i := 0; i < 5; i++ {
		b.WriteString(line("2024-03-11 10:22:05.200", "A.C"))
	}
	for i := 0; i < 2; i++ {
		b.WriteString(line("2024-03-11 10:22:05.300", "A.B.D"))
	}

	path := writeFixture(t, "comlib.000.log", b.String())
	r, err := repo.InitRepoFile(flavor.ComLib, path)
	if err != nil {
		t.Fatalf("InitRepoFile: %v", err)
	}
	defer r.Close()

	var summary struct {
		Tags []struct {
			Name        string `json:"name"`
			Count       int    `json:"count"`
			Descendents []struct {
				Name        string `json:"name"`
				Count       int    `json:"count"`
				Descendents []struct {
					Name  string `json:"name"`
					Count int    `json:"count"`
				} `json:"descendents"`
			} `json:"descendents"`
		} `json:"tags"`
	}
	if err := json.Unmarshal([]byte(r.GetSummary()), &summary); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if len(summary.Tags) != 1 || summary.Tags[0].Name != "A" || summary.Tags[0].Count != 10 {
		t.Fatalf("root tag = %+v, want A{count=10}", summary.Tags)
	}
	a := summary.Tags[0]
	if len(a.Descendents) != 2 {
		t.Fatalf("A descendents = %+v, want [B C]", a.Descendents)
	}
	bNode, cNode := a.Descendents[0], a.Descendents[1]
	if bNode.Name != "B" || bNode.Count != 5 {
		t.Errorf("B = %+v, want count=5", bNode)
	}
	if cNode.Name != "C" || cNode.Count != 5 {
		t.Errorf("C = %+v, want count=5", cNode)
	}
	if len(bNode.Descendents) != 1 || bNode.Descendents[0].Name != "D" || bNode.Descendents[0].Count != 2 {
		t.Errorf("B descendents = %+v, want [D{count=2}]", bNode.Descendents)
	}
}
