// Package comlib implements the ComLib/AndroidLogcat-embedded-ComLib
// command and inspector catalogue: task-execution reconstruction,
// deadlock detection, SIP dialog correlation, and chat-message tracing,
// all built on package linetools' windowed primitives.
package comlib

import (
	"fmt"
	"sort"

	"github.com/loglens/corelog/internal/linetools"
	"github.com/loglens/corelog/internal/logline"
)

// executionBanner marks where a fresh app execution begins in the log
// (printed once per process start).
const executionBanner = "|COMLib:  | ******************************* log start *******************************"

// executionsRanges splits the whole line store into per-execution
// windows at each banner line, dropping a banner sitting at line 0 (the
// logs simply started on an execution boundary, nothing to split).
//
// A banner marks the *start* of the next execution; the window after
// the final banner is intentionally left unreported here, matching
// the lookup this is grounded on (only completed, banner-to-banner
// windows are considered analyzable spans).
func executionsRanges(tools *linetools.Tools) []linetools.LineRange {
	execs := tools.WindowFindAll(linetools.LineRange{Start: 0, End: tools.NumLines()}, []byte(executionBanner))
	if len(execs) > 0 && execs[0] == 0 {
		execs = execs[1:]
	}
	if len(execs) == 0 {
		return []linetools.LineRange{{Start: 0, End: tools.NumLines()}}
	}

	var ranges []linetools.LineRange
	lastIndex := 0
	for _, cur := range execs {
		if lastIndex < cur {
			ranges = append(ranges, linetools.LineRange{Start: lastIndex, End: cur})
		}
		lastIndex = cur
	}
	return ranges
}

var schedulerQueries = []string{
	"| task waiting (sync) | id=%d; waiting for=",
	"| task waiting (time) | id=%d; ms=",
	"| task waiting (task) | id=%d; waiting for=",
	"| task moving on (sync) | id=%d; waited for=",
	"| task moving on (task) | id=%d; waited for=",
	"| task cancelled | id=%d;",
	"| scheduler canceled a task that didn't have support to be canceled | id=%d; name=",
	"| canceling task because task is already running | id=%d; name=",
	"| ignoring task remove because task is already running | id=%d; name=",
	"| removed task | id=%d; name=",
}

// taskFullExecution gathers every line belonging to one task's
// lifetime — its scheduling, every wait/resume/cancel event, every
// execution step (including steps that migrate across threads), and
// its finish — within lineRange.
func taskFullExecution(tools *linetools.Tools, taskID int64, lineRange linetools.LineRange) []int {
	var lineIndices []int

	startResult, ok := tools.WindowFindFirst(lineRange, []byte(fmt.Sprintf("| task scheduled | id=%d; name=", taskID)))
	if !ok || !tools.Line(startResult).CheckTag(logline.Exact, "COMLib.Scheduler") {
		return nil
	}
	lineIndices = append(lineIndices, startResult)
	taskStart := startResult

	taskEnd := lineRange.End
	if endResult, ok := tools.WindowFindFirst(linetools.LineRange{Start: taskStart, End: lineRange.End}, []byte(fmt.Sprintf("| task finished | id=%d; name=", taskID))); ok {
		if tools.Line(endResult).CheckTag(logline.Exact, "COMLib.Scheduler") {
			lineIndices = append(lineIndices, endResult)
			taskEnd = endResult
		}
	}

	for _, query := range schedulerQueries {
		for _, idx := range tools.WindowFindAll(linetools.LineRange{Start: taskStart, End: taskEnd}, []byte(fmt.Sprintf(query, taskID))) {
			if tools.Line(idx).CheckTag(logline.Exact, "COMLib.Scheduler") {
				lineIndices = append(lineIndices, idx)
			}
		}
	}

	for _, idx := range tools.WindowFindAll(linetools.LineRange{Start: taskStart, End: taskEnd}, []byte(fmt.Sprintf("| task executing | id=%d; name=", taskID))) {
		if !tools.Line(idx).CheckTag(logline.Exact, "COMLib.Scheduler") {
			continue
		}
		lineIndices = append(lineIndices, idx)

		threadID := tools.Line(idx).ThreadID
		filter := linetools.ThreadIDEq(threadID)
		tools.WindowIterate(linetools.LineRange{Start: idx + 1, End: taskEnd}, filter, func(_ int, line logline.Record, lineIndex int) bool {
			if line.CheckTag(logline.Exact, "COMLib.Scheduler") && !line.CheckMsg(logline.Exact, "task scheduled") {
				return false
			}
			lineIndices = append(lineIndices, lineIndex)
			return true
		})
	}

	for _, idx := range tools.WindowFindAll(linetools.LineRange{Start: taskStart, End: taskEnd}, []byte(fmt.Sprintf("| task finishing | id=%d; name=", taskID))) {
		if !tools.Line(idx).CheckTag(logline.Exact, "COMLib.Scheduler") {
			continue
		}
		lineIndices = append(lineIndices, idx)

		threadID := tools.Line(idx).ThreadID
		filter := linetools.ThreadIDEq(threadID)
		tools.WindowIterate(linetools.LineRange{Start: idx + 1, End: taskEnd}, filter, func(_ int, line logline.Record, lineIndex int) bool {
			if line.CheckTag(logline.Exact, "COMLib.Scheduler") && !line.CheckMsg(logline.Exact, "task scheduled") {
				return false
			}
			lineIndices = append(lineIndices, lineIndex)
			return true
		})
	}

	sort.Ints(lineIndices)
	return lineIndices
}

// TaskLineInfo is a task id paired with the line where a backward scan
// resolved it — the line index seeds the forward search window for a
// subsequent taskFullExecution call.
type TaskLineInfo struct {
	TaskID         int64
	FirstLineIndex int
}

// taskAtLine resolves the task scheduler-tagged "task executing" event
// governing lineIndex, scanning backward from it.
func taskAtLine(tools *linetools.Tools, lineIndex int) (TaskLineInfo, bool) {
	if lineIndex >= tools.NumLines() {
		return TaskLineInfo{}, false
	}

	threadID := tools.Line(lineIndex).ThreadID
	filter := linetools.All(
		linetools.ThreadIDEq(threadID),
		linetools.TagMatch(logline.Exact, "COMLib.Scheduler"),
		linetools.MsgMatch(logline.Exact, "task executing"),
	)

	var info TaskLineInfo
	found := false
	tools.IterateBackwards(lineIndex, filter, func(_ int, line logline.Record, li int) bool {
		id, ok := logline.ParamExtractInt64(line.Params(), "id")
		if !ok {
			return true
		}
		info = TaskLineInfo{TaskID: id, FirstLineIndex: li}
		found = true
		return false
	})
	return info, found
}

// httpRequestFullExecution gathers every curl debug-callback line
// belonging to one HTTP request, bracketed by its dispatch/termination
// events when present.
func httpRequestFullExecution(tools *linetools.Tools, httpRequestID int64, lineRange linetools.LineRange) []int {
	var lineIndices []int

	startResult, ok := tools.WindowFindFirst(lineRange, []byte(fmt.Sprintf("|COMLib.HTTP: asioProcessDispatcher | request new | id=%d; method=", httpRequestID)))
	if !ok {
		return nil
	}
	lineIndices = append(lineIndices, startResult)
	taskStart := startResult

	taskEnd := lineRange.End
	if endResult, ok := tools.WindowFindFirst(linetools.LineRange{Start: taskStart, End: lineRange.End}, []byte(fmt.Sprintf("|COMLib.HTTP: asioProcessTerminated | request finished | requestId=%d; result=", httpRequestID))); ok {
		lineIndices = append(lineIndices, endResult)
		taskEnd = endResult
	}

	filter := linetools.All(
		linetools.TagMatch(logline.Exact, "COMLib.HTTP"),
		linetools.MethodMatch(logline.Exact, "curlDebugCallback"),
	)
	tools.WindowIterate(linetools.LineRange{Start: taskStart, End: taskEnd}, filter, func(_ int, line logline.Record, lineIndex int) bool {
		if id, ok := logline.ParamExtractInt64(line.Params(), "request"); ok && id == httpRequestID {
			lineIndices = append(lineIndices, lineIndex)
		}
		return true
	})

	sort.Ints(lineIndices)
	return lineIndices
}

// HTTPLineInfo mirrors TaskLineInfo for HTTP request resolution.
type HTTPLineInfo struct {
	HTTPRequestID  int64
	FirstLineIndex int
}

func httpRequestAtLine(tools *linetools.Tools, lineIndex int) (HTTPLineInfo, bool) {
	if lineIndex >= tools.NumLines() {
		return HTTPLineInfo{}, false
	}
	line := tools.Line(lineIndex)
	if !line.CheckTag(logline.Exact, "COMLib.HTTP") {
		return HTTPLineInfo{}, false
	}

	if line.CheckMethod(logline.Exact, "curlDebugCallback") {
		if id, ok := logline.ParamExtractInt64(line.Params(), "request"); ok {
			return HTTPLineInfo{HTTPRequestID: id, FirstLineIndex: lineIndex}, true
		}
	} else if line.CheckMethod(logline.Exact, "asioProcessDispatcher") || line.CheckMethod(logline.Exact, "asioProcessTerminated") {
		if id, ok := logline.ParamExtractInt64(line.Params(), "requestId"); ok {
			return HTTPLineInfo{HTTPRequestID: id, FirstLineIndex: lineIndex}, true
		}
	}

	return HTTPLineInfo{}, false
}
