package comlib

import (
	"sort"
	"strconv"
	"strings"

	"github.com/loglens/corelog/internal/command"
	"github.com/loglens/corelog/internal/linetools"
	"github.com/loglens/corelog/internal/logline"
)

// toolTasksExecutionsIf collects the full executions of every task whose
// triggering line matches cb, skipping ahead past each task's gathered
// lines to avoid reprocessing it.
func toolTasksExecutionsIf(tools *linetools.Tools, cb func(line logline.Record) bool) []int {
	var lineIndices []int

	for lineIndex := 0; lineIndex < tools.NumLines(); lineIndex++ {
		line := tools.Line(lineIndex)
		if !cb(line) {
			continue
		}

		info, ok := taskAtLine(tools, lineIndex)
		if !ok {
			continue
		}

		taskLines := taskFullExecution(tools, info.TaskID, linetools.LineRange{Start: 0, End: tools.NumLines()})
		if len(taskLines) == 0 {
			continue
		}

		lineIndices = append(lineIndices, taskLines...)
		lineIndex = taskLines[len(taskLines)-1]
	}

	return lineIndices
}

func cmdTaskExecution(ctx *command.ResultCtx, tools *linetools.Tools, params string) {
	if tools.NumLines() == 0 {
		return
	}
	lineRange := linetools.LineRange{Start: 0, End: tools.NumLines()}

	if len(params) >= 2 && params[0] == ':' && params[1] != ':' {
		lineIndex, err := strconv.Atoi(params[1:])
		if err != nil {
			return
		}
		info, ok := taskAtLine(tools, lineIndex)
		if ok {
			lineIndices := taskFullExecution(tools, info.TaskID, linetools.LineRange{Start: info.FirstLineIndex, End: lineRange.End})
			ctx.AddLineIndices("", lineIndices)
		}
		return
	}

	if taskID, err := strconv.ParseInt(params, 10, 64); err == nil {
		lineIndices := taskFullExecution(tools, taskID, lineRange)
		ctx.AddLineIndices("", lineIndices)
		return
	}

	for lineRange.Start < lineRange.End {
		filter := linetools.All(
			linetools.TagMatch(logline.Exact, "COMLib.Scheduler"),
			linetools.MsgMatch(logline.Exact, "task scheduled"),
		)

		var taskID int64
		found := false
		linesProcessed := tools.WindowIterate(lineRange, filter, func(_ int, line logline.Record, lineIndex int) bool {
			name, ok := logline.ParamExtract(line.Params(), "name")
			if !ok || name != params {
				return true
			}
			id, ok := logline.ParamExtractInt64(line.Params(), "id")
			if !ok {
				return true
			}
			taskID = id
			found = true
			return false
		})

		if found {
			lineIndices := taskFullExecution(tools, taskID, linetools.LineRange{Start: lineRange.Start + linesProcessed - 1, End: lineRange.End})
			ctx.AddLineIndices("", lineIndices)
		}

		lineRange.Start += linesProcessed
	}
}

func cmdHTTPRequestExecution(ctx *command.ResultCtx, tools *linetools.Tools, params string) {
	if tools.NumLines() == 0 {
		return
	}
	lineRange := linetools.LineRange{Start: 0, End: tools.NumLines()}

	if len(params) >= 2 && params[0] == ':' && params[1] != ':' {
		lineIndex, err := strconv.Atoi(params[1:])
		if err != nil {
			return
		}
		info, ok := httpRequestAtLine(tools, lineIndex)
		if ok {
			lineIndices := httpRequestFullExecution(tools, info.HTTPRequestID, linetools.LineRange{Start: info.FirstLineIndex, End: lineRange.End})
			ctx.AddLineIndices("", lineIndices)
		}
		return
	}

	if requestID, err := strconv.ParseInt(params, 10, 64); err == nil {
		lineIndices := httpRequestFullExecution(tools, requestID, lineRange)
		ctx.AddLineIndices("", lineIndices)
	}
}

type deadlockTaskInfo struct {
	Name        string
	LineIndices []int
}

type deadlockExecution struct {
	lineStart, lineEnd int
	threadIDs          []int32
	waiting            map[int64]bool
	finishing          map[int64]bool
	executing          map[int64]bool
	info               map[int64]*deadlockTaskInfo
}

func cmdDeadlocks(ctx *command.ResultCtx, tools *linetools.Tools) {
	var executions []*deadlockExecution

	for _, execRange := range executionsRanges(tools) {
		exec := &deadlockExecution{
			lineStart: execRange.Start,
			lineEnd:   execRange.End,
			waiting:   map[int64]bool{},
			finishing: map[int64]bool{},
			executing: map[int64]bool{},
			info:      map[int64]*deadlockTaskInfo{},
		}

		filter := linetools.TagMatch(logline.Exact, "COMLib.Scheduler")
		tools.WindowIterate(execRange, filter, func(_ int, line logline.Record, lineIndex int) bool {
			var step string
			switch {
			case line.CheckMsg(logline.StartsWith, "task waiting"):
				step = "waiting"
			case line.CheckMsg(logline.Exact, "task finishing"):
				step = "finishing"
			case line.CheckMsg(logline.Exact, "task finished"):
				step = "finished"
			case line.CheckMsg(logline.Exact, "task executing"):
				step = "executing"
			default:
				return true
			}

			if step == "executing" {
				found := false
				for _, id := range exec.threadIDs {
					if id == line.ThreadID {
						found = true
						break
					}
				}
				if !found {
					exec.threadIDs = append(exec.threadIDs, line.ThreadID)
				}
			}

			taskID, ok := logline.ParamExtractInt64(line.Params(), "id")
			if !ok {
				return true
			}

			switch step {
			case "waiting":
				exec.waiting[taskID] = true
				delete(exec.finishing, taskID)
				delete(exec.executing, taskID)
			case "finishing":
				delete(exec.waiting, taskID)
				exec.finishing[taskID] = true
				delete(exec.executing, taskID)
			case "finished":
				delete(exec.waiting, taskID)
				delete(exec.finishing, taskID)
				delete(exec.executing, taskID)
			case "executing":
				delete(exec.waiting, taskID)
				delete(exec.finishing, taskID)
				exec.executing[taskID] = true
			}

			return true
		})

		for id := range exec.executing {
			exec.info[id] = &deadlockTaskInfo{}
		}
		for id := range exec.waiting {
			exec.info[id] = &deadlockTaskInfo{}
		}
		for id := range exec.finishing {
			exec.info[id] = &deadlockTaskInfo{}
		}

		for taskID, info := range exec.info {
			info.LineIndices = taskFullExecution(tools, taskID, linetools.LineRange{Start: exec.lineStart, End: exec.lineEnd})

			result, ok := tools.WindowFindFirst(linetools.LineRange{Start: exec.lineStart, End: exec.lineEnd}, []byte(schedulerScheduledQuery(taskID)))
			if !ok {
				continue
			}
			line := tools.Line(result)
			if !line.CheckTag(logline.Exact, "COMLib.Scheduler") {
				continue
			}
			if name, ok := logline.ParamExtract(line.Params(), "name"); ok {
				info.Name = name
			}
		}

		executions = append(executions, exec)
	}

	result := make([]map[string]any, 0, len(executions))
	for _, exec := range executions {
		data := make([]map[string]any, 0, len(exec.info))
		ids := make([]int64, 0, len(exec.info))
		for id := range exec.info {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			info := exec.info[id]
			data = append(data, map[string]any{
				"id":         id,
				"name":       info.Name,
				"linesIndex": ctx.AddLineIndices("", info.LineIndices),
			})
		}

		result = append(result, map[string]any{
			"lineIndexRange": []int{exec.lineStart, exec.lineEnd},
			"threadIds":      exec.threadIDs,
			"tasks": map[string]any{
				"executing": sortedKeys(exec.executing),
				"waiting":   sortedKeys(exec.waiting),
				"finishing": sortedKeys(exec.finishing),
				"data":      data,
			},
		})
	}

	ctx.Output = result
}

func schedulerScheduledQuery(taskID int64) string {
	return "| task scheduled | id=" + strconv.FormatInt(taskID, 10) + "; name="
}

func sortedKeys(m map[int64]bool) []int64 {
	out := make([]int64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func cmdMsgFlow(ctx *command.ResultCtx, tools *linetools.Tools, params string) {
	lineRange := linetools.LineRange{Start: 0, End: tools.NumLines()}
	var msgID int32
	var msgNetworkID string

	paramID, hasParamID := func() (int32, bool) {
		n, err := strconv.ParseInt(params, 10, 32)
		if err != nil {
			return 0, false
		}
		return int32(n), true
	}()

	filter := linetools.All(
		linetools.TagMatch(logline.Exact, "COMLib.ChatController"),
		linetools.MsgMatch(logline.Exact, "message stored"),
	)
	tools.WindowIterate(lineRange, filter, func(_ int, line logline.Record, lineIndex int) bool {
		found := false
		if hasParamID {
			found = logline.ParamCheck(line.Params(), "id", strconv.FormatInt(int64(paramID), 10))
		}
		if !found {
			found = logline.ParamCheck(line.Params(), "networkId", params)
		}
		if !found {
			found = logline.ParamCheck(line.Params(), "MessageNetworkId", params)
		}
		if !found {
			return true
		}

		id, ok := logline.ParamExtractInt32(line.Params(), "id")
		if !ok {
			return true
		}
		msgID = id

		netID, ok := logline.ParamExtract(line.Params(), "networkId")
		if ok {
			msgNetworkID = netID
		}
		if msgNetworkID == "" {
			if netID2, ok := logline.ParamExtract(line.Params(), "MessageNetworkId"); ok {
				msgNetworkID = netID2
			} else {
				return true
			}
		}

		return false
	})

	if msgID <= 0 || msgNetworkID == "" {
		return
	}

	lineIndices := toolTasksExecutionsIf(tools, func(line logline.Record) bool {
		if !line.CheckTag(logline.Exact, "COMLib.ChatController") || !line.CheckMsg(logline.Exact, "message stored") {
			return false
		}
		if logline.ParamCheck(line.Params(), "id", strconv.FormatInt(int64(msgID), 10)) {
			return true
		}
		if logline.ParamCheck(line.Params(), "networkId", msgNetworkID) || logline.ParamCheck(line.Params(), "MessageNetworkId", msgNetworkID) {
			return true
		}
		return false
	})

	ctx.AddLineIndices("", lineIndices)
}

func cmdPJSIPThreads(ctx *command.ResultCtx, tools *linetools.Tools) {
	filter := linetools.All(
		linetools.TagMatch(logline.Exact, "COMLib.PJSIP"),
		linetools.MethodMatch(logline.Exact, "operator()"),
	)

	threadIDs := map[int32]bool{}
	tools.WindowIterate(linetools.LineRange{Start: 0, End: tools.NumLines()}, filter, func(_ int, line logline.Record, _ int) bool {
		threadIDs[line.ThreadID] = true
		return true
	})
	if len(threadIDs) == 0 {
		return
	}

	var lineIndices []int
	for i := 0; i < tools.NumLines(); i++ {
		if threadIDs[tools.Line(i).ThreadID] {
			lineIndices = append(lineIndices, i)
		}
	}
	ctx.AddLineIndices("", lineIndices)
}

// trimCommandParams normalizes an optional SIP method-name filter, the
// way the registry hands commands their raw params string.
func trimCommandParams(params string) string {
	return strings.TrimSpace(params)
}
