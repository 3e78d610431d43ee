package comlib

import (
	"regexp"

	"github.com/loglens/corelog/internal/inspector"
	"github.com/loglens/corelog/internal/linetools"
	"github.com/loglens/corelog/internal/logline"
)

// inspectExecutions reports one timeline entry per app execution window,
// bounded by the timestamps of its first and last line.
func inspectExecutions(ctx *inspector.ResultCtx, tools *linetools.Tools) {
	if tools.NumLines() == 0 {
		return
	}
	for _, r := range executionsRanges(tools) {
		if r.Empty() {
			continue
		}
		first := tools.Line(r.Start)
		last := tools.Line(r.End - 1)
		ctx.AddExecution(string(first.Bytes()), first.Timestamp, last.Timestamp, r)
	}
}

func inspectPanics(ctx *inspector.ResultCtx, tools *linetools.Tools) {
	if tools.NumLines() == 0 {
		return
	}
	filter := linetools.All(
		linetools.LevelEq(logline.Error),
		linetools.TagMatch(logline.Exact, "COMLib.Debug"),
		linetools.MethodMatch(logline.Exact, "panic"),
	)
	tools.WindowIterate(linetools.LineRange{Start: 0, End: tools.NumLines()}, filter, func(_ int, line logline.Record, lineIndex int) bool {
		ctx.AddWarningAtLine("Panic / Exception", line.Msg(), lineIndex)
		return true
	})
}

var buildInfoBanner = regexp.MustCompile(`^\*{6} .+ \*{6}$`)

func inspectBuildInfo(ctx *inspector.ResultCtx, tools *linetools.Tools) {
	if tools.NumLines() == 0 {
		return
	}
	filter := linetools.All(
		linetools.LevelEq(logline.Info),
		linetools.TagMatch(logline.Exact, "COMLib"),
		linetools.MsgMatch(logline.StartsWith, "****** "),
	)

	seen := map[string]bool{}
	tools.WindowIterate(linetools.LineRange{Start: 0, End: tools.NumLines()}, filter, func(_ int, line logline.Record, _ int) bool {
		msg := line.Msg()
		if !buildInfoBanner.MatchString(msg) || seen[msg] {
			return true
		}
		seen[msg] = true
		ctx.AddInfo("Build info", msg)
		return true
	})
}

var userAgentPattern = regexp.MustCompile(`User-Agent: (\S+/\S+ \S+/\S+ \S+/\S+ \S+/\S+)`)

func inspectUAs(ctx *inspector.ResultCtx, tools *linetools.Tools) {
	if tools.NumLines() == 0 {
		return
	}
	filter := linetools.TagMatch(logline.Exact, "COMLib.PJSIP")

	seen := map[string]bool{}
	tools.WindowIterate(linetools.LineRange{Start: 0, End: tools.NumLines()}, filter, func(_ int, line logline.Record, _ int) bool {
		m := userAgentPattern.FindStringSubmatch(line.Msg())
		if m == nil || seen[m[1]] {
			return true
		}
		seen[m[1]] = true
		ctx.AddInfo("User-Agent", m[1])
		return true
	})
}
