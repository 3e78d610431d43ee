// Package android adds the UI-Android-specific entries to the command
// catalogue — a watchdog-bark lookup and a quick whole-log summary —
// available whenever the embedded-ComLib grammar is in play (native
// ComLib files or logcat lines carrying it).
package android

import (
	"github.com/loglens/corelog/internal/command"
	"github.com/loglens/corelog/internal/flavor"
	"github.com/loglens/corelog/internal/linetools"
	"github.com/loglens/corelog/internal/logline"
)

func init() {
	command.MustRegister(command.Registry{
		Tag: "UI Android",
		RegisterFn: func(tag string, ctx *command.RegisterCtx) {
			if ctx.Flavor != flavor.ComLib && ctx.Flavor != flavor.AndroidLogcat {
				return
			}

			ctx.Register(tag, command.Info{
				Name: "Summary",
				Help: "Produce a quick summary of the entire logs",
				Execute: func(rctx *command.ResultCtx, tools *linetools.Tools, _ string) {
					cmdSummary(rctx, tools)
				},
			})

			ctx.Register(tag, command.Info{
				Name: "Bark!",
				Help: "Find all barks",
				Execute: func(rctx *command.ResultCtx, tools *linetools.Tools, _ string) {
					cmdBarks(rctx, tools)
				},
			})
		},
	})
}

func cmdSummary(ctx *command.ResultCtx, tools *linetools.Tools) {
	if tools.NumLines() == 0 {
		return
	}

	var levelCounts [6]int
	for i := 0; i < tools.NumLines(); i++ {
		levelCounts[tools.Line(i).Level]++
	}

	ctx.Output = map[string]any{
		"numLines":       tools.NumLines(),
		"timestampStart": tools.Line(0).Timestamp,
		"timestampEnd":   tools.Line(tools.NumLines() - 1).Timestamp,
		"levelCounts": map[string]int{
			"trace": levelCounts[logline.Trace],
			"debug": levelCounts[logline.Debug],
			"info":  levelCounts[logline.Info],
			"warn":  levelCounts[logline.Warn],
			"error": levelCounts[logline.Error],
			"fatal": levelCounts[logline.Fatal],
		},
	}
}

func cmdBarks(ctx *command.ResultCtx, tools *linetools.Tools) {
	if tools.NumLines() == 0 {
		return
	}

	filter := linetools.All(
		linetools.TagMatch(logline.StartsWith, "UiAndroid.WMCWatchDog"),
		linetools.MethodMatch(logline.Exact, "bark"),
	)

	var lineIndices []int
	tools.WindowIterate(linetools.LineRange{Start: 0, End: tools.NumLines()}, filter, func(_ int, _ logline.Record, lineIndex int) bool {
		lineIndices = append(lineIndices, lineIndex)
		return true
	})

	ctx.AddLineIndices("", lineIndices)
}
