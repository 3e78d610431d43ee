// Package server implements the Server-flavor command catalogue: a
// single message-content lookup built on package linetools' windowed
// search.
package server

import (
	"sort"

	"github.com/loglens/corelog/internal/command"
	"github.com/loglens/corelog/internal/flavor"
	"github.com/loglens/corelog/internal/linetools"
	"github.com/loglens/corelog/internal/logline"
)

func init() {
	command.MustRegister(command.Registry{
		Tag: "Server",
		RegisterFn: func(tag string, ctx *command.RegisterCtx) {
			if ctx.Flavor != flavor.Server {
				return
			}
			ctx.Register(tag, command.Info{
				Name:       "Message",
				Help:       "All log lines pretending to the message",
				ParamsHelp: "message content",
				Execute: func(rctx *command.ResultCtx, tools *linetools.Tools, params string) {
					cmdMsg(rctx, tools, params)
				},
			})
		},
	})
}

// cmdMsg finds every line containing params as literal content, then
// for each match walks backward and forward collecting every other line
// sharing its thread name, the way a single request's full log trail is
// reconstructed from one matching line.
func cmdMsg(ctx *command.ResultCtx, tools *linetools.Tools, params string) {
	if params == "" || tools.NumLines() == 0 {
		return
	}

	seen := map[int]bool{}
	lineRange := linetools.LineRange{Start: 0, End: tools.NumLines()}

	for _, lineIndex := range tools.WindowFindAll(lineRange, []byte(params)) {
		threadName := tools.Line(lineIndex).ThreadName()
		if threadName == "" {
			if !seen[lineIndex] {
				seen[lineIndex] = true
			}
			continue
		}

		filter := linetools.ThreadNameMatch(logline.Exact, threadName)
		tools.IterateBackwards(lineIndex, filter, func(_ int, _ logline.Record, li int) bool {
			seen[li] = true
			return true
		})
		tools.IterateForward(lineIndex, filter, func(_ int, _ logline.Record, li int) bool {
			seen[li] = true
			return true
		})
	}

	if len(seen) == 0 {
		return
	}
	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	ctx.AddLineIndices("", indices)
}
