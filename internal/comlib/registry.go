package comlib

import (
	"github.com/loglens/corelog/internal/command"
	"github.com/loglens/corelog/internal/flavor"
	"github.com/loglens/corelog/internal/inspector"
	"github.com/loglens/corelog/internal/linetools"
)

func init() {
	command.MustRegister(command.Registry{
		Tag: "COMLib",
		RegisterFn: func(tag string, ctx *command.RegisterCtx) {
			if ctx.Flavor != flavor.ComLib && ctx.Flavor != flavor.AndroidLogcat {
				return
			}

			ctx.Register(tag, command.Info{
				Name: "Deadlocks",
				Help: "Tasks stuck waiting on each other, grouped by app execution",
				Execute: func(rctx *command.ResultCtx, tools *linetools.Tools, _ string) {
					cmdDeadlocks(rctx, tools)
				},
			})

			ctx.Register(tag, command.Info{
				Name:                  "Task execution",
				Help:                  "Every line belonging to one scheduler task's lifetime",
				ParamsHelp:            "task id or name",
				SupportsLineExecution: true,
				Execute: func(rctx *command.ResultCtx, tools *linetools.Tools, params string) {
					cmdTaskExecution(rctx, tools, params)
				},
			})

			ctx.Register(tag, command.Info{
				Name:                  "HTTP request",
				Help:                  "Every curl debug-callback line belonging to one HTTP request",
				ParamsHelp:            "HTTP request id",
				SupportsLineExecution: true,
				Execute: func(rctx *command.ResultCtx, tools *linetools.Tools, params string) {
					cmdHTTPRequestExecution(rctx, tools, params)
				},
			})

			ctx.Register(tag, command.Info{
				Name:       "Message flow",
				Help:       "Every task execution touching one chat message",
				ParamsHelp: "msg id or networkId",
				Execute: func(rctx *command.ResultCtx, tools *linetools.Tools, params string) {
					cmdMsgFlow(rctx, tools, params)
				},
			})

			ctx.Register(tag, command.Info{
				Name:                  "SIP flows",
				Help:                  "SIP dialogs correlated by Call-ID, with synthetic packets for export",
				ParamsHelp:            "optional SIP method name filter",
				SupportsLineExecution: true,
				Execute: func(rctx *command.ResultCtx, tools *linetools.Tools, params string) {
					cmdSIPFlows(rctx, tools, params)
				},
			})

			ctx.Register(tag, command.Info{
				Name: "PJSIP threads",
				Help: "Every line emitted by a thread that ran a PJSIP callback",
				Execute: func(rctx *command.ResultCtx, tools *linetools.Tools, _ string) {
					cmdPJSIPThreads(rctx, tools)
				},
			})
		},
	})

	inspector.MustRegister(inspector.Registry{
		RegisterFn: func(ctx *inspector.RegisterCtx) {
			if ctx.Flavor != flavor.ComLib && ctx.Flavor != flavor.AndroidLogcat {
				return
			}
			ctx.Register(inspectExecutions)
			ctx.Register(inspectPanics)
			ctx.Register(inspectBuildInfo)
			ctx.Register(inspectUAs)
		},
	})
}
