package repo

import (
	"encoding/json"

	"github.com/loglens/corelog/internal/command"
	"github.com/loglens/corelog/internal/inspector"
)

// cmdInfoJSON is one command's description inside GetAvailableCommands.
type cmdInfoJSON struct {
	Name                  string `json:"name"`
	Help                  string `json:"help"`
	ParamsHelp            string `json:"paramsHelp,omitempty"`
	SupportLineExecution  bool   `json:"supportLineExecution"`
}

type tagCmdsJSON struct {
	Name string        `json:"name"`
	Cmds []cmdInfoJSON `json:"cmds"`
}

// GetAvailableCommands lists every command this repo's flavor makes
// available, grouped by tag namespace, as JSON.
func (r *Repo) GetAvailableCommands() string {
	out := make([]tagCmdsJSON, 0, len(r.cmds))
	for _, tc := range r.cmds {
		cmds := make([]cmdInfoJSON, 0, len(tc.cmds))
		for _, c := range tc.cmds {
			cmds = append(cmds, cmdInfoJSON{
				Name:                 c.Name,
				Help:                 c.Help,
				ParamsHelp:           c.ParamsHelp,
				SupportLineExecution: c.SupportsLineExecution,
			})
		}
		out = append(out, tagCmdsJSON{Name: tc.tag, Cmds: cmds})
	}
	b, err := json.MarshalIndent(out, "", "\t")
	if err != nil {
		return "[]"
	}
	return string(b)
}

// findCommand looks up one command by tag and name across the repo's
// catalogue.
func (r *Repo) findCommand(tag, name string) (command.Info, bool) {
	for _, tc := range r.cmds {
		if tc.tag != tag {
			continue
		}
		for _, c := range tc.cmds {
			if c.Name == name {
				return c, true
			}
		}
	}
	return command.Info{}, false
}

// ExecuteCommand runs the named command under tag with params and
// returns the JSON envelope described in spec §4.5. An unknown (tag,
// name) pair yields an envelope with "executed": false and no output,
// never an error.
func (r *Repo) ExecuteCommand(tag, name, params string) string {
	info, ok := r.findCommand(tag, name)
	if !ok {
		env := buildEnvelope(tag, name, params, false, nil)
		return mustJSON(env)
	}

	ctx := &command.ResultCtx{}
	info.Execute(ctx, r.tools, params)
	env := buildEnvelope(tag, name, params, true, ctx)
	return mustJSON(env)
}

// inspectionEntryJSON is one info/warning note in ExecuteInspection's
// output.
type inspectionEntryJSON struct {
	Context string `json:"context"`
	Msg     string `json:"msg"`
	Line    *int   `json:"line,omitempty"`
	RangeStart *int `json:"rangeStart,omitempty"`
	RangeEnd   *int `json:"rangeEnd,omitempty"`
}

type inspectionExecutionJSON struct {
	Msg            string `json:"msg"`
	TimestampStart int64  `json:"timestampStart"`
	TimestampEnd   int64  `json:"timestampEnd"`
	RangeStart     int    `json:"rangeStart"`
	RangeEnd       int    `json:"rangeEnd"`
}

type inspectionReportJSON struct {
	Infos      []inspectionEntryJSON     `json:"infos"`
	Warns      []inspectionEntryJSON     `json:"warns"`
	Executions []inspectionExecutionJSON `json:"executions"`
}

// ExecuteInspection runs every inspector registered for this repo's
// flavor and returns the combined {infos, warns, executions} report.
func (r *Repo) ExecuteInspection() string {
	ctx := &inspector.ResultCtx{}
	for _, fn := range inspector.IterateInspectors(r.flavorType) {
		fn(ctx, r.tools)
	}

	report := inspectionReportJSON{
		Infos:      []inspectionEntryJSON{},
		Warns:      []inspectionEntryJSON{},
		Executions: []inspectionExecutionJSON{},
	}
	for _, e := range ctx.Entries {
		entry := inspectionEntryJSON{Context: e.Context, Msg: e.Msg}
		if e.HasLine {
			idx := e.LineIndex
			entry.Line = &idx
		}
		if e.HasRange {
			start, end := e.LineRange.Start, e.LineRange.End
			entry.RangeStart, entry.RangeEnd = &start, &end
		}
		if e.Warning {
			report.Warns = append(report.Warns, entry)
		} else {
			report.Infos = append(report.Infos, entry)
		}
	}
	for _, e := range ctx.Executions {
		report.Executions = append(report.Executions, inspectionExecutionJSON{
			Msg:            e.Msg,
			TimestampStart: e.TimestampStart,
			TimestampEnd:   e.TimestampEnd,
			RangeStart:     e.LineRange.Start,
			RangeEnd:       e.LineRange.End,
		})
	}
	return mustJSON(report)
}

func mustJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return "{}"
	}
	return string(b)
}
