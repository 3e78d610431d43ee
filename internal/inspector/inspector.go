// Package inspector is the no-params, flavor-gated analysis catalogue:
// unlike command, an inspector always runs (never takes a params
// string) and reports findings as info/warning notes plus a timeline of
// detected executions, rather than line-index groups.
package inspector

import (
	"github.com/loglens/corelog/internal/flavor"
	"github.com/loglens/corelog/internal/linetools"
)

// Entry is one info or warning note, optionally anchored to a line or a
// line range.
type Entry struct {
	Warning   bool
	Context   string
	Msg       string
	HasLine   bool
	LineIndex int
	HasRange  bool
	LineRange linetools.LineRange
}

// Execution is one detected app-lifetime execution window.
type Execution struct {
	Msg                           string
	TimestampStart, TimestampEnd  int64
	LineRange                     linetools.LineRange
}

// ResultCtx accumulates everything an inspector run finds.
type ResultCtx struct {
	Entries    []Entry
	Executions []Execution
}

func (r *ResultCtx) AddInfo(ctx, msg string) {
	r.Entries = append(r.Entries, Entry{Context: ctx, Msg: msg})
}

func (r *ResultCtx) AddInfoAtLine(ctx, msg string, lineIndex int) {
	r.Entries = append(r.Entries, Entry{Context: ctx, Msg: msg, HasLine: true, LineIndex: lineIndex})
}

func (r *ResultCtx) AddInfoInRange(ctx, msg string, lr linetools.LineRange) {
	r.Entries = append(r.Entries, Entry{Context: ctx, Msg: msg, HasRange: true, LineRange: lr})
}

func (r *ResultCtx) AddWarning(ctx, msg string) {
	r.Entries = append(r.Entries, Entry{Warning: true, Context: ctx, Msg: msg})
}

func (r *ResultCtx) AddWarningAtLine(ctx, msg string, lineIndex int) {
	r.Entries = append(r.Entries, Entry{Warning: true, Context: ctx, Msg: msg, HasLine: true, LineIndex: lineIndex})
}

func (r *ResultCtx) AddWarningInRange(ctx, msg string, lr linetools.LineRange) {
	r.Entries = append(r.Entries, Entry{Warning: true, Context: ctx, Msg: msg, HasRange: true, LineRange: lr})
}

func (r *ResultCtx) AddExecution(msg string, tsStart, tsEnd int64, lr linetools.LineRange) {
	r.Executions = append(r.Executions, Execution{Msg: msg, TimestampStart: tsStart, TimestampEnd: tsEnd, LineRange: lr})
}

// Func is one inspector's execution body.
type Func func(ctx *ResultCtx, tools *linetools.Tools)

// RegisterCtx is offered to a Registry's RegisterFn.
type RegisterCtx struct {
	Flavor flavor.Type
	fns    []Func
}

func (c *RegisterCtx) Register(fn Func) {
	if fn != nil {
		c.fns = append(c.fns, fn)
	}
}

// Registry is one package's contribution to the inspector catalogue.
type Registry struct {
	RegisterFn func(ctx *RegisterCtx)
}

var registries []Registry

func MustRegister(reg Registry) { registries = append(registries, reg) }

// IterateInspectors returns every inspector applicable to flavorType.
func IterateInspectors(flavorType flavor.Type) []Func {
	ctx := &RegisterCtx{Flavor: flavorType}
	for _, reg := range registries {
		reg.RegisterFn(ctx)
	}
	return ctx.fns
}
