// Package command is the command registry and result-context shared by
// every flavor-specific command package (comlib, server, android): pure-data
// command descriptors grouped by tag, and the envelope an executor
// writes its findings into.
package command

import (
	"github.com/loglens/corelog/internal/flavor"
	"github.com/loglens/corelog/internal/linetools"
)

// LineContent names a byte range within one line, used to point a
// synthetic network packet's payload at the line content it came from.
type LineContent struct {
	LineIndex     int
	ContentOffset int
	ContentSize   int
}

// NetworkPacket is a synthetic packet an executor wants emitted
// alongside its result, built from line content recovered during
// analysis (e.g. a SIP message body).
type NetworkPacket struct {
	IPv6      bool
	Src, Dst  string
	Timestamp int64
	Content   LineContent
}

// LineGroup is a named set of line indices an executor contributed; the
// index of a group within ResultCtx.LineGroups is the value commands
// embed in their JSON output as a cross-reference ("linesIndex").
type LineGroup struct {
	Name    string
	Indices []int
}

// ResultCtx accumulates one command execution's output: free-form JSON
// (Output), one or more named line-index groups, and any synthetic
// network packets.
type ResultCtx struct {
	Output         any
	LineGroups     []LineGroup
	NetworkPackets []NetworkPacket
}

// AddLineIndices records a named (or anonymous, name="") set of line
// indices and returns its group index for JSON cross-referencing.
func (r *ResultCtx) AddLineIndices(name string, indices []int) int {
	r.LineGroups = append(r.LineGroups, LineGroup{Name: name, Indices: indices})
	return len(r.LineGroups) - 1
}

// AddNetworkPacketIPV4/IPV6 record a synthetic packet to be emitted when
// the command's result is exported to PCAP.
func (r *ResultCtx) AddNetworkPacketIPV4(src, dst string, timestamp int64, content LineContent) {
	r.NetworkPackets = append(r.NetworkPackets, NetworkPacket{Src: src, Dst: dst, Timestamp: timestamp, Content: content})
}

func (r *ResultCtx) AddNetworkPacketIPV6(src, dst string, timestamp int64, content LineContent) {
	r.NetworkPackets = append(r.NetworkPackets, NetworkPacket{IPv6: true, Src: src, Dst: dst, Timestamp: timestamp, Content: content})
}

// Info is one command's pure-data description plus its executor.
type Info struct {
	Name                  string
	Help                  string
	ParamsHelp            string
	SupportsLineExecution bool
	Execute               func(ctx *ResultCtx, tools *linetools.Tools, params string)
}

// RegisterCtx is offered to a Registry's RegisterFn so it can see which
// flavor it's being asked to contribute commands for and gate itself
// accordingly.
type RegisterCtx struct {
	Flavor flavor.Type
	infos  []taggedInfo
}

type taggedInfo struct {
	tag  string
	info Info
}

// Register adds one command under the registry's tag, ignoring
// malformed entries (no name, no executor) the way the original
// registration context did.
func (c *RegisterCtx) Register(tag string, info Info) {
	if info.Name == "" || info.Execute == nil {
		return
	}
	c.infos = append(c.infos, taggedInfo{tag: tag, info: info})
}

// Registry is one tag's contribution to the command catalogue: a tag
// name and a callback that registers commands onto a RegisterCtx,
// gating on the target flavor itself.
type Registry struct {
	Tag        string
	RegisterFn func(tag string, ctx *RegisterCtx)
}

var registries []Registry

// MustRegister adds reg to the global catalogue. Called from flavor
// package init() functions (comlib, server, android).
func MustRegister(reg Registry) { registries = append(registries, reg) }

// TaggedCommand pairs a command with the tag namespace it was
// registered under.
type TaggedCommand struct {
	Tag  string
	Info Info
}

// IterateCommands returns every command applicable to flavorType, across
// every registered tag.
func IterateCommands(flavorType flavor.Type) []TaggedCommand {
	ctx := &RegisterCtx{Flavor: flavorType}
	for _, reg := range registries {
		if reg.Tag == "" {
			continue
		}
		reg.RegisterFn(reg.Tag, ctx)
	}
	out := make([]TaggedCommand, 0, len(ctx.infos))
	for _, ti := range ctx.infos {
		out = append(out, TaggedCommand{Tag: ti.tag, Info: ti.info})
	}
	return out
}
