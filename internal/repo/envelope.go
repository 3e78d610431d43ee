package repo

import "github.com/loglens/corelog/internal/command"

// lineGroupJSON is the wire shape of one named line-index group inside
// an envelope's "linesIndices" array.
type lineGroupJSON struct {
	Name    string `json:"name,omitempty"`
	Indices []int  `json:"indices"`
}

// networkPacketJSON is the wire shape of one synthetic packet inside an
// envelope's "networkPackets" array.
type networkPacketJSON struct {
	Domain    string       `json:"domain"`
	Timestamp int64        `json:"timestamp"`
	Endpoints [2]string    `json:"endpoints"`
	Line      lineSlice    `json:"line"`
}

type lineSlice struct {
	Index  int `json:"index"`
	Offset int `json:"offset"`
	Size   int `json:"size"`
}

// commandRef names the command a result envelope was produced for.
type commandRef struct {
	Tag    string `json:"tag"`
	Name   string `json:"name"`
	Params string `json:"params"`
}

// Envelope is the JSON document returned by ExecuteCommand: field names
// and nesting are part of the wire contract (spec §4.5) and must be
// reproduced verbatim.
type Envelope struct {
	Command        commandRef          `json:"command"`
	Executed       bool                `json:"executed"`
	LinesIndices   []lineGroupJSON     `json:"linesIndices"`
	NetworkPackets []networkPacketJSON `json:"networkPackets"`
	Output         any                 `json:"output,omitempty"`
}

func buildEnvelope(tag, name, params string, executed bool, ctx *command.ResultCtx) Envelope {
	env := Envelope{
		Command:  commandRef{Tag: tag, Name: name, Params: params},
		Executed: executed,
	}
	if ctx == nil {
		return env
	}
	env.Output = ctx.Output
	env.LinesIndices = make([]lineGroupJSON, len(ctx.LineGroups))
	for i, g := range ctx.LineGroups {
		env.LinesIndices[i] = lineGroupJSON{Name: g.Name, Indices: g.Indices}
	}
	env.NetworkPackets = make([]networkPacketJSON, len(ctx.NetworkPackets))
	for i, p := range ctx.NetworkPackets {
		domain := "IPv4"
		if p.IPv6 {
			domain = "IPv6"
		}
		env.NetworkPackets[i] = networkPacketJSON{
			Domain:    domain,
			Timestamp: p.Timestamp,
			Endpoints: [2]string{p.Src, p.Dst},
			Line: lineSlice{
				Index:  p.Content.LineIndex,
				Offset: p.Content.ContentOffset,
				Size:   p.Content.ContentSize,
			},
		}
	}
	return env
}
