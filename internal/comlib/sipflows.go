package comlib

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/loglens/corelog/internal/command"
	"github.com/loglens/corelog/internal/linetools"
	"github.com/loglens/corelog/internal/logline"
)

// localEndpoint is the synthetic local side of every SIP packet this
// command emits — the real local address is never present in the
// PJSIP debug text, only the remote peer is.
const localEndpoint = "127.0.0.1:0"

var (
	sipExtractCallID = regexp.MustCompile(`Call-ID: (.*)`)
	sipExtractCSeq    = regexp.MustCompile(`CSeq: .+ (.+)`)
	sipMatchTX        = regexp.MustCompile(`\.TX \d+ bytes `)
	sipMatchRX        = regexp.MustCompile(`\.RX \d+ bytes `)
	sipExtractPeer    = regexp.MustCompile(`\) (to|from) (?:TCP|UDP) (\d+\.\d+\.\d+\.\d+:\d+):`)
)

type sipDialogData struct {
	method        string
	txLineIndices []int
	rxLineIndices []int
	lineIndices   []int
}

// sipDialogBody extracts the SIP message text embedded in a PJSIP debug
// line, the part after the first header line (ending ":\n") and before a
// trailing "--end msg--" marker.
func sipDialogBody(msg string) string {
	idx := strings.Index(msg, ":\n")
	if idx < 0 {
		return msg
	}
	body := msg[idx+2:]
	if end := strings.Index(body, "\n--end msg--"); end >= 0 {
		body = body[:end]
	}
	return body
}

func cmdSIPFlows(ctx *command.ResultCtx, tools *linetools.Tools, params string) {
	if tools.NumLines() == 0 {
		return
	}
	lineRange := linetools.LineRange{Start: 0, End: tools.NumLines()}
	filterDiagCallID := ""
	methodFilter := trimCommandParams(params)

	filter := linetools.All(
		linetools.LevelEq(logline.Debug),
		linetools.TagMatch(logline.Exact, "COMLib.PJSIP"),
		linetools.MsgMatch(logline.Contains, "pjsua_core.c"),
	)

	if len(methodFilter) >= 2 && methodFilter[0] == ':' && methodFilter[1] != ':' {
		lineIndex, err := strconv.Atoi(methodFilter[1:])
		if err != nil {
			return
		}
		tools.IterateBackwards(lineIndex, filter, func(_ int, line logline.Record, _ int) bool {
			body := sipDialogBody(line.Msg())
			if m := sipExtractCallID.FindStringSubmatch(body); m != nil {
				filterDiagCallID = m[1]
				return false
			}
			return true
		})
		methodFilter = ""
	}

	var jExecs []map[string]any

	for _, execRange := range executionsRanges(tools) {
		dialogs := map[string]*sipDialogData{}
		var order []string

		tools.WindowIterate(execRange, filter, func(_ int, line logline.Record, lineIndex int) bool {
			msg := line.Msg()
			body := sipDialogBody(msg)

			m := sipExtractCallID.FindStringSubmatch(body)
			if m == nil {
				return true
			}
			callID := m[1]
			if filterDiagCallID != "" && callID != filterDiagCallID {
				return true
			}

			dialog, ok := dialogs[callID]
			if !ok {
				dialog = &sipDialogData{}
				dialogs[callID] = dialog
				order = append(order, callID)
			}

			if dialog.method == "" {
				if cm := sipExtractCSeq.FindStringSubmatch(body); cm != nil {
					dialog.method = cm[1]
				}
			}

			isTX := sipMatchTX.MatchString(msg)
			isRX := sipMatchRX.MatchString(msg)
			switch {
			case isTX:
				dialog.txLineIndices = append(dialog.txLineIndices, lineIndex)
			case isRX:
				dialog.rxLineIndices = append(dialog.rxLineIndices, lineIndex)
			}
			dialog.lineIndices = append(dialog.lineIndices, lineIndex)

			if pm := sipExtractPeer.FindStringSubmatch(msg); pm != nil {
				peer := pm[2]
				bodyOffset := int(line.MsgSection().Offset) + strings.Index(msg, body)
				content := command.LineContent{LineIndex: lineIndex, ContentOffset: bodyOffset, ContentSize: len(body)}
				if pm[1] == "to" {
					ctx.AddNetworkPacketIPV4(localEndpoint, peer, line.Timestamp, content)
				} else {
					ctx.AddNetworkPacketIPV4(peer, localEndpoint, line.Timestamp, content)
				}
			}

			return true
		})

		if len(order) == 0 {
			continue
		}
		sort.Strings(order)

		var jDialogs []map[string]any
		for _, callID := range order {
			dialog := dialogs[callID]
			if methodFilter != "" && dialog.method != methodFilter {
				continue
			}
			jDialogs = append(jDialogs, map[string]any{
				"callId":        callID,
				"method":        dialog.method,
				"txLineIndices": dialog.txLineIndices,
				"rxLineIndices": dialog.rxLineIndices,
				"linesIndex":    ctx.AddLineIndices("", dialog.lineIndices),
			})
		}
		if len(jDialogs) == 0 {
			continue
		}

		jExecs = append(jExecs, map[string]any{
			"lineIndexRange": []int{execRange.Start, execRange.End},
			"dialogs":        jDialogs,
		})
	}

	ctx.Output = jExecs
}
