// Package translate renders a parsed log line as text or JSON, either
// verbatim (Raw) or through a per-flavor value translator (Translated)
// that turns opaque numeric parameter values into human-readable
// strings before rendering.
package translate

import (
	"encoding/json"
	"fmt"

	"github.com/loglens/corelog/internal/flavor"
	"github.com/loglens/corelog/internal/logline"
)

// Type selects whether rendering applies a value translator.
type Type uint8

const (
	Raw Type = iota
	Translated
)

// Format selects the rendered shape.
type Format uint8

const (
	Line Format = iota
	JSONFull
	JSONSingleParams
)

// jsonLine is the wire shape for JSONFull/JSONSingleParams rendering.
type jsonLine struct {
	Timestamp int64           `json:"timestamp"`
	ThreadID  int32           `json:"threadId"`
	Level     int             `json:"level"`
	Tag       string          `json:"tag"`
	Method    string          `json:"method"`
	Msg       string          `json:"msg"`
	Params    json.RawMessage `json:"params"`
}

// Render produces the requested representation of rec. Translated
// rendering that finds nothing to translate falls back to Raw,
// matching the fallback the original value translators used.
func Render(typ Type, format Format, flavorType flavor.Type, rec logline.Record) (string, error) {
	if typ == Translated {
		if translated, ok := applyTranslator(flavorType, rec); ok {
			return Render(Raw, format, flavorType, translated)
		}
		return Render(Raw, format, flavorType, rec)
	}

	switch format {
	case Line:
		return string(rec.Bytes()), nil
	case JSONFull:
		return renderJSON(rec, true)
	case JSONSingleParams:
		return renderJSON(rec, false)
	default:
		return "", fmt.Errorf("translate: unknown format %d", format)
	}
}

func renderJSON(rec logline.Record, fullParams bool) (string, error) {
	jl := jsonLine{
		Timestamp: rec.Timestamp,
		ThreadID:  rec.ThreadID,
		Level:     int(rec.Level),
		Tag:       rec.Tag(),
		Method:    rec.Method(),
		Msg:       rec.Msg(),
	}

	if fullParams {
		entries := logline.ParamEntries(rec.Params())
		if entries == nil {
			entries = []logline.ParamEntry{}
		}
		b, err := json.Marshal(entries)
		if err != nil {
			return "", err
		}
		jl.Params = b
	} else {
		b, err := json.Marshal(rec.Params())
		if err != nil {
			return "", err
		}
		jl.Params = b
	}

	b, err := json.MarshalIndent(jl, "", "\t")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// applyTranslator runs the flavor's value translator over rec's params
// and, if it rewrote anything, re-parses the rewritten line text into a
// fresh record so its section offsets stay consistent.
func applyTranslator(flavorType flavor.Type, rec logline.Record) (logline.Record, bool) {
	translator, ok := lookupTranslator(flavorType)
	if !ok {
		return logline.Record{}, false
	}

	newParams, ok := translator(rec)
	if !ok {
		return logline.Record{}, false
	}

	prefix := rec.Bytes()[:rec.ParamsSection().Offset]
	newLine := append(append([]byte{}, prefix...), newParams...)

	info, ok := flavor.Lookup(flavorType)
	if !ok {
		return logline.Record{}, false
	}

	newRec := logline.NewRecord(newLine, 0, len(newLine))
	if !info.Parse(newLine, &newRec) {
		return logline.Record{}, false
	}
	return newRec, true
}
