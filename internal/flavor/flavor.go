// Package flavor is the per-dialect registry: for each supported log
// flavor it carries a file-name accept pattern, a sort key pattern, a
// first-line signature, and a pure line parser that fills a
// logline.Record's field offsets.
package flavor

import (
	"regexp"

	"github.com/loglens/corelog/internal/logline"
)

// Type names a log dialect.
type Type int

const (
	Unknown Type = iota
	ComLib
	Server
	AndroidLogcat
)

func (t Type) String() string {
	switch t {
	case ComLib:
		return "ComLib"
	case Server:
		return "Server"
	case AndroidLogcat:
		return "AndroidLogcat"
	default:
		return "Unknown"
	}
}

// Parser is a pure function over a single physical line's bytes. It fills
// the record's level, thread id, timestamp and section offsets, and
// reports whether the line was accepted. It must never allocate beyond
// what Go's string/number conversions require internally, and never
// retain the slice past the call.
type Parser func(line []byte, rec *logline.Record) bool

// Info is everything the registry knows about one flavor.
type Info struct {
	Type Type

	// FileAccept matches an acceptable file's base name.
	FileAccept *regexp.Regexp
	// FileSort extracts (capture group 1) the signed integer sort key
	// from a file's base name.
	FileSort *regexp.Regexp
	// ReverseSort processes files in decreasing sort-key order (newest
	// rotation first), matching the flavor's rotation convention.
	ReverseSort bool

	// Signature matches a candidate file's first physical line, used to
	// sniff an unknown file's flavor.
	Signature *regexp.Regexp

	Parse Parser
}

var registry = map[Type]Info{}

func register(info Info) { registry[info.Type] = info }

// Lookup returns the registered Info for a flavor, or false if unknown.
func Lookup(t Type) (Info, bool) {
	info, ok := registry[t]
	return info, ok
}

// All returns every registered flavor, in declaration order (ComLib,
// Server, AndroidLogcat) — stable because Go map iteration would not be,
// so callers needing a deterministic order should use this.
func All() []Info {
	order := []Type{ComLib, Server, AndroidLogcat}
	out := make([]Info, 0, len(order))
	for _, t := range order {
		if info, ok := registry[t]; ok {
			out = append(out, info)
		}
	}
	return out
}

// Sniff returns the unique flavor whose signature matches firstLine, or
// Unknown if none (or more than one informally would, though the three
// shipped signatures are mutually exclusive by construction).
func Sniff(firstLine []byte) Type {
	for _, info := range All() {
		if info.Signature != nil && info.Signature.Match(firstLine) {
			return info.Type
		}
	}
	return Unknown
}
