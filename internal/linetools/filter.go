// Package linetools is the windowed iteration and search substrate every
// higher-level command is built on: ranged forward/backward walks with a
// filter predicate, and literal substring search across a line window.
package linetools

import "github.com/loglens/corelog/internal/logline"

// Filter reports whether a record matches. Filters compose with All,
// mirroring a conjunction of independent predicates.
type Filter func(rec *logline.Record) bool

// All combines filters with logical AND; a zero-filter All matches
// everything.
func All(filters ...Filter) Filter {
	return func(rec *logline.Record) bool {
		for _, f := range filters {
			if !f(rec) {
				return false
			}
		}
		return true
	}
}

// LevelEq matches an exact severity.
func LevelEq(level logline.Level) Filter {
	return func(rec *logline.Record) bool { return rec.Level == level }
}

// ThreadIDEq matches an exact thread id.
func ThreadIDEq(id int32) Filter {
	return func(rec *logline.Record) bool { return rec.ThreadID == id }
}

// ThreadNameMatch, TagMatch, MethodMatch, MsgMatch match a record's
// string sections using the given comparison mode.
func ThreadNameMatch(mode logline.MatchMode, value string) Filter {
	return func(rec *logline.Record) bool { return rec.CheckThreadName(mode, value) }
}

func TagMatch(mode logline.MatchMode, value string) Filter {
	return func(rec *logline.Record) bool { return rec.CheckTag(mode, value) }
}

func MethodMatch(mode logline.MatchMode, value string) Filter {
	return func(rec *logline.Record) bool { return rec.CheckMethod(mode, value) }
}

func MsgMatch(mode logline.MatchMode, value string) Filter {
	return func(rec *logline.Record) bool { return rec.CheckMsg(mode, value) }
}
