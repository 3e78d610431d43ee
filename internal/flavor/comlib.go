package flavor

import (
	"regexp"

	"github.com/loglens/corelog/internal/logline"
)

// ComLib lines look like:
//
//	2024-03-11 10:22:05.118 42 |INFO |-1|accounts: login | user authenticated | id=7; result=ok
//
// timestamp(23) ' ' threadId ' ' '|' level '|' account '|' tag ':'
// ' ' method ' ' '|' ' ' msg [' ' '|' ' ' params]
//
// Method and msg each require a leading space after their opening
// delimiter and a trailing space right before their closing '|' — the
// "method | msg | params" spacing is part of the grammar, not
// incidental formatting.
func parseComLib(line []byte, rec *logline.Record) bool {
	ts, ok := parseTimestamp(line)
	if !ok || len(line) < 24 || line[23] != ' ' {
		return false
	}
	rec.Timestamp = ts

	s := scanner{buf: line, pos: 24}
	threadID, ok := s.digitsUntil()
	if !ok || !s.expect(' ') || !s.expect('|') {
		return false
	}
	rec.ThreadID = threadID

	levelSec, ok := s.until('|')
	if !ok || levelSec.Size == 0 {
		return false
	}
	level, ok := logline.LevelFromByte(line[levelSec.Offset])
	if !ok {
		return false
	}
	rec.Level = level
	if !s.expect('|') {
		return false
	}

	if !s.skip(2) || !s.expect('|') {
		return false
	}

	tagSec, ok := s.until(':')
	if !ok {
		return false
	}
	if !s.expect(':') {
		return false
	}

	// method: a mandatory leading space, then text with a mandatory
	// trailing space right before its closing '|'.
	if s.done() || s.byte() != ' ' {
		return false
	}
	s.skip(1)
	methodSec, hasPipe := s.untilByteOrEnd('|')
	if !hasPipe {
		return false
	}
	if methodSec, ok = requireTrailingSpace(line, methodSec); !ok {
		return false
	}
	s.expect('|')

	// msg: same mandatory leading space; it may be the last section on
	// the line, in which case no closing '|' (and no trailing space) is
	// required.
	if s.done() || s.byte() != ' ' {
		return false
	}
	s.skip(1)
	msgSec, hasParams := s.untilByteOrEnd('|')
	if hasParams {
		if msgSec, ok = requireTrailingSpace(line, msgSec); !ok {
			return false
		}
		s.expect('|')
	}

	var paramsSec logline.Section
	if hasParams {
		if s.done() || s.byte() != ' ' {
			return false
		}
		s.skip(1)
		paramsSec = s.restOfLine()
	}

	rec.SetSections(logline.Section{}, tagSec, methodSec, msgSec, paramsSec)
	return true
}

var comlibInfo = Info{
	Type:       ComLib,
	FileAccept: regexp.MustCompile(`^comlib\.\d\d\d\.log$`),
	FileSort:   regexp.MustCompile(`^comlib\.(\d\d\d)\.log$`),
	ReverseSort: true,
	Signature:  regexp.MustCompile(`^\d\d\d\d-\d\d-\d\d \d\d:\d\d:\d\d\.\d\d\d \d+ \|[A-Z]{4,} ?\|[\-0-9]{2}\|\w`),
	Parse:      parseComLib,
}

func init() { register(comlibInfo) }
