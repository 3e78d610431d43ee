package flavor

import (
	"regexp"

	"github.com/loglens/corelog/internal/logline"
)

// Server lines look like:
//
//	2024-03-11 10:22:05.118|INFO |io-thread-2|sip|handleInvite|dialog established
//
// timestamp(23) '|' level '|' threadName '|' tag '|' method '|' msg
func parseServer(line []byte, rec *logline.Record) bool {
	ts, ok := parseTimestamp(line)
	if !ok || len(line) < 24 || line[23] != '|' {
		return false
	}
	rec.Timestamp = ts

	s := scanner{buf: line, pos: 23}
	if !s.expect('|') {
		return false
	}

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

	threadNameSec, ok := s.until('|')
	if !ok {
		return false
	}
	threadNameSec = trimTrailingSpace(line, threadNameSec)
	if !s.expect('|') {
		return false
	}

	tagSec, ok := s.until('|')
	if !ok {
		return false
	}
	tagSec = trimTrailingSpace(line, tagSec)
	if !s.expect('|') {
		return false
	}

	methodSec, ok := s.until('|')
	if !ok {
		return false
	}
	methodSec = trimTrailingSpace(line, methodSec)
	if !s.expect('|') {
		return false
	}

	msgSec := s.restOfLine()

	rec.SetSections(threadNameSec, tagSec, methodSec, msgSec, logline.Section{})
	return true
}

var serverInfo = Info{
	Type:        Server,
	FileAccept:  regexp.MustCompile(`^\d\d-(console|msrp|sip|libs|cms)\.log$`),
	FileSort:    regexp.MustCompile(`^(\d\d)-(?:console|msrp|sip|libs|cms)\.log$`),
	ReverseSort: true,
	Signature:   regexp.MustCompile(`^\d\d\d\d-\d\d-\d\d \d\d:\d\d:\d\d\.\d\d\d\|[A-Z]{4,} ?\|[\w -]+\|\w+`),
	Parse:       parseServer,
}

func init() { register(serverInfo) }
