package flavor

import (
	"time"

	"github.com/loglens/corelog/internal/logline"
)

// AndroidLogcat lines carry no year and no folder convention of their
// own; a capture is always a single, explicitly-named file, so this
// flavor registers no FileAccept/FileSort/Signature — it is never
// auto-discovered from a folder, only selected explicitly.
//
//	03-11 10:22:05.118  1234-5678/com.example.app I/ActivityManager: Displayed ...
//
// Two message shapes follow the "LEVEL/tag: " prefix: a plain logcat
// message (tag, then free text), or an embedded application message
// using the same account/tag/method/msg/params grammar as ComLib,
// recognized by a short "NN|" account lookahead.
func parseAndroidLogcat(line []byte, rec *logline.Record) bool {
	ts, ok := parseAndroidTimestamp(line)
	if !ok {
		return false
	}
	rec.Timestamp = ts

	s := scanner{buf: line, pos: 18}
	skipSpaces(&s)

	if _, ok := s.digitsUntil(); !ok { // pid, discarded
		return false
	}
	if !s.expect('-') {
		return false
	}
	threadID, ok := s.digitsUntil()
	if !ok || !s.expect('/') {
		return false
	}
	rec.ThreadID = threadID

	if _, ok := s.until(' '); !ok { // app name, discarded
		return false
	}
	s.skip(1)

	levelSec, ok := s.until('/')
	if !ok || levelSec.Size == 0 {
		return false
	}
	level, ok := logline.LevelFromByte(line[levelSec.Offset])
	if !ok {
		return false
	}
	rec.Level = level
	if !s.expect('/') {
		return false
	}

	if parseAndroidEmbeddedComLib(line, &s, rec) {
		return true
	}
	s.pos = int(levelSec.Offset) + int(levelSec.Size) + 1

	tagSec, ok := s.until(':')
	if !ok {
		return false
	}
	if !s.expect(':') {
		return false
	}
	if !s.done() && s.byte() == ' ' {
		s.skip(1)
	}
	msgSec := s.restOfLine()

	rec.SetSections(logline.Section{}, tagSec, logline.Section{}, msgSec, logline.Section{})
	return true
}

// parseAndroidEmbeddedComLib tries the "NN|tag: method|msg[|params]"
// shape; on failure it leaves rec untouched and returns false.
func parseAndroidEmbeddedComLib(line []byte, s *scanner, rec *logline.Record) bool {
	start := s.pos
	if s.pos+3 > len(line) {
		return false
	}
	isAccountByte := func(b byte) bool { return b == '-' || (b >= '0' && b <= '9') }
	if !isAccountByte(line[s.pos]) || !isAccountByte(line[s.pos+1]) || line[s.pos+2] != '|' {
		s.pos = start
		return false
	}
	s.skip(3)

	tagSec, ok := s.until(':')
	if !ok {
		s.pos = start
		return false
	}
	if !s.expect(':') {
		s.pos = start
		return false
	}

	// method: same mandatory leading/trailing space as ComLib proper.
	if s.done() || s.byte() != ' ' {
		s.pos = start
		return false
	}
	s.skip(1)
	methodSec, hasPipe := s.untilByteOrEnd('|')
	if !hasPipe {
		s.pos = start
		return false
	}
	if methodSec, ok = requireTrailingSpace(line, methodSec); !ok {
		s.pos = start
		return false
	}
	s.expect('|')

	// msg: same mandatory leading space; it may be the last section.
	if s.done() || s.byte() != ' ' {
		s.pos = start
		return false
	}
	s.skip(1)
	msgSec, hasParams := s.untilByteOrEnd('|')
	if hasParams {
		if msgSec, ok = requireTrailingSpace(line, msgSec); !ok {
			s.pos = start
			return false
		}
		s.expect('|')
	}

	var paramsSec logline.Section
	if hasParams {
		if s.done() || s.byte() != ' ' {
			s.pos = start
			return false
		}
		s.skip(1)
		paramsSec = s.restOfLine()
	}

	rec.SetSections(logline.Section{}, tagSec, methodSec, msgSec, paramsSec)
	return true
}

func skipSpaces(s *scanner) {
	for !s.done() && s.byte() == ' ' {
		s.pos++
	}
}

// parseAndroidTimestamp reads "MM-DD HH:MM:SS.mmm" (18 bytes, no year)
// and stamps it onto the current local year, the same local-time policy
// used by the timestamped flavors.
func parseAndroidTimestamp(b []byte) (int64, bool) {
	if len(b) < 18 {
		return 0, false
	}
	if b[2] != '-' || b[5] != ' ' || b[8] != ':' || b[11] != ':' || b[14] != '.' {
		return 0, false
	}
	month, ok1 := digits2(b[0:2])
	day, ok2 := digits2(b[3:5])
	hour, ok3 := digits2(b[6:8])
	min, ok4 := digits2(b[9:11])
	sec, ok5 := digits2(b[12:14])
	ms, ok6 := digits3(b[15:18])
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
		return 0, false
	}
	year := time.Now().Year()
	t := time.Date(year, time.Month(month), day, hour, min, sec, ms*int(time.Millisecond), time.Local)
	return t.UnixMilli(), true
}

var androidInfo = Info{
	Type:  AndroidLogcat,
	Parse: parseAndroidLogcat,
}

func init() { register(androidInfo) }
