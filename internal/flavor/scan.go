package flavor

import "github.com/loglens/corelog/internal/logline"

// scanner is a tiny forward-only cursor over a single physical line,
// shared by the three flavor parsers. It never copies; every token it
// returns is a logline.Section relative to the start of the line.
type scanner struct {
	buf []byte
	pos int
}

func (s *scanner) done() bool { return s.pos >= len(s.buf) }

func (s *scanner) byte() byte { return s.buf[s.pos] }

func (s *scanner) skip(n int) bool {
	if s.pos+n > len(s.buf) {
		return false
	}
	s.pos += n
	return true
}

func (s *scanner) expect(b byte) bool {
	if s.done() || s.byte() != b {
		return false
	}
	s.pos++
	return true
}

// until advances to the next occurrence of delim (not consuming it)
// and returns the section spanning [start, delim). ok is false if delim
// never appears.
func (s *scanner) until(delim byte) (logline.Section, bool) {
	start := s.pos
	for s.pos < len(s.buf) && s.buf[s.pos] != delim {
		s.pos++
	}
	if s.pos >= len(s.buf) {
		return logline.Section{}, false
	}
	return logline.Section{Offset: uint32(start), Size: uint32(s.pos - start)}, true
}

// untilAny advances to the next occurrence of either delim (not
// consuming it), returning which one stopped it; ok is false if neither
// appears before the end.
func (s *scanner) untilAny(d1, d2 byte) (logline.Section, byte, bool) {
	start := s.pos
	for s.pos < len(s.buf) {
		if s.buf[s.pos] == d1 || s.buf[s.pos] == d2 {
			return logline.Section{Offset: uint32(start), Size: uint32(s.pos - start)}, s.buf[s.pos], true
		}
		s.pos++
	}
	return logline.Section{Offset: uint32(start), Size: uint32(s.pos - start)}, 0, false
}

// untilByteOrEnd advances to the next occurrence of delim (not
// consuming it) and returns the section up to it, or the section running
// to the end of the buffer with ok=false if delim never appears.
func (s *scanner) untilByteOrEnd(delim byte) (logline.Section, bool) {
	start := s.pos
	for s.pos < len(s.buf) {
		if s.buf[s.pos] == delim {
			return logline.Section{Offset: uint32(start), Size: uint32(s.pos - start)}, true
		}
		s.pos++
	}
	return logline.Section{Offset: uint32(start), Size: uint32(s.pos - start)}, false
}

// restOfLine returns the remainder of the buffer as a section.
func (s *scanner) restOfLine() logline.Section {
	sec := logline.Section{Offset: uint32(s.pos), Size: uint32(len(s.buf) - s.pos)}
	s.pos = len(s.buf)
	return sec
}

// digitsUntil consumes a run of ASCII digits, stopping at the first
// non-digit, and returns its parsed value. ok is false if no digit was
// consumed.
func (s *scanner) digitsUntil() (int32, bool) {
	start := s.pos
	var neg bool
	if s.pos < len(s.buf) && s.buf[s.pos] == '-' {
		neg = true
		s.pos++
	}
	var v int32
	n := 0
	for s.pos < len(s.buf) && s.buf[s.pos] >= '0' && s.buf[s.pos] <= '9' {
		v = v*10 + int32(s.buf[s.pos]-'0')
		s.pos++
		n++
	}
	if n == 0 {
		s.pos = start
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// trimTrailingSpace shrinks a section to exclude a single trailing space
// byte, matching the flavors' "trim trailing space before the
// delimiter" convention (a field written as "value |" keeps "value").
func trimTrailingSpace(buf []byte, sec logline.Section) logline.Section {
	if sec.Size == 0 {
		return sec
	}
	end := int(sec.Offset) + int(sec.Size)
	if buf[end-1] == ' ' {
		sec.Size--
	}
	return sec
}

// requireTrailingSpace is trimTrailingSpace's strict counterpart: it
// fails instead of passing the section through unchanged when the last
// character isn't a space. ComLib's grammar mandates this separating
// space before method/msg's closing '|'; a missing one rejects the line.
func requireTrailingSpace(buf []byte, sec logline.Section) (logline.Section, bool) {
	if sec.Size == 0 {
		return sec, false
	}
	end := int(sec.Offset) + int(sec.Size)
	if buf[end-1] != ' ' {
		return sec, false
	}
	sec.Size--
	return sec, true
}
