package flavor

import "time"

// parseTimestamp reads a fixed "YYYY-MM-DD HH:MM:SS.mmm" prefix (23
// bytes) and returns milliseconds since the Unix epoch.
//
// The source logs carry no time-zone information, so — matching the
// original collector, which built the value with the platform's local
// mktime — timestamps are interpreted in the process's local time zone.
// This is a deliberate, documented policy rather than a default: a
// corpus moved between machines in different zones will shift tokenized
// times is it re-rendered with time.Local formatting, which mirrors the
// original tool's own behavior rather than introducing a new ambiguity.
func parseTimestamp(b []byte) (int64, bool) {
	if len(b) < 23 {
		return 0, false
	}
	if b[4] != '-' || b[7] != '-' || b[10] != ' ' || b[13] != ':' || b[16] != ':' || b[19] != '.' {
		return 0, false
	}
	year, ok1 := digits4(b[0:4])
	month, ok2 := digits2(b[5:7])
	day, ok3 := digits2(b[8:10])
	hour, ok4 := digits2(b[11:13])
	min, ok5 := digits2(b[14:16])
	sec, ok6 := digits2(b[17:19])
	ms, ok7 := digits3(b[20:23])
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || !ok7 {
		return 0, false
	}
	t := time.Date(year, time.Month(month), day, hour, min, sec, ms*int(time.Millisecond), time.Local)
	return t.UnixMilli(), true
}

func digitVal(b byte) (int, bool) {
	if b < '0' || b > '9' {
		return 0, false
	}
	return int(b - '0'), true
}

func digits2(b []byte) (int, bool) {
	d0, ok0 := digitVal(b[0])
	d1, ok1 := digitVal(b[1])
	if !ok0 || !ok1 {
		return 0, false
	}
	return d0*10 + d1, true
}

func digits3(b []byte) (int, bool) {
	d0, ok0 := digitVal(b[0])
	d1, ok1 := digitVal(b[1])
	d2, ok2 := digitVal(b[2])
	if !ok0 || !ok1 || !ok2 {
		return 0, false
	}
	return d0*100 + d1*10 + d2, true
}

func digits4(b []byte) (int, bool) {
	hi, ok0 := digits2(b[0:2])
	lo, ok1 := digits2(b[2:4])
	if !ok0 || !ok1 {
		return 0, false
	}
	return hi*100 + lo, true
}
