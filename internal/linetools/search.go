package linetools

import (
	"bytes"
	"regexp"
)

// SearchResult names where a content search landed.
type SearchResult struct {
	Valid      bool
	LineIndex  int
	LineOffset int
}

// bmhSearch finds the first occurrence of pattern in text at or after
// from, using Boyer-Moore-Horspool. It is hand-rolled because this is
// specified core search logic (the substrate every text-matching
// command sits on), not an ambient concern with a ready-made library
// fit in the examples.
func bmhSearch(text []byte, pattern []byte, from int) (int, bool) {
	n, m := len(text), len(pattern)
	if m == 0 {
		if from <= n {
			return from, true
		}
		return 0, false
	}
	if from < 0 {
		from = 0
	}
	if from+m > n {
		return 0, false
	}

	var badChar [256]int
	for i := range badChar {
		badChar[i] = m
	}
	for i := 0; i < m-1; i++ {
		badChar[pattern[i]] = m - 1 - i
	}

	i := from
	for i <= n-m {
		j := m - 1
		for j >= 0 && text[i+j] == pattern[j] {
			j--
		}
		if j < 0 {
			return i, true
		}
		i += badChar[text[i+m-1]]
	}
	return 0, false
}

// WindowSearch scans targetRange forward for the first line containing
// query, resuming the first line's search at startCharacterIndex (so a
// caller can ask for the next match after a previous one on the same
// line).
func (t *Tools) WindowSearch(targetRange LineRange, startCharacterIndex int, query []byte) SearchResult {
	if targetRange.Start >= targetRange.End || targetRange.Start >= len(t.lines) {
		return SearchResult{}
	}
	if targetRange.End > len(t.lines) {
		targetRange.End = len(t.lines)
	}

	from := startCharacterIndex
	for i := targetRange.Start; i < targetRange.End; i++ {
		content := t.lines[i].Bytes()
		if off, ok := bmhSearch(content, query, from); ok {
			return SearchResult{Valid: true, LineIndex: i, LineOffset: off}
		}
		from = 0
	}
	return SearchResult{}
}

// WindowFindAll returns every line index in targetRange whose content
// contains query.
func (t *Tools) WindowFindAll(targetRange LineRange, query []byte) []int {
	var out []int
	r := targetRange
	for !r.Empty() {
		res := t.WindowSearch(r, 0, query)
		if !res.Valid {
			break
		}
		out = append(out, res.LineIndex)
		r.Start = res.LineIndex + 1
	}
	return out
}

// WindowFindFirst returns the first line index in targetRange whose
// content contains query.
func (t *Tools) WindowFindFirst(targetRange LineRange, query []byte) (int, bool) {
	res := t.WindowSearch(targetRange, 0, query)
	if !res.Valid {
		return 0, false
	}
	return res.LineIndex, true
}

// regexSearch scans targetRange forward for the first line a compiled
// pattern matches, resuming the first line's search at
// startCharacterIndex the same way WindowSearch does for a literal
// query.
func (t *Tools) regexSearch(targetRange LineRange, startCharacterIndex int, re *regexp.Regexp) SearchResult {
	if targetRange.Start >= targetRange.End || targetRange.Start >= len(t.lines) {
		return SearchResult{}
	}
	if targetRange.End > len(t.lines) {
		targetRange.End = len(t.lines)
	}

	from := startCharacterIndex
	for i := targetRange.Start; i < targetRange.End; i++ {
		content := t.lines[i].Bytes()
		if from < len(content) {
			if loc := re.FindIndex(content[from:]); loc != nil {
				return SearchResult{Valid: true, LineIndex: i, LineOffset: from + loc[0]}
			}
		}
		from = 0
	}
	return SearchResult{}
}

// caseFold lower-cases needle and haystack so literal search can be
// performed case-insensitively without a regex compile.
func caseFold(b []byte) []byte { return bytes.ToLower(b) }

// Cursor is a user-visible, resumable search position: the query (a
// literal or a compiled regex), whether it matches case-sensitively, and
// the last hit it landed on. An invalid cursor (e.g. built from a regex
// that failed to compile) is idempotent under Next.
type Cursor struct {
	query         []byte
	re            *regexp.Regexp
	caseSensitive bool
	lineRange     LineRange

	Valid      bool
	LineIndex  int
	LineOffset int
}

// NewLiteralCursor builds a cursor over a literal substring query,
// folding case if caseSensitive is false.
func (t *Tools) NewLiteralCursor(query string, caseSensitive bool, r LineRange) *Cursor {
	if query == "" {
		return &Cursor{}
	}
	q := []byte(query)
	if !caseSensitive {
		q = caseFold(q)
	}
	c := &Cursor{query: q, caseSensitive: caseSensitive, lineRange: r}
	c.advance(t, r.Start, 0)
	return c
}

// NewRegexCursor builds a cursor over a regular expression. A compile
// failure yields a permanently invalid cursor, matching the spec's
// "confined to the search cursor" error policy.
func (t *Tools) NewRegexCursor(pattern string, caseSensitive bool, r LineRange) *Cursor {
	if pattern == "" {
		return &Cursor{}
	}
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &Cursor{}
	}
	c := &Cursor{re: re, caseSensitive: caseSensitive, lineRange: r}
	c.advance(t, r.Start, 0)
	return c
}

func (c *Cursor) advance(t *Tools, fromLine, fromOffset int) {
	r := LineRange{Start: fromLine, End: c.lineRange.End}
	var res SearchResult
	if c.re != nil {
		res = t.regexSearch(r, fromOffset, c.re)
	} else if c.query != nil {
		res = t.windowSearchFolded(r, fromOffset, c.query, c.caseSensitive)
	}
	c.Valid = res.Valid
	c.LineIndex = res.LineIndex
	c.LineOffset = res.LineOffset
}

// windowSearchFolded is WindowSearch generalized to optionally fold case
// on both the haystack and the needle before matching.
func (t *Tools) windowSearchFolded(targetRange LineRange, startCharacterIndex int, query []byte, caseSensitive bool) SearchResult {
	if caseSensitive {
		return t.WindowSearch(targetRange, startCharacterIndex, query)
	}
	if targetRange.Start >= targetRange.End || targetRange.Start >= len(t.lines) {
		return SearchResult{}
	}
	if targetRange.End > len(t.lines) {
		targetRange.End = len(t.lines)
	}

	from := startCharacterIndex
	for i := targetRange.Start; i < targetRange.End; i++ {
		content := caseFold(t.lines[i].Bytes())
		if off, ok := bmhSearch(content, query, from); ok {
			return SearchResult{Valid: true, LineIndex: i, LineOffset: off}
		}
		from = 0
	}
	return SearchResult{}
}

// Next re-runs the cursor's query starting just past its last hit. An
// already-invalid cursor stays invalid (a no-op), matching the spec's
// idempotent-under-search_next rule.
func (c *Cursor) Next(t *Tools) *Cursor {
	if !c.Valid {
		return c
	}
	next := *c
	next.advance(t, c.LineIndex, c.LineOffset+1)
	return &next
}
