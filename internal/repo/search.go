package repo

import (
	"encoding/json"

	"github.com/loglens/corelog/internal/linetools"
	"github.com/loglens/corelog/internal/translate"
)

// SearchText starts a literal-substring search cursor over the whole
// store. SearchTextRegex starts one over a compiled regular expression;
// a pattern that fails to compile yields a permanently invalid cursor
// rather than an error, per spec §4.4/§7.
func (r *Repo) SearchText(query string, caseSensitive bool) *linetools.Cursor {
	return r.tools.NewLiteralCursor(query, caseSensitive, linetools.LineRange{Start: 0, End: r.NumLines()})
}

func (r *Repo) SearchTextRegex(pattern string, caseSensitive bool) *linetools.Cursor {
	return r.tools.NewRegexCursor(pattern, caseSensitive, linetools.LineRange{Start: 0, End: r.NumLines()})
}

// SearchNext advances cursor to the next match after its current hit.
func (r *Repo) SearchNext(cursor *linetools.Cursor) *linetools.Cursor {
	return cursor.Next(r.tools)
}

type findHitJSON struct {
	Index   int   `json:"index"`
	Offsets []int `json:"offsets"`
}

// findAll drives cursor to exhaustion, grouping hits by line.
func (r *Repo) findAll(cursor *linetools.Cursor) string {
	var hits []findHitJSON
	for cursor.Valid {
		if len(hits) > 0 && hits[len(hits)-1].Index == cursor.LineIndex {
			hits[len(hits)-1].Offsets = append(hits[len(hits)-1].Offsets, cursor.LineOffset)
		} else {
			hits = append(hits, findHitJSON{Index: cursor.LineIndex, Offsets: []int{cursor.LineOffset}})
		}
		cursor = cursor.Next(r.tools)
	}
	if hits == nil {
		hits = []findHitJSON{}
	}
	b, err := json.MarshalIndent(hits, "", "\t")
	if err != nil {
		return "[]"
	}
	return string(b)
}

// FindAll runs a literal search to exhaustion and returns a JSON array
// of {index, offsets[]} per hit line.
func (r *Repo) FindAll(query string, caseSensitive bool) string {
	return r.findAll(r.SearchText(query, caseSensitive))
}

// FindAllRegex is FindAll's regex counterpart.
func (r *Repo) FindAllRegex(pattern string, caseSensitive bool) string {
	return r.findAll(r.SearchTextRegex(pattern, caseSensitive))
}

// RetrieveLineContent renders the line at index in the requested
// translation/format combination. An out-of-range index returns "".
func (r *Repo) RetrieveLineContent(index int, typ translate.Type, format translate.Format) string {
	if index < 0 || index >= r.NumLines() {
		return ""
	}
	s, err := translate.Render(typ, format, r.flavorType, r.tools.Line(index))
	if err != nil {
		return ""
	}
	return s
}

// GetLineIndex resolves a stable line id back to its current index. For
// an un-derived repo ids are dense and 1-based in store order, so the
// common case is O(1); a derived repo's records may have been
// reordered/subset, so it falls back to a linear scan.
func (r *Repo) GetLineIndex(id int) (int, bool) {
	if id >= 1 && id <= r.NumLines() {
		if r.tools.Line(id - 1).ID == id {
			return id - 1, true
		}
	}
	for i := 0; i < r.NumLines(); i++ {
		if r.tools.Line(i).ID == id {
			return i, true
		}
	}
	return 0, false
}
