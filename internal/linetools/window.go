package linetools

import "github.com/loglens/corelog/internal/logline"

// LineRange is a half-open [Start, End) span of line indices.
type LineRange struct {
	Start, End int
}

func (r LineRange) Empty() bool { return r.Start >= r.End }

func (r LineRange) NumLines() int {
	if r.Start < r.End {
		return r.End - r.Start
	}
	return 0
}

// Callback is invoked for each line that passes a filter during a
// window walk. curIndex counts only matching lines (0, 1, 2, ...);
// lineIndex is the absolute index into the store. Returning false stops
// the walk early.
type Callback func(curIndex int, line logline.Record, lineIndex int) bool

// Tools is a thin, allocation-free view over a store's records,
// providing the ranged walks every command builds on.
type Tools struct {
	lines []logline.Record
}

func New(lines []logline.Record) *Tools { return &Tools{lines: lines} }

func (t *Tools) NumLines() int { return len(t.lines) }

// Line returns the record at absolute index idx.
func (t *Tools) Line(idx int) logline.Record { return t.lines[idx] }

// WindowIterate walks targetRange forward, clamped to the store's
// length, calling cb for every line that passes filter. It returns the
// number of lines physically visited — including ones filter rejected —
// not the number that matched.
func (t *Tools) WindowIterate(targetRange LineRange, filter Filter, cb Callback) int {
	if targetRange.Start >= targetRange.End || targetRange.Start >= len(t.lines) {
		return 0
	}
	if targetRange.End > len(t.lines) {
		targetRange.End = len(t.lines)
	}

	curIndex := 0
	linesProcessed := 0
	for i := targetRange.Start; i < targetRange.End; i++ {
		linesProcessed++
		line := t.lines[i]
		if filter(&line) {
			if !cb(curIndex, line, i) {
				break
			}
			curIndex++
		}
	}
	return linesProcessed
}

// IterateBackwards walks from lineIndexStart down to 0 inclusive,
// stopping early if cb returns false.
func (t *Tools) IterateBackwards(lineIndexStart int, filter Filter, cb Callback) int {
	curIndex := 0
	linesProcessed := 0
	for i := lineIndexStart; ; i-- {
		linesProcessed++
		line := t.lines[i]
		if filter(&line) {
			if !cb(curIndex, line, i) {
				break
			}
			curIndex++
		}
		if i == 0 {
			break
		}
	}
	return linesProcessed
}

// IterateForward walks from lineIndexStart up to the end of the store.
func (t *Tools) IterateForward(lineIndexStart int, filter Filter, cb Callback) int {
	curIndex := 0
	linesProcessed := 0
	for i := lineIndexStart; i < len(t.lines); i++ {
		linesProcessed++
		line := t.lines[i]
		if filter(&line) {
			if !cb(curIndex, line, i) {
				break
			}
			curIndex++
		}
	}
	return linesProcessed
}
