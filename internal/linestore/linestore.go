// Package linestore turns a mapped fileset into an ordered, indexed
// sequence of logline.Record values: one store per repo, built once at
// open time and never mutated afterwards.
package linestore

import (
	"fmt"

	"github.com/loglens/corelog/internal/fileset"
	"github.com/loglens/corelog/internal/flavor"
	"github.com/loglens/corelog/internal/logline"
)

// FileLineRange is a half-open [Start, End) span of line indices that
// all originate from the same source file, in load order. Exporters use
// it to write a whole file's worth of lines as one contiguous byte
// write instead of line by line.
type FileLineRange struct {
	Path       string
	Start, End int
}

// Store is the indexed line sequence backing a repo. Records reference
// the fileset's mapped bytes directly; the Store holds no file bytes of
// its own.
type Store struct {
	Records    []logline.Record
	FileRanges []FileLineRange
}

// Build parses every file in set, in order, as flavor t, assigning
// sequential 1-based ids across the whole set the way a file-backed repo
// numbers its lines.
func Build(set *fileset.Set, t flavor.Type) (*Store, error) {
	info, ok := flavor.Lookup(t)
	if !ok || info.Parse == nil {
		return nil, fmt.Errorf("linestore: no parser registered for flavor %s", t)
	}

	var records []logline.Record
	var fileRanges []FileLineRange
	for i := range set.Files {
		before := len(records)
		processFileData(set.Files[i].Data, info.Parse, &records)
		if len(records) > before {
			fileRanges = append(fileRanges, FileLineRange{
				Path: set.Files[i].Path, Start: before, End: len(records),
			})
		}
	}
	for i := range records {
		records[i].ID = i + 1
	}
	return &Store{Records: records, FileRanges: fileRanges}, nil
}

// FromRecords wraps an already-built, already-indexed slice, used when
// deriving a repo from a command result or a line range: the records
// keep the ids they were given by their originating store. A derived
// store has no file ranges of its own — its lines are a scattered
// subset, not contiguous whole-file spans — so exporters fall back to
// per-line rendering for it.
func FromRecords(records []logline.Record) *Store {
	return &Store{Records: records}
}

// NumLines reports the line count.
func (s *Store) NumLines() int { return len(s.Records) }

// Line returns the record at 0-based index idx.
func (s *Store) Line(idx int) logline.Record { return s.Records[idx] }
