// Package fileset owns the memory-mapped byte ranges of the files
// selected for a repo, in flavor-defined order. It is the layer that
// maps file contents into memory; records built above it hold slices of
// those mapped bytes directly.
package fileset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loglens/corelog/internal/archive"
)

// File is one mapped source file: its path and the full byte range
// backing every Record built from it.
type File struct {
	Path string
	Data []byte

	closer func() error
}

// Set is an ordered, immutable collection of mapped files. Order matters:
// the line store concatenates files in this order and every line index
// depends on it.
type Set struct {
	Files []File
}

// Open maps each path in order, enabling every codec package archive
// recognizes. Equivalent to OpenFiltered(paths, nil).
func Open(paths []string) (*Set, error) {
	return OpenFiltered(paths, nil)
}

// OpenFiltered is Open with a codec allow-list: codecEnabled is called
// with an extension ("gz", "zst", "7z") and, if it returns false, that
// file is mapped as plain bytes instead of decompressed — letting a
// config.Options session narrow which archive codecs are trusted. A nil
// codecEnabled enables every codec, matching Open.
func OpenFiltered(paths []string, codecEnabled func(codec string) bool) (*Set, error) {
	set := &Set{Files: make([]File, 0, len(paths))}
	for _, p := range paths {
		codec := strings.TrimPrefix(strings.ToLower(filepath.Ext(p)), ".")
		if archive.Recognized(p) && (codecEnabled == nil || codecEnabled(codec)) {
			entries, err := archive.Expand(p)
			if err != nil {
				set.Close()
				return nil, fmt.Errorf("fileset: expanding %s: %w", p, err)
			}
			for _, e := range entries {
				set.AppendBytes(e.Path, e.Data)
			}
			continue
		}

		f, err := openOne(p)
		if err != nil {
			set.Close()
			return nil, fmt.Errorf("fileset: mapping %s: %w", p, err)
		}
		set.Files = append(set.Files, f)
	}
	return set, nil
}

// OpenBytes wraps already-in-memory data (e.g. decompressed by package
// archive) as a pseudo-file, keeping it addressable the same way as a
// mapped one.
func OpenBytes(path string, data []byte) File {
	return File{Path: path, Data: data}
}

// AppendBytes adds an in-memory pseudo-file to the set.
func (s *Set) AppendBytes(path string, data []byte) {
	s.Files = append(s.Files, OpenBytes(path, data))
}

func openOne(path string) (File, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if fi.Size() == 0 {
		return File{Path: path}, nil
	}

	data, closer, err := mmapFile(path, fi.Size())
	if err == nil {
		return File{Path: path, Data: data, closer: closer}, nil
	}

	// mmap failed (special file, permissions, unsupported platform):
	// fall back to a buffered read, matching the teacher's
	// MmapStderrParser fallback-to-StderrParser posture.
	data, err = os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return File{Path: path, Data: data}, nil
}

// Close releases every mapping. Safe to call once; a Set shared by a
// derived repo must only be closed by whichever owner created it.
func (s *Set) Close() error {
	var first error
	for i := range s.Files {
		if s.Files[i].closer == nil {
			continue
		}
		if err := s.Files[i].closer(); err != nil && first == nil {
			first = err
		}
		s.Files[i].closer = nil
	}
	return first
}

// NumFiles reports how many files back this set.
func (s *Set) NumFiles() int { return len(s.Files) }
