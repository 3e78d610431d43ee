package flavor

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/loglens/corelog/internal/archive"
)

// ListFolderFiles returns the files under dir belonging to flavor t, in
// the order the flavor wants them processed (its rotation convention:
// increasing or decreasing numeric sort key). Equivalent to
// ListFolderFilesFiltered(dir, t, "").
func ListFolderFiles(dir string, t Type) ([]string, error) {
	return ListFolderFilesFiltered(dir, t, "")
}

// ListFolderFilesFiltered is ListFolderFiles with an optional file-name
// accept override: when nameOverride is non-empty it replaces the
// flavor's built-in FileAccept pattern, letting a session pick up a
// nonstandard rotation naming scheme without touching the registry.
func ListFolderFilesFiltered(dir string, t Type, nameOverride string) ([]string, error) {
	info, ok := Lookup(t)
	if !ok || info.FileAccept == nil {
		return nil, nil
	}

	accept := info.FileAccept
	if nameOverride != "" {
		re, err := regexp.Compile(nameOverride)
		if err != nil {
			return nil, err
		}
		accept = re
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type keyed struct {
		path string
		key  int
	}
	var matched []keyed
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		plainName := archive.StripCodecExt(name)
		if !accept.MatchString(plainName) {
			continue
		}
		key := 0
		if info.FileSort != nil {
			if m := info.FileSort.FindStringSubmatch(plainName); len(m) > 1 {
				if n, err := strconv.Atoi(m[1]); err == nil {
					key = n
				}
			}
		}
		matched = append(matched, keyed{path: filepath.Join(dir, name), key: key})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if info.ReverseSort {
			return matched[i].key > matched[j].key
		}
		return matched[i].key < matched[j].key
	})

	out := make([]string, len(matched))
	for i, m := range matched {
		out[i] = m.path
	}
	return out, nil
}

// RetrieveFileType sniffs a file's flavor from its first physical line.
func RetrieveFileType(data []byte) Type {
	end := len(data)
	for i, b := range data {
		if b == '\n' || b == '\r' {
			end = i
			break
		}
	}
	return Sniff(data[:end])
}
