// Package repo is the top-level façade a front end drives: it owns one
// indexed line store plus the command/inspector catalogue applicable to
// its flavor, and exposes search, summary, command execution and export
// as JSON-producing operations. A repo derived from another (by command
// result or line range) shares the source's mapped files without owning
// them, so only the originating repo's Close tears the mapping down.
package repo

import (
	"encoding/json"
	"fmt"

	"github.com/loglens/corelog/internal/command"
	"github.com/loglens/corelog/internal/config"
	"github.com/loglens/corelog/internal/fileset"
	"github.com/loglens/corelog/internal/flavor"
	"github.com/loglens/corelog/internal/linestore"
	"github.com/loglens/corelog/internal/linetools"
	"github.com/loglens/corelog/internal/logline"
)

type taggedCmds struct {
	tag  string
	cmds []command.Info
}

// Repo is an indexed, searchable, command-executable view over a set of
// log lines.
type Repo struct {
	store *linestore.Store
	tools *linetools.Tools
	files *fileset.Set // shared with the source for a derived repo; never closed by it
	owns  bool
	flavorType flavor.Type
	cmds  []taggedCmds
}

// ListFolderFiles lists the files under dir a folder-backed repo of
// flavor t would pick up, in the flavor's processing order.
func ListFolderFiles(t flavor.Type, dir string) ([]string, error) {
	return flavor.ListFolderFiles(dir, t)
}

// InitRepoFile opens a single file as a repo, with every archive codec
// enabled. Equivalent to InitRepoFileWithConfig(t, path, config.Default()).
func InitRepoFile(t flavor.Type, path string) (*Repo, error) {
	return InitRepoFileWithConfig(t, path, config.Default())
}

// InitRepoFileWithConfig opens a single file as a repo, honoring opts'
// archive codec allow-list.
func InitRepoFileWithConfig(t flavor.Type, path string, opts config.Options) (*Repo, error) {
	set, err := fileset.OpenFiltered([]string{path}, opts.CodecEnabled)
	if err != nil {
		return nil, err
	}
	return newRepo(set, t, true)
}

// InitRepoFolder opens every file ListFolderFiles selects under dir,
// with every archive codec enabled. Equivalent to
// InitRepoFolderWithConfig(t, dir, config.Default()).
func InitRepoFolder(t flavor.Type, dir string) (*Repo, error) {
	return InitRepoFolderWithConfig(t, dir, config.Default())
}

// InitRepoFolderWithConfig opens every file ListFolderFiles selects
// under dir, honoring opts' file-name override and archive codec
// allow-list.
func InitRepoFolderWithConfig(t flavor.Type, dir string, opts config.Options) (*Repo, error) {
	paths, err := flavor.ListFolderFilesFiltered(dir, t, opts.FileNameOverride)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("repo: no files of flavor %s found under %s", t, dir)
	}
	set, err := fileset.OpenFiltered(paths, opts.CodecEnabled)
	if err != nil {
		return nil, err
	}
	return newRepo(set, t, true)
}

func newRepo(set *fileset.Set, t flavor.Type, owns bool) (*Repo, error) {
	store, err := linestore.Build(set, t)
	if err != nil {
		if owns {
			set.Close()
		}
		return nil, err
	}
	r := &Repo{
		store:      store,
		tools:      linetools.New(store.Records),
		files:      set,
		owns:       owns,
		flavorType: t,
	}
	r.loadCommands()
	return r, nil
}

func (r *Repo) loadCommands() {
	byTag := map[string][]command.Info{}
	var order []string
	for _, tc := range command.IterateCommands(r.flavorType) {
		if _, ok := byTag[tc.Tag]; !ok {
			order = append(order, tc.Tag)
		}
		byTag[tc.Tag] = append(byTag[tc.Tag], tc.Info)
	}
	for _, tag := range order {
		r.cmds = append(r.cmds, taggedCmds{tag: tag, cmds: byTag[tag]})
	}
}

// initRepoFromRecords builds a derived repo sharing the source's tools
// filter catalogue and file mapping, the way a command-result or
// line-range repo reuses its source's m_cmds/m_repoFiles.
func initRepoFromRecords(source *Repo, records []logline.Record) *Repo {
	return &Repo{
		store:      linestore.FromRecords(records),
		tools:      linetools.New(records),
		files:      source.files,
		owns:       false,
		flavorType: source.flavorType,
		cmds:       source.cmds,
	}
}

// InitRepoFromCommand derives a repo from one ExecuteCommand result's
// linesIndices groups — every in-range line any group referenced,
// concatenated in group order; an index listed in several groups
// appears once per listing.
func InitRepoFromCommand(source *Repo, commandResultJSON string) (*Repo, error) {
	if commandResultJSON == "" {
		return nil, fmt.Errorf("repo: empty command result")
	}

	var parsed struct {
		LinesIndices []struct {
			Indices []int `json:"indices"`
		} `json:"linesIndices"`
	}
	if err := json.Unmarshal([]byte(commandResultJSON), &parsed); err != nil {
		return nil, fmt.Errorf("repo: parsing command result: %w", err)
	}

	var records []logline.Record
	for _, group := range parsed.LinesIndices {
		for _, idx := range group.Indices {
			if idx < 0 || idx >= source.NumLines() {
				continue
			}
			records = append(records, source.tools.Line(idx))
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("repo: command result referenced no lines")
	}

	return initRepoFromRecords(source, records), nil
}

// InitRepoFromLineRange derives a repo from one contiguous [indexStart,
// indexStart+count) span of a source repo.
func InitRepoFromLineRange(source *Repo, indexStart, count int) (*Repo, error) {
	if count <= 0 || indexStart+count > source.NumLines() {
		return nil, fmt.Errorf("repo: line range out of bounds")
	}

	records := make([]logline.Record, count)
	for i := 0; i < count; i++ {
		records[i] = source.tools.Line(indexStart + i)
	}
	return initRepoFromRecords(source, records), nil
}

// Close releases the underlying file mapping. A derived repo's Close is
// a no-op — it never owned the mapping.
func (r *Repo) Close() error {
	if !r.owns || r.files == nil {
		return nil
	}
	return r.files.Close()
}

func (r *Repo) NumFiles() int {
	if r.files == nil {
		return 0
	}
	return r.files.NumFiles()
}

func (r *Repo) NumLines() int { return r.store.NumLines() }

func (r *Repo) Flavor() flavor.Type { return r.flavorType }
