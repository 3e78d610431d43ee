package cmd

import (
	"os"

	"github.com/loglens/corelog/internal/config"
	"github.com/loglens/corelog/internal/repo"
)

// openRepo opens path as a repo of the --flavor-selected type, honoring
// --config if set. path may name either a single file or a directory;
// a directory is expanded through ListFolderFilesFiltered the way a
// folder argument always has been.
func openRepo(path string) (*repo.Repo, error) {
	t := parseFlavor(flavorFlag)

	opts, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return repo.InitRepoFolderWithConfig(t, path, opts)
	}
	return repo.InitRepoFileWithConfig(t, path, opts)
}
