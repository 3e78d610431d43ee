// Package config loads optional session-tuning values from a YAML
// file, mirroring the teacher's own use of gopkg.in/yaml.v3 for its
// config surface. Nothing here changes parse or command semantics —
// Options only toggles ambient ingestion behavior.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options is the full set of non-semantic session tuning values a
// session may load from YAML.
type Options struct {
	// Archive lists which archive/compression codecs package archive
	// should unwrap during folder scanning. An empty list means every
	// codec archive.Recognized understands is enabled — this field only
	// lets a session narrow that set.
	Archive []string `yaml:"archive"`

	// FileNameOverride, if set, replaces a flavor's built-in file-name
	// accept pattern for folder scanning (e.g. to pick up a
	// nonstandard rotation naming scheme).
	FileNameOverride string `yaml:"fileNameOverride"`

	// Output holds CLI rendering preferences. They are parsed but no CLI
	// code reads them: the commands table takes color and width from the
	// terminal.
	Output OutputOptions `yaml:"output"`
}

// OutputOptions holds the parsed color and width preferences.
type OutputOptions struct {
	Color bool `yaml:"color"`
	Width int  `yaml:"width"`
}

// Default returns the zero-tuning configuration: every codec enabled,
// no file-name override, Output.Color true and Output.Width 0.
func Default() Options {
	return Options{Output: OutputOptions{Color: true}}
}

// Load reads and parses a YAML config file. A missing file is not an
// error — it yields Default() unchanged, since config is optional
// tuning, not a required session input.
func Load(path string) (Options, error) {
	opts := Default()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return opts, nil
}

// CodecEnabled reports whether codec (one of "gz", "zst", "7z") should
// be unwrapped during ingestion, honoring an explicit allow-list when
// one was configured.
func (o Options) CodecEnabled(codec string) bool {
	if len(o.Archive) == 0 {
		return true
	}
	for _, c := range o.Archive {
		if c == codec {
			return true
		}
	}
	return false
}
