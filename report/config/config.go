// Package config holds the run configuration. Values come from an optional
// YAML file, command line flags override them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// OverviewFile is the project overview csv, relative to the data dir.
	OverviewFile string `yaml:"overview_file"`
	// BugfixesDir holds one <project>.csv per project, relative to the data dir.
	BugfixesDir string `yaml:"bugfixes_dir"`
	// MergesDir holds one <project>.csv per project, relative to the data dir.
	MergesDir string `yaml:"merges_dir"`
	// ReposDir holds one working copy per project.
	ReposDir string `yaml:"repos_dir"`
	// OutDir receives the generated html files.
	OutDir string `yaml:"out_dir"`
	// GitCommand is the git executable to invoke.
	GitCommand string `yaml:"git_command"`
	// Concurrency is the number of projects processed in parallel. 1 keeps
	// the run fully sequential.
	Concurrency int `yaml:"concurrency"`
	// CacheDir enables on-disk caching of git output when non-empty.
	CacheDir string `yaml:"cache_dir"`
}

func Default() Config {
	return Config{
		OverviewFile: "fix-counts.csv",
		BugfixesDir:  "bugfixes",
		MergesDir:    "merges",
		ReposDir:     "repos",
		OutDir:       "html-overview",
		GitCommand:   "git",
		Concurrency:  1,
	}
}

// Load reads a YAML config file on top of the defaults. Fields absent from
// the file keep their default.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("can't read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("can't parse config file %v: %v", path, err)
	}
	return c, nil
}

// Validate rejects configurations the pipeline can't run with.
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %v", c.Concurrency)
	}
	if c.GitCommand == "" {
		return fmt.Errorf("git command must not be empty")
	}
	if c.OutDir == "" {
		return fmt.Errorf("output dir must not be empty")
	}
	return nil
}
