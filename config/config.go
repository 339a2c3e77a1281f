// Package config loads the CLI's defaults from a YAML file: which
// block paths to load and in what order, the default K and
// similarity, and the serve command's listen address.
//
// This is a convenience for the command-line tools only. The engine
// itself (package index) never reads this file and has no concept of
// a manifest — index.Load still takes an explicit, caller-ordered
// []string, per spec.md §6. Persisting that ordered list is this
// package's job, not the engine's.
package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the CLI's on-disk defaults file.
type Config struct {
	// BlockPaths is the ordered list of block files that make up the
	// index. Order is significant (spec.md §6).
	BlockPaths []string `yaml:"block_paths"`

	// DefaultK is used by `fpindex query` when --k is not given.
	DefaultK int `yaml:"default_k"`

	// DefaultSimilarity is one of "jaccard", "set_intersection",
	// "set_intersection_norm_by_query_len".
	DefaultSimilarity string `yaml:"default_similarity"`

	// ListenAddr is the address `fpindex serve` binds to.
	ListenAddr string `yaml:"listen_addr"`
}

// defaults mirror index.DefaultK and index.Jaccard's string form.
func defaults() Config {
	return Config{
		DefaultK:          10,
		DefaultSimilarity: "jaccard",
		ListenAddr:        "localhost:8086",
	}
}

// Load reads and parses the YAML config file at path. Missing optional
// fields fall back to defaults().
func Load(path string) (*Config, error) {
	cfg := defaults()

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config: loading %q: %w", path, err)
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	if len(cfg.BlockPaths) == 0 {
		return nil, fmt.Errorf("config: %q: block_paths must list at least one block file", path)
	}
	return &cfg, nil
}
