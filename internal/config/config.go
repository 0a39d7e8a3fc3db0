// Package config loads the miner's YAML configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andreea312/Pull-Requests-Acceptance-Prediction/internal/record"
)

// Config is the full run configuration. Zero values for the tuning knobs
// select the orchestrator defaults.
type Config struct {
	Repositories []string `yaml:"repositories"`
	Tokens       []string `yaml:"tokens"`
	OutputDir    string   `yaml:"output_dir"`
	CacheDB      string   `yaml:"cache_db"`

	Target         int `yaml:"target_prs_with_python"`
	FetchBatchSize int `yaml:"fetch_batch_size"`
	SaveEvery      int `yaml:"save_every"`
	Workers        int `yaml:"max_workers"`

	// Vocabularies override the built-in keyword sets for the title
	// labels; empty sets keep the defaults.
	Vocabularies record.Vocabularies `yaml:"keyword_vocabularies"`
}

// Load reads and validates the configuration at path. Tokens from the
// GITHUB_TOKENS environment variable (comma-separated) take precedence over
// the file so credentials can stay out of committed configs.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if env := os.Getenv("GITHUB_TOKENS"); env != "" {
		cfg.Tokens = nil
		for _, tok := range strings.Split(env, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				cfg.Tokens = append(cfg.Tokens, tok)
			}
		}
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "data"
	}
	if cfg.CacheDB == "" {
		cfg.CacheDB = "content-cache.db"
	}
	cfg.Vocabularies = mergeVocabularies(cfg.Vocabularies)
	return cfg, nil
}

// mergeVocabularies fills empty keyword sets from the defaults, keeping any
// the config overrode.
func mergeVocabularies(v record.Vocabularies) record.Vocabularies {
	def := record.DefaultVocabularies()
	if len(v.Bugfix) == 0 {
		v.Bugfix = def.Bugfix
	}
	if len(v.Refactor) == 0 {
		v.Refactor = def.Refactor
	}
	if len(v.Feature) == 0 {
		v.Feature = def.Feature
	}
	return v
}
