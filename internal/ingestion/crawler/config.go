// Package crawler discovers study-tour and camp programs on the web and
// stores them as campsites with source "crawler".
package crawler

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultUserAgent = "StudyTourBot/1.0 (+https://studytour.com/bot)"
	defaultDelay     = time.Second
	defaultTimeout   = 30 * time.Second
	defaultRetries   = 3
	defaultWorkers   = 4
	defaultMaxDepth  = 2
)

var defaultSeeds = []string{
	"https://www.cambridgeimmersion.com",
	"https://www.ef.com/wwen/programs/",
	"https://www.kaplaninternational.com/",
	"https://www.studyabroad.com/",
	"https://www.gooverseas.com/study-abroad",
}

var defaultKeywords = []string{
	"study abroad", "summer camp", "winter camp", "language camp",
	"educational program", "study tour", "international program",
	"student exchange", "immersion program", "academic program",
}

// Config controls one crawl. Zero fields take the defaults.
type Config struct {
	Seeds      []string      `yaml:"seeds"`
	Keywords   []string      `yaml:"keywords"`
	UserAgent  string        `yaml:"user_agent"`
	Delay      time.Duration `yaml:"delay"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	Workers    int           `yaml:"workers"`
	MaxDepth   int           `yaml:"max_depth"`
}

// DefaultConfig returns the built-in seeds and relevance keywords.
func DefaultConfig() Config {
	return Config{
		Seeds:      append([]string(nil), defaultSeeds...),
		Keywords:   append([]string(nil), defaultKeywords...),
		UserAgent:  defaultUserAgent,
		Delay:      defaultDelay,
		Timeout:    defaultTimeout,
		MaxRetries: defaultRetries,
		Workers:    defaultWorkers,
		MaxDepth:   defaultMaxDepth,
	}
}

// LoadConfig reads a YAML seeds file. Keys missing from the file keep
// their default values. An empty path returns the defaults.
//
//	seeds:
//	  - https://www.example-camps.com
//	keywords: [summer camp, study tour]
//	delay: 2s
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read crawler config: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("parse crawler config %s: %w", path, err)
	}
	cfg.merge(file)
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if len(o.Seeds) > 0 {
		c.Seeds = o.Seeds
	}
	if len(o.Keywords) > 0 {
		c.Keywords = o.Keywords
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Delay > 0 {
		c.Delay = o.Delay
	}
	if o.Timeout > 0 {
		c.Timeout = o.Timeout
	}
	if o.MaxRetries > 0 {
		c.MaxRetries = o.MaxRetries
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
	if o.MaxDepth > 0 {
		c.MaxDepth = o.MaxDepth
	}
}

// withDefaults fills every zero field.
func (c Config) withDefaults() Config {
	out := DefaultConfig()
	out.merge(c)
	return out
}
