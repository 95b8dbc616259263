// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/renamerc/pkg/fsys"
	"github.com/walteh/renamerc/pkg/numbering"
	"github.com/walteh/renamerc/pkg/pattern"
	"github.com/walteh/renamerc/pkg/rename"
	"gitlab.com/tozd/go/errors"
)

// DefaultFilename is the config file Load tries as YAML, then as HCL
const DefaultFilename = ".renamerc"

var (
	ErrNoParser    = errors.Base("no parser for config file")
	ErrEmptyRename = errors.Base("find is required unless numbering is enabled")
	ErrInvalidGlob = errors.Base("invalid glob pattern")
	ErrConcurrency = errors.Base("concurrency cannot be negative")
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config is one rename job as written in a config file
type Config struct {
	Find          string         `json:"find" yaml:"find"`
	Replace       string         `json:"replace" yaml:"replace"`
	Regex         bool           `json:"regex,omitempty" yaml:"regex,omitempty"`
	CaseSensitive bool           `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty"`
	FirstOnly     bool           `json:"first_only,omitempty" yaml:"first_only,omitempty"`
	Numbering     numbering.Spec `json:"numbering" yaml:"numbering"`

	Include     string   `json:"include,omitempty" yaml:"include,omitempty"`         // glob of files to rename, relative to the directory
	Ignore      []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`           // globs of files to skip
	CaseFold    bool     `json:"case_fold,omitempty" yaml:"case_fold,omitempty"`     // treat targets differing only in case as collisions
	Concurrency int      `json:"concurrency,omitempty" yaml:"concurrency,omitempty"` // preview workers, 0 means one per CPU

	location string
}

// New returns a config with the numbering defaults filled in. Parsers
// decode on top of it so fields a file leaves out keep their defaults.
func New() *Config {
	return &Config{Numbering: numbering.Default()}
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load reads and validates the config at path
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := Read(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Stringer("config", cfg).Msg("configuration loaded")
	return cfg, nil
}

// Read parses the config at path without validating it, for callers that
// override fields before calling Validate. The parser is picked by
// extension; a file named .renamerc is tried as YAML and then as HCL.
func Read(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("reading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	if filepath.Base(path) == DefaultFilename {
		cfg, err = parseRC(ctx, data)
	} else {
		p := GetParser(path)
		if p == nil {
			return nil, errors.Errorf("%w: %s", ErrNoParser, path)
		}
		cfg, err = p.Parse(ctx, data)
	}
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg.location = path
	return cfg, nil
}

func parseRC(ctx context.Context, data []byte) (*Config, error) {
	cfg, yerr := (&YAMLParser{}).Parse(ctx, data)
	if yerr == nil {
		return cfg, nil
	}
	zerolog.Ctx(ctx).Debug().Err(yerr).Msg("config is not YAML, trying HCL")

	cfg, herr := (&HCLParser{}).Parse(ctx, data)
	if herr == nil {
		return cfg, nil
	}
	return nil, errors.Errorf("%s is neither YAML (%v) nor HCL: %w", DefaultFilename, yerr, herr)
}

// 🔍 Validate checks the config and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.Find == "" && !cfg.Numbering.Enabled {
		return ErrEmptyRename
	}

	if cfg.Find != "" {
		if _, err := pattern.Compile(cfg.Find, pattern.Options{Regex: cfg.Regex, CaseSensitive: cfg.CaseSensitive}); err != nil {
			return errors.Errorf("find: %w", err)
		}
	}

	if cfg.Numbering.Increment == 0 {
		cfg.Numbering.Increment = 1
	}
	if cfg.Numbering.Padding < 1 {
		cfg.Numbering.Padding = 1
	}
	if cfg.Numbering.Position == "" {
		cfg.Numbering.Position = numbering.PositionStart
	}
	if err := cfg.Numbering.Validate(); err != nil {
		return errors.Errorf("numbering: %w", err)
	}

	if cfg.Include != "" && !doublestar.ValidatePattern(cfg.Include) {
		return errors.Errorf("%w: include %q", ErrInvalidGlob, cfg.Include)
	}
	for _, ig := range cfg.Ignore {
		if !doublestar.ValidatePattern(ig) {
			return errors.Errorf("%w: ignore %q", ErrInvalidGlob, ig)
		}
	}

	if cfg.Concurrency < 0 {
		return errors.Errorf("%w: %d", ErrConcurrency, cfg.Concurrency)
	}

	return nil
}

// Rename returns the rename configuration
func (cfg *Config) Rename() rename.Config {
	return rename.Config{
		Find:          cfg.Find,
		Replace:       cfg.Replace,
		Regex:         cfg.Regex,
		CaseSensitive: cfg.CaseSensitive,
		FirstOnly:     cfg.FirstOnly,
		Numbering:     cfg.Numbering,
	}
}

// PreviewOptions returns the batch options for rename.Preview
func (cfg *Config) PreviewOptions() []rename.Option {
	var opts []rename.Option
	if cfg.CaseFold {
		opts = append(opts, rename.WithCaseFold())
	}
	if cfg.Concurrency > 0 {
		opts = append(opts, rename.WithConcurrency(cfg.Concurrency))
	}
	return opts
}

// ListOptions returns the file selection for fsys.Provider.List
func (cfg *Config) ListOptions() fsys.ListOptions {
	return fsys.ListOptions{Include: cfg.Include, Ignore: cfg.Ignore}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	s := cfg.Rename().String()
	if cfg.Include != "" {
		s += fmt.Sprintf(" include=%s", cfg.Include)
	}
	if len(cfg.Ignore) > 0 {
		s += fmt.Sprintf(" ignore=%s", strings.Join(cfg.Ignore, ","))
	}
	return s
}
