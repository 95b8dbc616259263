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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/renamerc/pkg/numbering"
	"github.com/walteh/renamerc/pkg/pattern"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing config file should succeed")
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("RENAMERC_PREFIX", "Trip")

	tests := []struct {
		name     string
		filename string
		config   string
		wantErr  error
		check    func(t *testing.T, cfg *Config)
	}{
		{
			name:     "yaml_full",
			filename: "config.yaml",
			config: `
find: 'IMG_(\d+)'
replace: photo_$1
regex: true
first_only: true
numbering:
  enabled: true
  padding: 3
  position: end
include: "**/*.jpg"
ignore:
  - ".git/**"
case_fold: true
concurrency: 4
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, `IMG_(\d+)`, cfg.Find, "find should match")
				assert.Equal(t, "photo_$1", cfg.Replace, "replace should match")
				assert.True(t, cfg.Regex, "regex should be set")
				assert.True(t, cfg.FirstOnly, "first only should be set")
				assert.False(t, cfg.CaseSensitive, "case sensitivity should default off")
				assert.Equal(t, numbering.Spec{
					Enabled:     true,
					StartNumber: 1,
					Increment:   1,
					Padding:     3,
					Separator:   "_",
					Position:    numbering.PositionEnd,
				}, cfg.Numbering, "unset numbering fields should keep defaults")
				assert.Equal(t, "**/*.jpg", cfg.Include)
				assert.Equal(t, []string{".git/**"}, cfg.Ignore)
				assert.True(t, cfg.CaseFold)
				assert.Equal(t, 4, cfg.Concurrency)
			},
		},
		{
			name:     "yaml_minimal",
			filename: "config.yml",
			config:   "find: foo\nreplace: bar\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "foo", cfg.Find)
				assert.False(t, cfg.Numbering.Enabled, "numbering should be off by default")
			},
		},
		{
			name:     "json",
			filename: "config.json",
			config:   `{"find": " ", "replace": "_", "case_sensitive": true, "numbering": {"enabled": true, "start_number": 0, "separator": "-"}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, " ", cfg.Find)
				assert.True(t, cfg.CaseSensitive)
				assert.Equal(t, 0, cfg.Numbering.StartNumber, "explicit zero should be kept")
				assert.Equal(t, "-", cfg.Numbering.Separator)
				assert.Equal(t, numbering.PositionStart, cfg.Numbering.Position)
			},
		},
		{
			name:     "hcl",
			filename: "config.hcl",
			config: `
find    = "IMG_"
replace = "${lower(env.RENAMERC_PREFIX)}_"
ignore  = ["*.tmp"]

numbering {
  enabled      = true
  position     = "index"
  insert_index = 2
  separator    = ""
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "IMG_", cfg.Find)
				assert.Equal(t, "trip_", cfg.Replace, "env and functions should be evaluated")
				assert.Equal(t, []string{"*.tmp"}, cfg.Ignore)
				assert.Equal(t, numbering.PositionIndex, cfg.Numbering.Position)
				assert.Equal(t, 2, cfg.Numbering.InsertIndex)
				assert.Equal(t, "", cfg.Numbering.Separator, "explicit empty separator should be kept")
				assert.Equal(t, 1, cfg.Numbering.StartNumber)
			},
		},
		{
			name:     "renamerc_yaml",
			filename: ".renamerc",
			config:   "find: a\nreplace: b\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "a", cfg.Find)
				assert.Equal(t, "b", cfg.Replace)
			},
		},
		{
			name:     "renamerc_hcl",
			filename: ".renamerc",
			config:   "find = \"a\"\nreplace = format(\"%s-%d\", \"b\", 2)\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "a", cfg.Find)
				assert.Equal(t, "b-2", cfg.Replace)
			},
		},
		{
			name:     "unknown_extension",
			filename: "config.toml",
			config:   "find = 'a'",
			wantErr:  ErrNoParser,
		},
		{
			name:     "empty_rename",
			filename: "config.yaml",
			config:   "replace: b\n",
			wantErr:  ErrEmptyRename,
		},
		{
			name:     "bad_position",
			filename: "config.yaml",
			config:   "find: a\nnumbering:\n  enabled: true\n  position: middle\n",
			wantErr:  numbering.ErrUnknownPosition,
		},
		{
			name:     "bad_glob",
			filename: "config.json",
			config:   `{"find": "a", "ignore": ["[unclosed"]}`,
			wantErr:  ErrInvalidGlob,
		},
		{
			name:     "negative_concurrency",
			filename: "config.yaml",
			config:   "find: a\nconcurrency: -1\n",
			wantErr:  ErrConcurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.filename, tt.config)

			cfg, err := Load(testContext(t), path)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, path, cfg.Location())
			tt.check(t, cfg)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		config   string
	}{
		{name: "yaml_unknown_field", filename: "config.yaml", config: "find: a\nreplacement: b\n"},
		{name: "json_unknown_field", filename: "config.json", config: `{"find": "a", "nope": true}`},
		{name: "hcl_unknown_field", filename: "config.hcl", config: "find = \"a\"\nnope = true\n"},
		{name: "hcl_syntax", filename: "config.hcl", config: "find = \n"},
		{name: "renamerc_neither", filename: ".renamerc", config: "find = [\n"},
		{name: "invalid_regex", filename: "config.yaml", config: "find: '('\nregex: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(testContext(t), writeConfig(t, tt.filename, tt.config))
			assert.Error(t, err)
		})
	}

	_, err := Load(testContext(t), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "missing file should wrap os.ErrNotExist")
}

func TestValidateInvalidRegex(t *testing.T) {
	cfg := New()
	cfg.Find = "[a-"
	cfg.Regex = true

	err := cfg.Validate()
	var perr *pattern.PatternError
	require.True(t, errors.As(err, &perr), "should carry the pattern error")
}

func TestValidateDefaults(t *testing.T) {
	cfg := &Config{Numbering: numbering.Spec{Enabled: true}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Numbering.Increment)
	assert.Equal(t, 1, cfg.Numbering.Padding)
	assert.Equal(t, numbering.PositionStart, cfg.Numbering.Position)
}

func TestConfigAccessors(t *testing.T) {
	cfg := New()
	cfg.Find = "a"
	cfg.Replace = "b"
	cfg.Regex = true
	cfg.Include = "*.txt"
	cfg.Ignore = []string{"x", "y"}
	cfg.CaseFold = true
	cfg.Concurrency = 2
	require.NoError(t, cfg.Validate())

	rc := cfg.Rename()
	assert.Equal(t, "a", rc.Find)
	assert.Equal(t, "b", rc.Replace)
	assert.True(t, rc.Regex)
	assert.Equal(t, cfg.Numbering, rc.Numbering)

	assert.Len(t, cfg.PreviewOptions(), 2)
	assert.Equal(t, "*.txt", cfg.ListOptions().Include)
	assert.Equal(t, []string{"x", "y"}, cfg.ListOptions().Ignore)
	assert.Equal(t, `"a" -> "b" (regex) include=*.txt ignore=x,y`, cfg.String())
}

func TestReadSkipsValidation(t *testing.T) {
	path := writeConfig(t, "config.yaml", "replace: b\n")

	cfg, err := Read(testContext(t), path)
	require.NoError(t, err, "read should not validate")
	assert.Equal(t, path, cfg.Location())

	cfg.Find = "a"
	assert.NoError(t, cfg.Validate(), "config should be valid once find is set")
}
