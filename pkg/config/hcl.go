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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/renamerc/pkg/numbering"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
//
// Expressions can read the environment through the env object and call
// lower, upper and format:
//
//	find    = "IMG_"
//	replace = "${lower(env.USER)}_"
//	numbering {
//	  enabled = true
//	  padding = 3
//	}
type HCLParser struct{}

type hclNumbering struct {
	Enabled     bool    `hcl:"enabled,optional"`
	StartNumber *int    `hcl:"start_number,optional"`
	Increment   *int    `hcl:"increment,optional"`
	Padding     *int    `hcl:"padding,optional"`
	Separator   *string `hcl:"separator,optional"`
	Position    *string `hcl:"position,optional"`
	InsertIndex *int    `hcl:"insert_index,optional"`
}

type hclConfig struct {
	Find          string        `hcl:"find,optional"`
	Replace       string        `hcl:"replace,optional"`
	Regex         bool          `hcl:"regex,optional"`
	CaseSensitive bool          `hcl:"case_sensitive,optional"`
	FirstOnly     bool          `hcl:"first_only,optional"`
	Numbering     *hclNumbering `hcl:"numbering,block"`
	Include       string        `hcl:"include,optional"`
	Ignore        []string      `hcl:"ignore,optional"`
	CaseFold      bool          `hcl:"case_fold,optional"`
	Concurrency   int           `hcl:"concurrency,optional"`
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := New()
	cfg.Find = raw.Find
	cfg.Replace = raw.Replace
	cfg.Regex = raw.Regex
	cfg.CaseSensitive = raw.CaseSensitive
	cfg.FirstOnly = raw.FirstOnly
	cfg.Include = raw.Include
	cfg.Ignore = raw.Ignore
	cfg.CaseFold = raw.CaseFold
	cfg.Concurrency = raw.Concurrency

	if n := raw.Numbering; n != nil {
		cfg.Numbering.Enabled = n.Enabled
		setIf(&cfg.Numbering.StartNumber, n.StartNumber)
		setIf(&cfg.Numbering.Increment, n.Increment)
		setIf(&cfg.Numbering.Padding, n.Padding)
		setIf(&cfg.Numbering.Separator, n.Separator)
		setIf(&cfg.Numbering.InsertIndex, n.InsertIndex)
		if n.Position != nil {
			cfg.Numbering.Position = numbering.Position(*n.Position)
		}
	}

	return cfg, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
		Functions: map[string]function.Function{
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
			"format": stdlib.FormatFunc,
		},
	}
}
