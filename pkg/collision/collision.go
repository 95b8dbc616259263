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

// Package collision finds batch items that would end up at the same path.
//
// Detection is always a whole-batch pass. Flags from an earlier pass are
// never reused, so callers run Detect again after any change to the batch.
package collision

import (
	"path/filepath"
	"strings"
)

// Item is one planned rename
type Item struct {
	Path    string // current full path
	Name    string // current file name, the trailing element of Path
	NewName string // planned file name
}

type options struct {
	caseFold bool
}

// Option configures Detect
type Option func(*options)

// WithCaseFold compares resulting paths case-insensitively, matching file
// systems where "A.txt" and "a.txt" are the same file.
func WithCaseFold() Option {
	return func(o *options) {
		o.caseFold = true
	}
}

// TargetPath returns the path item would have after the rename: NewName in
// place of the trailing Name.
func TargetPath(item Item) string {
	if item.Name != "" && strings.HasSuffix(item.Path, item.Name) {
		return item.Path[:len(item.Path)-len(item.Name)] + item.NewName
	}
	return filepath.Join(filepath.Dir(item.Path), item.NewName)
}

// 💥 Detect maps every item path to whether its target path is shared with
// at least one other item in the batch.
func Detect(items []Item, opts ...Option) map[string]bool {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	key := func(p string) string {
		if o.caseFold {
			return strings.ToLower(p)
		}
		return p
	}

	counts := make(map[string]int, len(items))
	targets := make([]string, len(items))
	for i, item := range items {
		targets[i] = key(TargetPath(item))
		counts[targets[i]]++
	}

	out := make(map[string]bool, len(items))
	for i, item := range items {
		out[item.Path] = out[item.Path] || counts[targets[i]] > 1
	}
	return out
}
