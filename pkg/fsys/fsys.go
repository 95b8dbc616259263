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

package fsys

import (
	"context"

	"github.com/walteh/renamerc/pkg/operation"
	"github.com/walteh/renamerc/pkg/pattern"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrNotExist     = errors.Base("path does not exist")
	ErrNotDirectory = errors.Base("path is not a directory")
	ErrTargetExists = errors.Base("target already exists")
)

// 🔌 Provider is the file system the rename and delete drivers work against
type Provider interface {
	// 📂 List returns every file below dir, directories excluded
	List(ctx context.Context, dir string, opts ListOptions) ([]string, error)

	// 🚚 Move renames each file in order, continuing past failures. A move
	// onto an existing file fails instead of replacing it.
	Move(ctx context.Context, moves []Move, progress operation.RenameReporter) (*MoveResult, error)

	// 🗑️ Delete removes each path, continuing past failures
	Delete(ctx context.Context, paths []string, opts DeleteOptions) (*DeleteResult, error)

	// 🔍 Search returns the entries below dir whose names match a query
	Search(ctx context.Context, dir string, opts SearchOptions) ([]Match, error)
}

// ListOptions configures List
type ListOptions struct {
	Include  string   // doublestar pattern relative to dir, "**" when empty
	Ignore   []string // doublestar patterns relative to dir
	Progress operation.ListReporter
}

// Move is one planned rename
type Move struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Failure records a path that could not be processed
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// 📦 MoveResult lists the new paths that were moved and the failures
type MoveResult struct {
	Moved  []string  `json:"moved"`
	Failed []Failure `json:"failed"`
}

// DeleteOptions configures Delete
type DeleteOptions struct {
	// DeleteEmptyDirs removes parent directories left empty, deepest first
	DeleteEmptyDirs bool
}

// 📦 DeleteResult lists deleted paths, failures and removed directories
type DeleteResult struct {
	Deleted     []string  `json:"deleted"`
	Failed      []Failure `json:"failed"`
	DeletedDirs []string  `json:"deleted_dirs"`
}

// SearchOptions configures Search
type SearchOptions struct {
	Query         string
	Mode          pattern.SearchMode
	Recursive     bool
	CaseSensitive bool
}

// 🎯 Match is a search hit
type Match struct {
	Path   string          `json:"path"`
	Name   string          `json:"name"`
	Ranges []pattern.Range `json:"ranges"`
	Size   int64           `json:"size"`
	IsDir  bool            `json:"is_dir"`
}
