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


package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/renamerc/pkg/diff"
	"github.com/walteh/renamerc/pkg/fsys"
	"github.com/walteh/renamerc/pkg/pattern"
	"github.com/walteh/renamerc/pkg/rename"
	"github.com/walteh/renamerc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("previewing 3 files")
			},
			wantLogs: []string{
				"renamerc • previewing 3 files",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
		{
			name: "move_result_success",
			op: func(t *testing.T, logger *Logger) {
				logger.MoveResult(context.Background(), &fsys.MoveResult{Moved: []string{"a", "b"}})
			},
			wantLogs: []string{
				"✅ renamed 2 files",
			},
		},
		{
			name: "move_result_failures",
			op: func(t *testing.T, logger *Logger) {
				logger.MoveResult(context.Background(), &fsys.MoveResult{
					Moved:  []string{"a"},
					Failed: []fsys.Failure{{Path: "/d/b", Error: "permission denied"}},
				})
			},
			wantLogs: []string{
				"❌ /d/b: permission denied",
				"⚠️  renamed 1 files, 1 failed",
			},
		},
		{
			name: "preview_summary_collisions",
			op: func(t *testing.T, logger *Logger) {
				logger.PreviewSummary(context.Background(), &rename.Batch{Items: []rename.Item{
					{Path: "/d/a", Name: "a", NewName: "x", HasCollision: true},
					{Path: "/d/b", Name: "b", NewName: "x", HasCollision: true},
					{Path: "/d/c", Name: "c", NewName: "c"},
				}})
			},
			wantLogs: []string{
				"⚠️  3 files, 2 to rename, 2 collisions",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestPreviewItemFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		item     rename.Item
		showDiff bool
		want     string
	}{
		{
			name: "renamed_file",
			item: rename.Item{Path: "/d/a.txt", Name: "a.txt", NewName: "b.txt"},
			want: "    ✓ a.txt                               rename       b.txt",
		},
		{
			name: "collision",
			item: rename.Item{Path: "/d/a.txt", Name: "a.txt", NewName: "x.txt", HasCollision: true},
			want: "    ✗ a.txt                               collision    x.txt",
		},
		{
			name: "unchanged",
			item: rename.Item{Path: "/d/a.txt", Name: "a.txt", NewName: "a.txt"},
			want: "    • a.txt                               unchanged    a.txt",
		},
		{
			name: "pattern_error",
			item: rename.Item{Path: "/d/a.txt", Name: "a.txt", NewName: "a.txt", Err: errors.New("bad pattern")},
			want: "    ! a.txt                               error        bad pattern",
		},
		{
			name:     "diff_view",
			item:     rename.Item{Path: "/d/ab.txt", Name: "ab.txt", NewName: "ac.txt", Diff: diff.Compute("ab.txt", "ac.txt")},
			showDiff: true,
			want:     "    ✓ ab.txt                              rename       abc.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			logger.PreviewItem(context.Background(), tt.item, tt.showDiff)

			assert.Equal(t, tt.want, strings.TrimRight(buf.String(), "\n"), "formatted output should match")
			assert.Equal(t, 1, logger.Items())
		})
	}
}

func TestHighlight(t *testing.T) {
	color.NoColor = false
	defer func() { color.NoColor = true }()

	segs := []text.Segment{
		{Start: 0, End: 2, Group: text.GroupNumber, Content: "01"},
		{Start: 3, End: 4, Group: 1, Content: "b"},
	}
	got := Highlight("01_bé", segs)

	assert.Contains(t, got, groupColor(text.GroupNumber).Sprint("01"))
	assert.Contains(t, got, groupColor(1).Sprint("b"))
	assert.True(t, strings.HasSuffix(got, "é"), "unmarked tail should be kept")

	color.NoColor = true
	assert.Equal(t, "01_bé", Highlight("01_bé", segs), "without color the text is unchanged")
	assert.Equal(t, "short", Highlight("short", []text.Segment{{Start: 3, End: 20}}), "out of range segments are skipped")
}

func TestHighlightSource(t *testing.T) {
	spans, err := pattern.MustCompile(`(\d)`, pattern.Options{Regex: true}).Match("img7.jpg")
	require.NoError(t, err)
	pieces := pattern.Segments("img7.jpg", spans)

	color.NoColor = true
	assert.Equal(t, "img7.jpg", HighlightSource(pieces))

	color.NoColor = false
	defer func() { color.NoColor = true }()
	got := HighlightSource(pieces)
	assert.True(t, strings.HasPrefix(got, "img"))
	assert.Contains(t, got, groupColor(1).Sprint("7"))
	assert.True(t, strings.HasSuffix(got, ".jpg"))
}

func TestPreviewItemSourceKeepsColumns(t *testing.T) {
	color.NoColor = true

	item := rename.Item{
		Path:    "/d/img7.jpg",
		Name:    "img7.jpg",
		NewName: "img8.jpg",
		Source: []pattern.Piece{
			{Text: "img", Group: pattern.NoGroup},
			{Text: "7", Group: 0},
			{Text: ".jpg", Group: pattern.NoGroup},
		},
	}
	plain := item
	plain.Source = nil

	with, without := &bytes.Buffer{}, &bytes.Buffer{}
	New(with, zerolog.InfoLevel).PreviewItem(context.Background(), item, false)
	New(without, zerolog.InfoLevel).PreviewItem(context.Background(), plain, false)
	assert.Equal(t, without.String(), with.String())
}

func TestHighlightRanges(t *testing.T) {
	color.NoColor = true
	assert.Equal(t, "report.txt", HighlightRanges("report.txt", []pattern.Range{{Start: 0, End: 6}}))

	color.NoColor = false
	defer func() { color.NoColor = true }()
	got := HighlightRanges("report.txt", []pattern.Range{{Start: 7, End: 10}})
	assert.True(t, strings.HasPrefix(got, "report."))
	assert.NotEqual(t, "report.txt", got)
}
