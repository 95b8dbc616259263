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
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/renamerc/pkg/diff"
	"github.com/walteh/renamerc/pkg/fsys"
	"github.com/walteh/renamerc/pkg/pattern"
	"github.com/walteh/renamerc/pkg/rename"
	"github.com/walteh/renamerc/pkg/text"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for the current name
	statusWidth = 12 // Width for status text
)

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	items   int
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func status(item rename.Item) (rune, color.Attribute, string) {
	switch {
	case item.Err != nil:
		return '!', color.FgYellow, "error"
	case item.HasCollision:
		return '✗', color.FgRed, "collision"
	case item.Changed():
		return '✓', color.FgGreen, "rename"
	default:
		return '•', color.FgCyan, "unchanged"
	}
}

// groupColor picks the color for a replacement segment
func groupColor(group int) *color.Color {
	switch {
	case group == text.GroupNumber:
		return color.New(color.FgMagenta, color.Bold)
	case group == text.GroupLiteral:
		return color.New(color.FgGreen)
	case group == 0:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

// 🖍️ Highlight renders name with every segment in its group's color.
// Unmarked runes are printed as they are.
func Highlight(name string, segs []text.Segment) string {
	runes := []rune(name)
	var sb strings.Builder
	last := 0
	for _, s := range segs {
		if s.Start < last || s.End > len(runes) {
			continue
		}
		sb.WriteString(string(runes[last:s.Start]))
		sb.WriteString(groupColor(s.Group).Sprint(string(runes[s.Start:s.End])))
		last = s.End
	}
	sb.WriteString(string(runes[last:]))
	return sb.String()
}

// HighlightSource renders the pieces of an original name, matched pieces in
// their group's color
func HighlightSource(pieces []pattern.Piece) string {
	var sb strings.Builder
	for _, p := range pieces {
		if p.Group == pattern.NoGroup {
			sb.WriteString(p.Text)
			continue
		}
		sb.WriteString(groupColor(p.Group).Sprint(p.Text))
	}
	return sb.String()
}

// HighlightRanges renders name with the search ranges emphasized
func HighlightRanges(name string, ranges []pattern.Range) string {
	runes := []rune(name)
	hl := color.New(color.FgYellow, color.Bold)
	var sb strings.Builder
	last := 0
	for _, r := range ranges {
		if r.Start < last || r.End > len(runes) {
			continue
		}
		sb.WriteString(string(runes[last:r.Start]))
		sb.WriteString(hl.Sprint(string(runes[r.Start:r.End])))
		last = r.End
	}
	sb.WriteString(string(runes[last:]))
	return sb.String()
}

// 📝 FormatDiff renders a character diff inline: removed text in red and
// crossed out, added text in green.
func FormatDiff(segs []diff.Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		switch s.Type {
		case diff.Removed:
			sb.WriteString(color.New(color.FgRed, color.CrossedOut).Sprint(s.Text))
		case diff.Added:
			sb.WriteString(color.New(color.FgGreen, color.Underline).Sprint(s.Text))
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// 📝 formatItem formats one preview line
func (l *Logger) formatItem(item rename.Item, showDiff bool) string {
	symbol, symbolColor, label := status(item)

	var result string
	switch {
	case item.Err != nil:
		result = color.New(color.Faint).Sprint(item.Err.Error())
	case showDiff:
		result = FormatDiff(item.Diff)
	default:
		result = Highlight(item.NewName, item.Segments)
	}

	name := fmt.Sprintf("%-*s", nameWidth, item.Name)
	if len(item.Source) > 0 && item.Changed() {
		pad := max(0, nameWidth-utf8.RuneCountInString(item.Name))
		name = HighlightSource(item.Source) + strings.Repeat(" ", pad)
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		name,
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", statusWidth, label)),
		result)
}

// 📝 PreviewItem prints one previewed file. With showDiff the line shows
// the character diff instead of the highlighted new name.
func (l *Logger) PreviewItem(ctx context.Context, item rename.Item, showDiff bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items++
	fmt.Fprintln(l.console, strings.TrimRight(l.formatItem(item, showDiff), " "))

	ev := l.zlog.Debug().
		Str("path", item.Path).
		Str("name", item.Name).
		Str("new_name", item.NewName).
		Bool("collision", item.HasCollision).
		Int("segments", len(item.Segments))
	if item.Err != nil {
		ev = ev.Err(item.Err)
	}
	ev.Msg("preview item")
}

// 📊 PreviewSummary prints the totals of a batch
func (l *Logger) PreviewSummary(ctx context.Context, batch *rename.Batch) {
	changed := len(batch.Changed())
	collisions := len(batch.Collisions())
	msg := fmt.Sprintf("%d files, %d to rename, %d collisions", len(batch.Items), changed, collisions)

	switch {
	case batch.Err != nil:
		l.Errorf("%s (%v)", msg, batch.Err)
	case collisions > 0:
		l.Warning(msg)
	default:
		l.Info(msg)
	}
}

// 📝 MoveResult prints the outcome of a rename
func (l *Logger) MoveResult(ctx context.Context, res *fsys.MoveResult) {
	for _, f := range res.Failed {
		l.Errorf("%s: %s", f.Path, f.Error)
	}
	if len(res.Failed) > 0 {
		l.Warningf("renamed %d files, %d failed", len(res.Moved), len(res.Failed))
		return
	}
	l.Successf("renamed %d files", len(res.Moved))
}

// Items returns how many preview lines were printed
func (l *Logger) Items() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("renamerc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
