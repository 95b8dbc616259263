package ui

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/renamerc/pkg/operation"
)

// 📢 UserLogger provides user-facing feedback while a command runs
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎨 FileChangeType represents the type of change made to a file
type FileChangeType int

const (
	FileRenamed FileChangeType = iota
	FileDeleted
	FileSkipped
	FileError
)

// 🖼️ FileChange represents a change to one file
type FileChange struct {
	Type        FileChangeType
	Path        string
	Description string
	Error       error
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(log zerolog.Logger) *UserLogger {
	return &UserLogger{log: log}
}

func (u *UserLogger) printer(t FileChangeType) (*pterm.PrefixPrinter, string) {
	switch t {
	case FileRenamed:
		return pterm.Success.WithPrefix(pterm.Prefix{Text: "✨"}), "Renamed"
	case FileDeleted:
		return pterm.Warning.WithPrefix(pterm.Prefix{Text: "🗑️"}), "Deleted"
	case FileSkipped:
		return pterm.Debug.WithPrefix(pterm.Prefix{Text: "⏭️"}), "Skipped"
	default:
		return pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}), "Error"
	}
}

// 📝 LogFileChange logs a file change with appropriate emoji and formatting
func (u *UserLogger) LogFileChange(change FileChange) {
	printer, action := u.printer(change.Type)

	msg := fmt.Sprintf("%s %s", action, filepath.Base(change.Path))
	if change.Description != "" {
		msg += fmt.Sprintf(" (%s)", change.Description)
	}

	printer.Println(msg)
	if change.Error != nil {
		pterm.Error.Println(change.Error)
		u.log.Error().Err(change.Error).Str("path", change.Path).Msg(msg)
		return
	}
	u.log.Debug().Str("path", change.Path).Msg(msg)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	switch {
	case valid:
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
	case err != nil:
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.Println(err)
		u.log.Error().Err(err).Msg(description)
	default:
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
		u.log.Warn().Msg(description)
	}
}

// 🔄 ScanSpinner reports list progress on a spinner. The returned func
// stops the spinner and must be called once listing is done.
func (u *UserLogger) ScanSpinner(dir string) (operation.ListReporter, func()) {
	spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start("scanning " + dir)
	if err != nil {
		u.log.Debug().Err(err).Msg("spinner unavailable")
		return nil, func() {}
	}

	report := func(ev operation.ListProgress) {
		switch ev.Type {
		case operation.EventScanning:
			spinner.UpdateText(fmt.Sprintf("scanning %s (%d files)", ev.CurrentDir, ev.FilesFound))
		case operation.EventCompleted:
			u.log.Debug().Int("files", ev.TotalFiles).Msg("scan complete")
		}
	}
	return report, func() { _ = spinner.Stop() }
}

// 📊 RenameBar reports rename progress on a progress bar. The returned func
// stops the bar and must be called once the rename is done.
func (u *UserLogger) RenameBar(total int) (operation.RenameReporter, func()) {
	bar, err := pterm.DefaultProgressbar.WithTotal(total).WithTitle("Renaming").WithRemoveWhenDone(true).Start()
	if err != nil {
		u.log.Debug().Err(err).Msg("progress bar unavailable")
		return nil, func() {}
	}

	report := func(ev operation.RenameProgress) {
		if ev.Type != operation.EventProgress {
			return
		}
		bar.UpdateTitle(filepath.Base(ev.CurrentPath))
		bar.Increment()
	}
	return report, func() { _, _ = bar.Stop() }
}
