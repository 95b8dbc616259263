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

package operation

import (
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ EventType tags a progress event on the wire
type EventType string

const (
	EventStarted   EventType = "started"
	EventScanning  EventType = "scanning"
	EventProgress  EventType = "progress"
	EventCompleted EventType = "completed"
)

// 📂 ListProgress reports directory listing progress. Only the fields that
// belong to Type are meaningful, and only those are encoded.
type ListProgress struct {
	Type       EventType
	BasePath   string // started
	CurrentDir string // scanning
	FilesFound int    // scanning
	TotalFiles int    // completed
}

// ListStarted is sent once before the walk begins
func ListStarted(basePath string) ListProgress {
	return ListProgress{Type: EventStarted, BasePath: basePath}
}

// ListScanning is sent periodically during the walk
func ListScanning(currentDir string, filesFound int) ListProgress {
	return ListProgress{Type: EventScanning, CurrentDir: currentDir, FilesFound: filesFound}
}

// ListCompleted is sent once after the walk
func ListCompleted(totalFiles int) ListProgress {
	return ListProgress{Type: EventCompleted, TotalFiles: totalFiles}
}

type listStartedJSON struct {
	Type     EventType `json:"type"`
	BasePath string    `json:"basePath"`
}

type listScanningJSON struct {
	Type       EventType `json:"type"`
	CurrentDir string    `json:"currentDir"`
	FilesFound int       `json:"filesFound"`
}

type listCompletedJSON struct {
	Type       EventType `json:"type"`
	TotalFiles int       `json:"totalFiles"`
}

// MarshalJSON encodes the event with a "type" tag
func (p ListProgress) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case EventStarted:
		return json.Marshal(listStartedJSON{p.Type, p.BasePath})
	case EventScanning:
		return json.Marshal(listScanningJSON{p.Type, p.CurrentDir, p.FilesFound})
	case EventCompleted:
		return json.Marshal(listCompletedJSON{p.Type, p.TotalFiles})
	}
	return nil, errors.Errorf("unknown list progress type %q", p.Type)
}

// UnmarshalJSON decodes an event written by MarshalJSON
func (p *ListProgress) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type       EventType `json:"type"`
		BasePath   string    `json:"basePath"`
		CurrentDir string    `json:"currentDir"`
		FilesFound int       `json:"filesFound"`
		TotalFiles int       `json:"totalFiles"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Errorf("decoding list progress: %w", err)
	}
	switch raw.Type {
	case EventStarted:
		*p = ListStarted(raw.BasePath)
	case EventScanning:
		*p = ListScanning(raw.CurrentDir, raw.FilesFound)
	case EventCompleted:
		*p = ListCompleted(raw.TotalFiles)
	default:
		return errors.Errorf("unknown list progress type %q", raw.Type)
	}
	return nil
}

// ✏️ RenameProgress reports batch rename progress. Only the fields that
// belong to Type are meaningful, and only those are encoded.
type RenameProgress struct {
	Type        EventType
	TotalFiles  int    // started
	Current     int    // progress, 1-based
	Total       int    // progress
	CurrentPath string // progress, the new path
	Successful  int    // completed
	Failed      int    // completed
}

// RenameStarted is sent once before the first move
func RenameStarted(totalFiles int) RenameProgress {
	return RenameProgress{Type: EventStarted, TotalFiles: totalFiles}
}

// RenameStep is sent after every move, whether it succeeded or not
func RenameStep(current, total int, currentPath string) RenameProgress {
	return RenameProgress{Type: EventProgress, Current: current, Total: total, CurrentPath: currentPath}
}

// RenameCompleted is sent once after the last move
func RenameCompleted(successful, failed int) RenameProgress {
	return RenameProgress{Type: EventCompleted, Successful: successful, Failed: failed}
}

type renameStartedJSON struct {
	Type       EventType `json:"type"`
	TotalFiles int       `json:"totalFiles"`
}

type renameStepJSON struct {
	Type        EventType `json:"type"`
	Current     int       `json:"current"`
	Total       int       `json:"total"`
	CurrentPath string    `json:"currentPath"`
}

type renameCompletedJSON struct {
	Type       EventType `json:"type"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
}

// MarshalJSON encodes the event with a "type" tag
func (p RenameProgress) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case EventStarted:
		return json.Marshal(renameStartedJSON{p.Type, p.TotalFiles})
	case EventProgress:
		return json.Marshal(renameStepJSON{p.Type, p.Current, p.Total, p.CurrentPath})
	case EventCompleted:
		return json.Marshal(renameCompletedJSON{p.Type, p.Successful, p.Failed})
	}
	return nil, errors.Errorf("unknown rename progress type %q", p.Type)
}

// UnmarshalJSON decodes an event written by MarshalJSON
func (p *RenameProgress) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type        EventType `json:"type"`
		TotalFiles  int       `json:"totalFiles"`
		Current     int       `json:"current"`
		Total       int       `json:"total"`
		CurrentPath string    `json:"currentPath"`
		Successful  int       `json:"successful"`
		Failed      int       `json:"failed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Errorf("decoding rename progress: %w", err)
	}
	switch raw.Type {
	case EventStarted:
		*p = RenameStarted(raw.TotalFiles)
	case EventProgress:
		*p = RenameStep(raw.Current, raw.Total, raw.CurrentPath)
	case EventCompleted:
		*p = RenameCompleted(raw.Successful, raw.Failed)
	default:
		return errors.Errorf("unknown rename progress type %q", raw.Type)
	}
	return nil
}

// ListReporter receives listing progress. A nil reporter drops events.
type ListReporter func(ListProgress)

// Report sends ev when r is set
func (r ListReporter) Report(ev ListProgress) {
	if r != nil {
		r(ev)
	}
}

// RenameReporter receives rename progress. A nil reporter drops events.
type RenameReporter func(RenameProgress)

// Report sends ev when r is set
func (r RenameReporter) Report(ev RenameProgress) {
	if r != nil {
		r(ev)
	}
}
