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

package rename

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/renamerc/pkg/fsys"
)

// 🗺️ plan orders a batch of moves so no move lands on a file another move
// has yet to take away, as when 1.txt becomes 2.txt and 2.txt becomes
// 3.txt.
//
// A move whose target is the source of another move is split in two: it is
// parked under a temporary name first, and moved to its target after every
// other move has run. Cycles such as a swap resolve the same way.
type plan struct {
	moves  []fsys.Move
	parked map[string]string // temporary path to original source
}

func newPlan(moves []fsys.Move) *plan {
	sources := make(map[string]bool, len(moves))
	for _, m := range moves {
		sources[m.From] = true
	}

	p := &plan{parked: map[string]string{}}
	var direct, finish []fsys.Move
	for i, m := range moves {
		if !sources[m.To] {
			direct = append(direct, m)
			continue
		}
		tmp := parkingPath(m.From, i)
		p.parked[tmp] = m.From
		p.moves = append(p.moves, fsys.Move{From: m.From, To: tmp})
		finish = append(finish, fsys.Move{From: tmp, To: m.To})
	}
	p.moves = append(p.moves, direct...)
	p.moves = append(p.moves, finish...)
	return p
}

func parkingPath(from string, i int) string {
	return filepath.Join(filepath.Dir(from), fmt.Sprintf(".renamerc-%d-%d-%s", os.Getpid(), i, filepath.Base(from)))
}

// settle rewrites a provider result in terms of the original moves.
// Parking steps are not reported. A file that could not leave its parking
// spot is reported against its original source.
func (p *plan) settle(res *fsys.MoveResult) *fsys.MoveResult {
	if res == nil || len(p.parked) == 0 {
		return res
	}

	out := &fsys.MoveResult{}
	for _, to := range res.Moved {
		if _, ok := p.parked[to]; ok {
			continue
		}
		out.Moved = append(out.Moved, to)
	}

	failed := map[string]bool{}
	for _, f := range res.Failed {
		failed[f.Path] = true
	}
	for _, f := range res.Failed {
		src, ok := p.parked[f.Path]
		if !ok {
			out.Failed = append(out.Failed, f)
			continue
		}
		if failed[src] {
			// parking already failed, the file never left its source
			continue
		}
		out.Failed = append(out.Failed, fsys.Failure{
			Path:  src,
			Error: fmt.Sprintf("%s (file left at %s)", f.Error, f.Path),
		})
	}
	return out
}
