package rename

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/renamerc/pkg/fsys"
	"github.com/walteh/renamerc/pkg/numbering"
)

func writeNamed(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("content-"+n), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func dirContents(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	out := map[string]string{}
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		out[e.Name()] = string(data)
	}
	return out
}

func TestExecuteChainedRenames(t *testing.T) {
	renumber := Config{
		Find:  `^\d+`,
		Regex: true,
		Numbering: numbering.Spec{
			Enabled:     true,
			StartNumber: 2,
			Increment:   1,
			Padding:     1,
			Position:    numbering.PositionStart,
		},
	}

	tests := []struct {
		name  string
		files []string
		cfg   Config
		want  map[string]string
	}{
		{
			name:  "shift_up_by_one",
			files: []string{"1.txt", "2.txt"},
			cfg:   renumber,
			want: map[string]string{
				"2.txt": "content-1.txt",
				"3.txt": "content-2.txt",
			},
		},
		{
			name:  "longer_chain",
			files: []string{"1.txt", "2.txt", "3.txt", "4.txt"},
			cfg:   renumber,
			want: map[string]string{
				"2.txt": "content-1.txt",
				"3.txt": "content-2.txt",
				"4.txt": "content-3.txt",
				"5.txt": "content-4.txt",
			},
		},
		{
			name:  "no_changes",
			files: []string{"a.txt", "b.md"},
			cfg:   Config{Find: "zzz", Replace: "y"},
			want: map[string]string{
				"a.txt": "content-a.txt",
				"b.md":  "content-b.md",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			dir := t.TempDir()
			paths := writeNamed(t, dir, tt.files...)

			batch, err := Preview(ctx, paths, tt.cfg)
			require.NoError(t, err)
			require.False(t, batch.HasCollisions())

			res, err := Execute(ctx, fsys.NewLocal(), batch, nil)
			require.NoError(t, err)
			assert.Empty(t, res.Failed)
			assert.Equal(t, tt.want, dirContents(t, dir))

			for _, m := range res.Moved {
				assert.NotContains(t, filepath.Base(m), ".renamerc-", "parking steps should not be reported")
			}
		})
	}
}

func TestExecuteSwap(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	paths := writeNamed(t, dir, "a.txt", "b.txt")

	batch := &Batch{Items: []Item{
		{Path: paths[0], Name: "a.txt", NewName: "b.txt"},
		{Path: paths[1], Name: "b.txt", NewName: "a.txt"},
	}}

	res, err := Execute(ctx, fsys.NewLocal(), batch, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Failed)

	moved := append([]string(nil), res.Moved...)
	sort.Strings(moved)
	assert.Equal(t, []string{paths[0], paths[1]}, moved)

	assert.Equal(t, map[string]string{
		"a.txt": "content-b.txt",
		"b.txt": "content-a.txt",
	}, dirContents(t, dir))
}

func TestPlanOrdersParkedMoves(t *testing.T) {
	moves := []fsys.Move{
		{From: "/d/1.txt", To: "/d/2.txt"},
		{From: "/d/2.txt", To: "/d/3.txt"},
	}
	p := newPlan(moves)

	require.Len(t, p.moves, 3)
	require.Len(t, p.parked, 1)

	tmp := p.moves[0].To
	assert.Equal(t, "/d/1.txt", p.moves[0].From)
	assert.Equal(t, "/d/1.txt", p.parked[tmp])
	assert.Equal(t, moves[1], p.moves[1])
	assert.Equal(t, fsys.Move{From: tmp, To: "/d/2.txt"}, p.moves[2])
}

func TestPlanSettle(t *testing.T) {
	moves := []fsys.Move{
		{From: "/d/1.txt", To: "/d/2.txt"},
		{From: "/d/2.txt", To: "/d/3.txt"},
	}

	t.Run("parking_failed", func(t *testing.T) {
		p := newPlan(moves)
		tmp := p.moves[0].To
		got := p.settle(&fsys.MoveResult{
			Moved: []string{"/d/3.txt"},
			Failed: []fsys.Failure{
				{Path: "/d/1.txt", Error: "denied"},
				{Path: tmp, Error: "no such file"},
			},
		})
		assert.Equal(t, []string{"/d/3.txt"}, got.Moved)
		assert.Equal(t, []fsys.Failure{{Path: "/d/1.txt", Error: "denied"}}, got.Failed)
	})

	t.Run("final_step_failed", func(t *testing.T) {
		p := newPlan(moves)
		tmp := p.moves[0].To
		got := p.settle(&fsys.MoveResult{
			Moved:  []string{tmp},
			Failed: []fsys.Failure{{Path: "/d/2.txt", Error: "denied"}, {Path: tmp, Error: "target already exists"}},
		})
		assert.Empty(t, got.Moved)
		require.Len(t, got.Failed, 2)
		assert.Equal(t, "/d/2.txt", got.Failed[0].Path)
		assert.Equal(t, "/d/1.txt", got.Failed[1].Path)
		assert.Contains(t, got.Failed[1].Error, tmp)
	})
}
