package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func TestNumberForDeterministic(t *testing.T) {
	spec := Spec{Enabled: true, StartNumber: 10, Increment: 5, Padding: 3, Position: PositionStart}

	var got []string
	for i := 0; i < 3; i++ {
		got = append(got, NumberFor(i, spec, 4).Formatted)
	}
	assert.Equal(t, []string{"010", "015", "020"}, got)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		padding int
		want    string
	}{
		{name: "pads", n: 7, padding: 3, want: "007"},
		{name: "never_truncates", n: 12345, padding: 3, want: "12345"},
		{name: "padding_one", n: 0, padding: 1, want: "0"},
		{name: "padding_below_one", n: 4, padding: 0, want: "4"},
		{name: "negative_keeps_sign_first", n: -5, padding: 3, want: "-005"},
		{name: "negative_long", n: -1234, padding: 2, want: "-1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.n, tt.padding))
		})
	}
}

func TestNumberForInsertionPoint(t *testing.T) {
	tests := []struct {
		name       string
		spec       Spec
		baseLength int
		want       int
	}{
		{name: "start", spec: Spec{Position: PositionStart}, baseLength: 5, want: 0},
		{name: "end", spec: Spec{Position: PositionEnd}, baseLength: 5, want: 5},
		{name: "index_inside", spec: Spec{Position: PositionIndex, InsertIndex: 2}, baseLength: 5, want: 2},
		{name: "index_clamped_high", spec: Spec{Position: PositionIndex, InsertIndex: 99}, baseLength: 5, want: 5},
		{name: "index_clamped_low", spec: Spec{Position: PositionIndex, InsertIndex: -3}, baseLength: 5, want: 0},
		{name: "empty_base", spec: Spec{Position: PositionEnd}, baseLength: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberFor(0, tt.spec, tt.baseLength).Index)
		})
	}
}

func TestApply(t *testing.T) {
	base := Spec{Enabled: true, StartNumber: 1, Increment: 1, Padding: 2, Separator: "_"}

	tests := []struct {
		name      string
		file      string
		index     int
		position  Position
		insertIdx int
		want      string
		wantIns   Insertion
	}{
		{
			name:     "start",
			file:     "photo.jpg",
			position: PositionStart,
			want:     "01_photo.jpg",
			wantIns:  Insertion{Start: 0, End: 3, Text: "01_"},
		},
		{
			name:     "end_before_extension",
			file:     "photo.jpg",
			index:    1,
			position: PositionEnd,
			want:     "photo_02.jpg",
			wantIns:  Insertion{Start: 5, End: 8, Text: "_02"},
		},
		{
			name:      "inside_gets_both_separators",
			file:      "photo.jpg",
			position:  PositionIndex,
			insertIdx: 2,
			want:      "ph_01_oto.jpg",
			wantIns:   Insertion{Start: 2, End: 6, Text: "_01_"},
		},
		{
			name:     "dotfile_has_no_extension",
			file:     ".env",
			position: PositionEnd,
			want:     ".env_01",
			wantIns:  Insertion{Start: 4, End: 7, Text: "_01"},
		},
		{
			name:     "no_extension",
			file:     "README",
			position: PositionEnd,
			want:     "README_01",
			wantIns:  Insertion{Start: 6, End: 9, Text: "_01"},
		},
		{
			name:     "empty_base",
			file:     "",
			position: PositionStart,
			want:     "01",
			wantIns:  Insertion{Start: 0, End: 2, Text: "01"},
		},
		{
			name:     "unicode_base",
			file:     "über.txt",
			position: PositionEnd,
			want:     "über_01.txt",
			wantIns:  Insertion{Start: 4, End: 7, Text: "_01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := base
			spec.Position = tt.position
			spec.InsertIndex = tt.insertIdx

			got, ins := Apply(tt.file, tt.index, spec)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantIns, ins)
			assert.Equal(t, len([]rune(tt.wantIns.Text)), ins.Len())
		})
	}
}

func TestApplyDisabled(t *testing.T) {
	got, ins := Apply("photo.jpg", 3, Spec{Position: PositionStart})
	assert.Equal(t, "photo.jpg", got)
	assert.Zero(t, ins.Len())
}

func TestSplitExtension(t *testing.T) {
	tests := []struct {
		name     string
		wantBase string
		wantExt  string
	}{
		{name: "file.txt", wantBase: "file", wantExt: ".txt"},
		{name: "archive.tar.gz", wantBase: "archive.tar", wantExt: ".gz"},
		{name: ".gitignore", wantBase: ".gitignore"},
		{name: ".config.yaml", wantBase: ".config", wantExt: ".yaml"},
		{name: "noext", wantBase: "noext"},
		{name: "trailing.", wantBase: "trailing", wantExt: "."},
		{name: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, ext := SplitExtension(tt.name)
			assert.Equal(t, tt.wantBase, base)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr error
	}{
		{name: "disabled_is_valid", spec: Spec{}},
		{name: "default", spec: func() Spec { s := Default(); s.Enabled = true; return s }()},
		{name: "unknown_position", spec: Spec{Enabled: true, Position: "middle"}, wantErr: ErrUnknownPosition},
		{name: "empty_position", spec: Spec{Enabled: true}, wantErr: ErrUnknownPosition},
		{name: "negative_index", spec: Spec{Enabled: true, Position: PositionIndex, InsertIndex: -1}, wantErr: ErrNegativeInsertIdx},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
