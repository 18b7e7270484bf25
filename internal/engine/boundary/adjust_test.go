package boundary

import (
	"testing"

	"github.com/spanlab/spanedit/internal/engine/text"
)

// "The quick fox": The=[0,3) quick=[4,9) fox=[10,13)
const sample = "The quick fox"

func TestMoveStartLeft(t *testing.T) {
	m := text.New(sample)

	tests := []struct {
		name  string
		start int
		want  int
	}{
		{"at zero stays", 0, 0},
		{"from fox to quick", 10, 4},
		{"from space before fox", 9, 4},
		{"from quick to The", 4, 0},
		{"mid word to word start", 6, 4},
		{"from index one", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MoveStartLeft(m, tt.start); got != tt.want {
				t.Errorf("MoveStartLeft(%d) = %d, want %d", tt.start, got, tt.want)
			}
		})
	}
}

func TestMoveStartRight(t *testing.T) {
	m := text.New(sample)

	tests := []struct {
		name       string
		start, end int
		want       int
	}{
		{"wide span moves to next word", 0, 13, 4},
		{"clamps to end minus one", 0, 3, 2},
		{"from quick to fox", 4, 13, 10},
		{"at last index stays", 12, 13, 12},
		{"clamp floor at zero", 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MoveStartRight(m, tt.start, tt.end); got != tt.want {
				t.Errorf("MoveStartRight(%d, %d) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestMoveEndLeft(t *testing.T) {
	m := text.New(sample)

	tests := []struct {
		name       string
		start, end int
		want       int
	}{
		{"lands at start of fox", 0, 13, 10},
		{"lands at start of quick", 0, 10, 4},
		{"clamps to start plus one", 0, 4, 1},
		{"minimum width stays", 0, 1, 1},
		{"adjacent stays", 4, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MoveEndLeft(m, tt.start, tt.end); got != tt.want {
				t.Errorf("MoveEndLeft(%d, %d) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestMoveEndRight(t *testing.T) {
	m := text.New(sample)

	tests := []struct {
		name       string
		start, end int
		want       int
	}{
		{"past The lands after quick", 0, 3, 9},
		{"past quick lands after fox", 0, 9, 13},
		{"at length stays", 0, 13, 13},
		{"from mid word finishes word", 0, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MoveEndRight(m, tt.start, tt.end); got != tt.want {
				t.Errorf("MoveEndRight(%d, %d) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

// Adjusters at their limits must be idempotent no-ops.
func TestAdjustLimitIdempotence(t *testing.T) {
	m := text.New(sample)

	if got := MoveStartLeft(m, 0); got != 0 {
		t.Errorf("MoveStartLeft at 0 = %d, want 0", got)
	}
	if got := MoveEndRight(m, 0, m.Len()); got != m.Len() {
		t.Errorf("MoveEndRight at length = %d, want %d", got, m.Len())
	}
	if got := MoveStartRight(m, m.Len()-1, m.Len()); got != m.Len()-1 {
		t.Errorf("MoveStartRight at length-1 = %d, want %d", got, m.Len()-1)
	}
	if got := MoveEndLeft(m, 4, 5); got != 5 {
		t.Errorf("MoveEndLeft at width 1 = %d, want 5", got)
	}
}

func TestAdjustEmptyText(t *testing.T) {
	m := text.New("")

	if got := MoveStartLeft(m, 0); got != 0 {
		t.Errorf("MoveStartLeft on empty = %d, want 0", got)
	}
	if got := MoveStartRight(m, 0, 0); got != 0 {
		t.Errorf("MoveStartRight on empty = %d, want 0", got)
	}
	if got := MoveEndRight(m, 0, 0); got != 0 {
		t.Errorf("MoveEndRight on empty = %d, want 0", got)
	}
}

func TestAdjustMultipleSpaces(t *testing.T) {
	m := text.New("ab   cd")

	if got := MoveStartLeft(m, 5); got != 0 {
		t.Errorf("MoveStartLeft(5) = %d, want 0", got)
	}
	if got := MoveEndRight(m, 0, 2); got != 7 {
		t.Errorf("MoveEndRight(0, 2) = %d, want 7", got)
	}
	if got := MoveStartRight(m, 0, 7); got != 5 {
		t.Errorf("MoveStartRight(0, 7) = %d, want 5", got)
	}
}
