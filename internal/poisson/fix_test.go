package poisson

import (
	"errors"
	"testing"

	"github.com/san-kum/poisson/internal/grid"
)

func TestBoundsMask(t *testing.T) {
	mask := BoundsMask([]int{3, 4})
	want := []bool{
		true, true, true, true,
		true, false, false, true,
		true, true, true, true,
	}
	for i := range want {
		if mask[i] != want[i] {
			t.Fatalf("cell %d: got %v, want %v", i, mask[i], want[i])
		}
	}

	line := BoundsMask([]int{4})
	if !line[0] || line[1] || line[2] || !line[3] {
		t.Errorf("unexpected 1-D bounds mask %v", line)
	}
}

func TestResolveFix(t *testing.T) {
	shape := []int{2, 2}
	maskGrid, _ := grid.FromData([]float64{1, 0, 0, 2}, 2, 2)

	tests := []struct {
		name string
		fix  any
		want []bool
	}{
		{"nil", nil, []bool{true, true, true, true}},
		{"bounds", "bounds", []bool{true, true, true, true}},
		{"grid", maskGrid, []bool{true, false, false, true}},
		{"bools", []bool{false, true, false, false}, []bool{false, true, false, false}},
		{"floats", []float64{0, 0, -1, 0}, []bool{false, false, true, false}},
		{"ints", []int{0, 3, 0, 0}, []bool{false, true, false, false}},
		{"nested", []any{[]any{1, 0}, []any{false, true}}, []bool{true, false, false, true}},
		{"flat any", []any{0.0, 1.5, 0, true}, []bool{false, true, false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFix(tt.fix, shape)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d cells, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("cell %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResolveFix_Errors(t *testing.T) {
	shape := []int{2, 2}
	wrongGrid, _ := grid.New(2, 3)

	tests := []struct {
		name string
		fix  any
		err  error
	}{
		{"unknown name", "unknown", ErrInvalidConfiguration},
		{"strings", []string{"a", "b", "c", "d"}, ErrTypeConfiguration},
		{"number", 3.0, ErrTypeConfiguration},
		{"string element", []any{[]any{1, "x"}, []any{0, 0}}, ErrTypeConfiguration},
		{"map element", []any{map[string]any{}, 0, 0, 0}, ErrTypeConfiguration},
		{"grid shape", wrongGrid, ErrShapeMismatch},
		{"flat length", []float64{1, 0, 0}, ErrShapeMismatch},
		{"ragged", []any{[]any{1, 0}, []any{0}}, ErrShapeMismatch},
		{"nested shape", []any{[]any{1, 0, 0}, []any{0, 0, 0}}, ErrShapeMismatch},
		{"empty", []any{}, ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveFix(tt.fix, shape)
			if !errors.Is(err, tt.err) {
				t.Errorf("got error %v, want %v", err, tt.err)
			}
		})
	}
}
