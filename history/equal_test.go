package history

import "testing"

func TestJSONEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal ints", 1, 1, true},
		{"unequal ints", 1, 2, false},
		{"equal strings", "a", "a", true},
		{"equal slices", []int{1, 2}, []int{1, 2}, true},
		{"order-sensitive slices", []int{1, 2}, []int{2, 1}, false},
		{
			"maps with different insertion order",
			map[string]int{"a": 1, "b": 2},
			map[string]int{"b": 2, "a": 1},
			true,
		},
		{
			"maps with different key sets",
			map[string]int{"a": 1},
			map[string]int{"a": 1, "b": 0},
			false,
		},
		{"nil vs empty slice", []int(nil), []int{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JSONEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("JSONEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestJSONEqualUnencodableFallsBack(t *testing.T) {
	// Channels cannot be encoded as JSON; comparison falls back to
	// reflect.DeepEqual.
	ch := make(chan int)
	if !JSONEqual(ch, ch) {
		t.Error("identical channel values should compare equal via fallback")
	}
	if JSONEqual(ch, make(chan int)) {
		t.Error("distinct channels should compare unequal via fallback")
	}
}
