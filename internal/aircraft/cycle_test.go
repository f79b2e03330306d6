package aircraft

import "testing"

func TestCycleSequence(t *testing.T) {
	tests := []struct {
		name    string
		current int
		max     int
		want    []int
	}{
		{"middle of range", 2, 4, []int{3, 4, 3, 2, 1, 0, 1, 2, 3, 4, 3}},
		{"at zero", 0, 2, []int{1, 2, 1, 0, 1, 2}},
		{"at top", 2, 2, []int{1, 0, 1, 2, 1}},
		{"toggle", 0, 1, []int{1, 0, 1, 0}},
		{"above range clamps", 9, 2, []int{1, 0, 1, 2}},
		{"no range", 0, 0, []int{0, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCycle(tc.current, tc.max)
			for i, want := range tc.want {
				if got := c.Next(); got != want {
					t.Fatalf("step %d: got %d want %d", i, got, want)
				}
			}
		})
	}
}

func TestCyclePeriod(t *testing.T) {
	for max := 1; max <= 6; max++ {
		if got := NewCycle(0, max).Len(); got != 2*max {
			t.Fatalf("max %d: period %d want %d", max, got, 2*max)
		}
	}
}
