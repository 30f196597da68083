package rank

import (
	"math"
	"testing"

	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		platform  rating.Platform
		rating    int
		wantColor string
		wantLabel string
	}{
		{"codeforces pupil", rating.Codeforces, 1250, "#008000", "Pupil"},
		{"codeforces boundary", rating.Codeforces, 1200, "#008000", "Pupil"},
		{"codeforces below boundary", rating.Codeforces, 1199, "#808080", "Newbie"},
		{"codeforces legendary", rating.Codeforces, 3000, "#ff0000", "Legendary GM"},
		{"codeforces negative", rating.Codeforces, -50, "#808080", "Newbie"},
		{"atcoder red", rating.AtCoder, 2800, "#FF0000", "Red"},
		{"atcoder orange", rating.AtCoder, 2799, "#FF8000", "Orange"},
		{"atcoder gray zero", rating.AtCoder, 0, "#808080", "Gray"},
		{"codechef 3 star", rating.CodeChef, 1650, "#3366CC", "3★"},
		{"codechef 7 star", rating.CodeChef, 2500, "#FF0000", "7★"},
		{"leetcode", rating.LeetCode, 1850, "#3498DB", "Contest Rating"},
		{"leetcode huge", rating.LeetCode, math.MaxInt, "#E74C3C", "Contest Rating"},
		{"geeksforgeeks", rating.GeeksforGeeks, 1500, DefaultColor, ""},
		{"unknown", rating.Platform("topcoder"), 1500, DefaultColor, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color, label := Resolve(tt.platform, tt.rating)
			if color != tt.wantColor || label != tt.wantLabel {
				t.Errorf("Resolve(%s, %d) = (%q, %q), want (%q, %q)",
					tt.platform, tt.rating, color, label, tt.wantColor, tt.wantLabel)
			}
		})
	}
}

// Every boundary value must land in the bucket above it.
func TestResolveBoundaries(t *testing.T) {
	for _, p := range rating.Platforms() {
		table := tables[p]
		for i := 0; i+1 < len(table); i++ {
			boundary := table[i].Below
			if got := Tier(p, boundary); got != i+1 {
				t.Errorf("Tier(%s, %d) = %d, want %d", p, boundary, got, i+1)
			}
			if got := Tier(p, boundary-1); got != i {
				t.Errorf("Tier(%s, %d) = %d, want %d", p, boundary-1, got, i)
			}
			color, label := Resolve(p, boundary)
			if diff := cmp.Diff([]string{table[i+1].Color, table[i+1].Label}, []string{color, label}); diff != "" {
				t.Errorf("Resolve(%s, %d) mismatch (-want +got):\n%s", p, boundary, diff)
			}
		}
	}
}

func TestTierMonotonic(t *testing.T) {
	for _, p := range rating.Platforms() {
		prev := Tier(p, math.MinInt)
		for r := -100; r <= 4000; r++ {
			got := Tier(p, r)
			if got < prev {
				t.Fatalf("Tier(%s, %d) = %d, dropped below %d", p, r, got, prev)
			}
			prev = got
		}
		if last := Tier(p, math.MaxInt); last < prev {
			t.Errorf("Tier(%s, MaxInt) = %d, want >= %d", p, last, prev)
		}
	}
}

func TestColorAndLabel(t *testing.T) {
	if got := Color(rating.AtCoder, 1300); got != "#00C0C0" {
		t.Errorf("Color(atcoder, 1300) = %q, want %q", got, "#00C0C0")
	}
	if got := Label(rating.Codeforces, 2350); got != "Int. Master" {
		t.Errorf("Label(codeforces, 2350) = %q, want %q", got, "Int. Master")
	}
}
