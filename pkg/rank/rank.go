// Package rank maps platform ratings to rank labels and display colors.
package rank

import (
	"fmt"
	"math"

	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
)

// DefaultColor is used for platforms without a threshold table.
const DefaultColor = "#6366f1"

// unbounded marks the last bucket of a table.
const unbounded = math.MaxInt

// Bucket is one step of a threshold table. Ratings below Below (and at or
// above the previous bucket's Below) fall into it.
type Bucket struct {
	Below int
	Label string
	Color string
}

var tables = map[rating.Platform][]Bucket{
	rating.Codeforces: {
		{1200, "Newbie", "#808080"},
		{1400, "Pupil", "#008000"},
		{1600, "Specialist", "#03a89e"},
		{1900, "Expert", "#0000ff"},
		{2100, "Candidate Master", "#aa00aa"},
		{2300, "Master", "#ff8c00"},
		{2400, "Int. Master", "#ff8c00"},
		{2600, "Grandmaster", "#ff0000"},
		{3000, "Int. Grandmaster", "#ff0000"},
		{unbounded, "Legendary GM", "#ff0000"},
	},
	rating.CodeChef: {
		{1400, "1★", "#666666"},
		{1600, "2★", "#1E7D22"},
		{1800, "3★", "#3366CC"},
		{2000, "4★", "#684273"},
		{2200, "5★", "#FFBF00"},
		{2500, "6★", "#FF7F00"},
		{unbounded, "7★", "#FF0000"},
	},
	rating.AtCoder: {
		{400, "Gray", "#808080"},
		{800, "Brown", "#804000"},
		{1200, "Green", "#008000"},
		{1600, "Cyan", "#00C0C0"},
		{2000, "Blue", "#0000FF"},
		{2400, "Yellow", "#C0C000"},
		{2800, "Orange", "#FF8000"},
		{unbounded, "Red", "#FF0000"},
	},
	// LeetCode has no tier names, only a color ramp.
	rating.LeetCode: {
		{1400, "Contest Rating", "#666666"},
		{1600, "Contest Rating", "#2DB55D"},
		{1800, "Contest Rating", "#5DADE2"},
		{2000, "Contest Rating", "#3498DB"},
		{2200, "Contest Rating", "#9B59B6"},
		{2400, "Contest Rating", "#F39C12"},
		{2600, "Contest Rating", "#E67E22"},
		{unbounded, "Contest Rating", "#E74C3C"},
	},
}

// Resolve returns the display color and rank label for a rating.
// Unknown platforms get DefaultColor and an empty label.
func Resolve(p rating.Platform, r int) (color, label string) {
	table, ok := tables[p]
	if !ok {
		return DefaultColor, ""
	}
	b := table[Tier(p, r)]
	return b.Color, b.Label
}

// Color returns only the display color for a rating.
func Color(p rating.Platform, r int) string {
	c, _ := Resolve(p, r)
	return c
}

// Label returns only the rank label for a rating.
func Label(p rating.Platform, r int) string {
	_, l := Resolve(p, r)
	return l
}

// Tier returns the index of the bucket a rating falls into, or -1 for
// platforms without a table. Higher tiers are more senior.
func Tier(p rating.Platform, r int) int {
	table, ok := tables[p]
	if !ok {
		return -1
	}
	for i, b := range table {
		if r < b.Below {
			return i
		}
	}
	return len(table) - 1
}

// Validate checks that every table is strictly increasing and ends unbounded.
func Validate() error {
	for p, table := range tables {
		if len(table) == 0 {
			return fmt.Errorf("%s: empty table", p)
		}
		for i := 1; i < len(table); i++ {
			if table[i].Below <= table[i-1].Below {
				return fmt.Errorf("%s: bucket %d (%d) not above bucket %d (%d)", p, i, table[i].Below, i-1, table[i-1].Below)
			}
		}
		if table[len(table)-1].Below != unbounded {
			return fmt.Errorf("%s: last bucket is bounded", p)
		}
	}
	return nil
}
