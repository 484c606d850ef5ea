package matcher

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// RGB is a 24-bit color.
type RGB struct {
	R, G, B int
}

// Candidate is a swatch the matcher can return.
type Candidate struct {
	ID           int    `gorm:"column:id" json:"id"`
	ColorName    string `gorm:"column:color_name" json:"colorName"`
	HexColor     string `gorm:"column:hex_color" json:"hexColor"`
	Manufacturer string `gorm:"column:manufacturer" json:"manufacturer"`
	FilamentType string `gorm:"column:filament_type" json:"filamentType"`
}

// Match is a candidate with its distance to the query color.
type Match struct {
	Candidate
	Distance float64 `json:"distance"`
}

// HexToRGB parses "#rrggbb" or "rrggbb". Anything else maps to black.
func HexToRGB(hex string) RGB {
	hex = strings.TrimLeft(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return RGB{}
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// Distance is the Euclidean distance between two colors in RGB space.
func Distance(a, b RGB) float64 {
	dr := float64(a.R - b.R)
	dg := float64(a.G - b.G)
	db := float64(a.B - b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// FindClosest returns the count candidates nearest to hex, closest first.
// Ties keep the candidates' input order. An empty query yields no matches.
func FindClosest(candidates []Candidate, hex string, count int) []Match {
	if count <= 0 || len(candidates) == 0 || strings.TrimSpace(hex) == "" {
		return []Match{}
	}

	target := HexToRGB(hex)
	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		matches[i] = Match{Candidate: c, Distance: Distance(target, HexToRGB(c.HexColor))}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if count < len(matches) {
		matches = matches[:count]
	}
	return matches
}
