package teamref

import (
	"math"
	"strconv"
	"strings"
)

// DefaultColor stands in for any absent or malformed team color.
const DefaultColor = "#ffffff"

// TeamInfo is static reference metadata for one school, keyed by school name
// when joined against the games feed.
type TeamInfo struct {
	ID       int64
	School   string
	Logo     string
	Color    string
	AltColor string
}

// ValidateColor normalizes a color string to "#rrggbb" form. The value must
// be exactly six hexadecimal characters after stripping a leading '#';
// anything else falls back to DefaultColor.
func ValidateColor(color string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(trimmed) != 6 {
		return DefaultColor
	}
	for _, r := range trimmed {
		if !isHexDigit(r) {
			return DefaultColor
		}
	}
	return "#" + trimmed
}

// ColorDistance is the Euclidean distance between two colors in RGB space.
// Unparseable colors are treated as DefaultColor.
func ColorDistance(a, b string) float64 {
	ar, ag, ab := parseRGB(a)
	br, bg, bb := parseRGB(b)
	dr := float64(ar - br)
	dg := float64(ag - bg)
	db := float64(ab - bb)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// SimilarColors reports whether two colors sit closer than threshold in RGB
// space, in which case the display should swap in an alternate color to keep
// the two teams visually distinct.
func SimilarColors(a, b string, threshold float64) bool {
	return ColorDistance(a, b) < threshold
}

func parseRGB(color string) (int64, int64, int64) {
	normalized := ValidateColor(color)[1:]
	r, _ := strconv.ParseInt(normalized[0:2], 16, 64)
	g, _ := strconv.ParseInt(normalized[2:4], 16, 64)
	b, _ := strconv.ParseInt(normalized[4:6], 16, 64)
	return r, g, b
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	default:
		return false
	}
}
