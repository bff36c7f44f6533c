package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// Display markers used in place of coordinates that cannot be shown
const (
	NoDataMarker  = "no data"
	InvalidMarker = "invalid"
)

// bboxCleaner removes the bracket characters of "[(a, b), (c, d)]"
var bboxCleaner = strings.NewReplacer("[", "", "]", "", "(", "", ")", "")

// Format renders decoded coordinates for display with six decimal places
//
// Examples:
//
//	"[(1.123456789, 2.2), (3.3, 4.4)]" -> "1.123457,2.200000 3.300000,4.400000"
//	[[1,2],[3,4]]                     -> "1.000000,2.000000 3.000000,4.000000"
//	[1,2]                             -> "1.000000,2.000000"
func Format(c Coordinates) string {
	switch c.Kind {
	case KindNone:
		return NoDataMarker
	case KindStringBBox:
		return FormatString(c.Text)
	case KindPairs:
		return FormatPairs(c.Pairs)
	case KindPoint:
		if !c.Point.Valid {
			return InvalidMarker
		}
		return formatPair(c.Point.X, c.Point.Y)
	default:
		return InvalidMarker
	}
}

// FormatString renders a stringified bounding box "[(min_x, min_y), (max_x, max_y)]"
// Only the first four numbers are used, any non-numeric one makes the box invalid
func FormatString(s string) string {
	if s == "" {
		return NoDataMarker
	}

	parts := strings.Split(bboxCleaner.Replace(s), ",")
	if len(parts) < 4 {
		return InvalidMarker
	}

	var v [4]float64
	for i := 0; i < 4; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return InvalidMarker
		}
		v[i] = f
	}

	return formatPair(v[0], v[1]) + " " + formatPair(v[2], v[3])
}

// FormatPairs renders each pair as "x,y" joined by spaces
// Invalid pairs keep their slot and render as InvalidMarker
func FormatPairs(pairs []Pair) string {
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if !p.Valid {
			out = append(out, InvalidMarker)
			continue
		}
		out = append(out, formatPair(p.X, p.Y))
	}
	return strings.Join(out, " ")
}

func formatPair(x, y float64) string {
	return fmt.Sprintf("%.6f,%.6f", x, y)
}
