package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MinPolygonPoints is the smallest number of vertices accepted for a polygon query
const MinPolygonPoints = 3

// validate is shared by every call to Validate; validator.Validate caches
// struct metadata and is safe for concurrent use
var validate = validator.New()

// Coordinate is a single [longitude, latitude] pair
// No range validation is performed, only numeric parseability
type Coordinate struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Pair returns the coordinate in the wire form the geo service expects: [lng, lat]
func (c Coordinate) Pair() [2]float64 {
	return [2]float64{c.Lng, c.Lat}
}

// Parse converts raw user input into a list of coordinates
//
// Input format: "lng,lat lng,lat ..."
// Example: "75.692101,8.418863 -142.224468,70.396431"
//
// Tokens that do not parse are silently dropped, the call never fails.
func Parse(input string) []Coordinate {
	coords, _ := ParseReport(input)
	return coords
}

// ParseReport works like Parse but also reports every dropped token
// The caller decides whether dropped tokens are worth logging
func ParseReport(input string) ([]Coordinate, []*ParseError) {
	var (
		coords  []Coordinate
		dropped []*ParseError
	)

	// Split on single spaces, exactly like the original form did.
	// Consecutive spaces produce empty tokens which are dropped below.
	for _, token := range strings.Split(strings.TrimSpace(input), " ") {
		coord, err := parseToken(token)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		coords = append(coords, coord)
	}

	return coords, dropped
}

// parseToken parses one "lng,lat" token
// Components after the second are ignored
func parseToken(token string) (Coordinate, *ParseError) {
	parts := strings.Split(token, ",")
	if len(parts) < 2 {
		return Coordinate{}, &ParseError{Token: token, Reason: "expected lng,lat"}
	}

	lng, err := parseComponent(parts[0])
	if err != nil {
		return Coordinate{}, &ParseError{Token: token, Reason: fmt.Sprintf("longitude: %v", err)}
	}
	lat, err := parseComponent(parts[1])
	if err != nil {
		return Coordinate{}, &ParseError{Token: token, Reason: fmt.Sprintf("latitude: %v", err)}
	}

	return Coordinate{Lng: lng, Lat: lat}, nil
}

// parseComponent reads the longest numeric prefix of s, like a browser's
// parseFloat: "2\n3" is 2 and "6abc" is 6. NaN and infinities are rejected.
func parseComponent(s string) (float64, error) {
	prefix := floatPrefix(s)
	if prefix == "" {
		return 0, fmt.Errorf("%q is not a number", s)
	}

	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return v, nil
}

// floatPrefix returns the leading decimal number of s after leading whitespace
// Grammar: [+-] digits [. digits] [(e|E) [+-] digits], at least one mantissa digit
func floatPrefix(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	mantissa := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		mantissa++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			mantissa++
		}
		if mantissa > 0 {
			i = j
		}
	}
	if mantissa == 0 {
		return ""
	}

	// An exponent only counts when at least one digit follows it
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}

	return s[:i]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Validate checks that coords can describe a polygon query
//
// Returns:
//   - *ValidationError when fewer than MinPolygonPoints coordinates are given
//   - nil otherwise
func Validate(coords []Coordinate) error {
	if err := validate.Var(coords, fmt.Sprintf("min=%d", MinPolygonPoints)); err != nil {
		return &ValidationError{Message: fmt.Sprintf("need at least %d points", MinPolygonPoints)}
	}
	return nil
}

// Pairs converts coordinates to the nested array form used on the wire
func Pairs(coords []Coordinate) [][2]float64 {
	out := make([][2]float64, 0, len(coords))
	for _, c := range coords {
		out = append(out, c.Pair())
	}
	return out
}
