package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind tells which of the shapes the geo service used for a coordinates field
type Kind int

const (
	// KindNone means null, absent or an empty string
	KindNone Kind = iota
	// KindStringBBox is a stringified box such as "[(1, 2), (3, 4)]"
	KindStringBBox
	// KindPoint is a flat array such as [1, 2]
	KindPoint
	// KindPairs is a nested array such as [[1, 2], [3, 4]]
	KindPairs
	// KindUnknown is any other JSON value
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindStringBBox:
		return "string_bbox"
	case KindPoint:
		return "point"
	case KindPairs:
		return "pairs"
	default:
		return "unknown"
	}
}

// Pair is one element of a nested coordinates array
// Valid is false when the element had fewer than two numeric components
type Pair struct {
	X, Y  float64
	Valid bool
}

// Coordinates is the decoded form of a record's coordinates field
//
// The geo service returns bounding boxes either as a string of tuples or as
// nested arrays depending on the code path. UnmarshalJSON decides the Kind
// once, at the API boundary, so the display layer never sniffs shapes.
type Coordinates struct {
	Kind  Kind
	Text  string // set for KindStringBBox
	Point Pair   // set for KindPoint
	Pairs []Pair // set for KindPairs
	raw   []byte // original JSON, kept for re-encoding and export
}

// StringBBox builds string-shaped coordinates
func StringBBox(s string) Coordinates {
	raw, _ := json.Marshal(s)
	c := Coordinates{Kind: KindStringBBox, Text: s, raw: raw}
	if s == "" {
		c.Kind = KindNone
	}
	return c
}

// PointOf builds flat two-element coordinates
func PointOf(x, y float64) Coordinates {
	raw, _ := json.Marshal([2]float64{x, y})
	return Coordinates{Kind: KindPoint, Point: Pair{X: x, Y: y, Valid: true}, raw: raw}
}

// PairsOf builds nested array coordinates
func PairsOf(pairs ...[2]float64) Coordinates {
	raw, _ := json.Marshal(pairs)
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Pair{X: p[0], Y: p[1], Valid: true})
	}
	return Coordinates{Kind: KindPairs, Pairs: out, raw: raw}
}

// UnmarshalJSON decodes any of the shapes the geo service is known to send
// It never fails on an unexpected shape, that becomes KindUnknown instead
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	*c = Coordinates{raw: append([]byte(nil), data...)}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		c.Kind = KindNone
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode coordinates string: %w", err)
		}
		c.Text = s
		c.Kind = KindStringBBox
		if s == "" {
			c.Kind = KindNone
		}
		return nil

	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return fmt.Errorf("decode coordinates array: %w", err)
		}
		c.decodeArray(elems)
		return nil

	default:
		c.Kind = KindUnknown
		return nil
	}
}

// decodeArray chooses between the flat and the nested array forms
// by looking at the first element, like the original display code did
func (c *Coordinates) decodeArray(elems []json.RawMessage) {
	if len(elems) == 0 {
		c.Kind = KindUnknown
		return
	}

	first := bytes.TrimSpace(elems[0])
	if len(first) > 0 && first[0] == '[' {
		c.Kind = KindPairs
		c.Pairs = make([]Pair, 0, len(elems))
		for _, e := range elems {
			c.Pairs = append(c.Pairs, decodePair(e))
		}
		return
	}

	if len(elems) != 2 {
		c.Kind = KindUnknown
		return
	}
	x, okX := decodeNumber(elems[0])
	y, okY := decodeNumber(elems[1])
	if !okX || !okY {
		c.Kind = KindUnknown
		return
	}
	c.Kind = KindPoint
	c.Point = Pair{X: x, Y: y, Valid: true}
}

// decodePair decodes one nested element; anything but [number, number, ...] is invalid
func decodePair(raw json.RawMessage) Pair {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil || len(parts) < 2 {
		return Pair{}
	}
	x, okX := decodeNumber(parts[0])
	y, okY := decodeNumber(parts[1])
	if !okX || !okY {
		return Pair{}
	}
	return Pair{X: x, Y: y, Valid: true}
}

// decodeNumber accepts JSON numbers only, numeric strings are not numbers here
func decodeNumber(raw json.RawMessage) (float64, bool) {
	var v float64
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] == '"' {
		return 0, false
	}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return 0, false
	}
	return v, true
}

// MarshalJSON writes the coordinates back in the shape they arrived in
func (c Coordinates) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	switch c.Kind {
	case KindStringBBox:
		return json.Marshal(c.Text)
	case KindPoint:
		return json.Marshal([2]float64{c.Point.X, c.Point.Y})
	case KindPairs:
		out := make([][2]float64, 0, len(c.Pairs))
		for _, p := range c.Pairs {
			out = append(out, [2]float64{p.X, p.Y})
		}
		return json.Marshal(out)
	default:
		return []byte("null"), nil
	}
}

// Raw returns the textual form the geo service sent
// Strings are returned unquoted, every other shape as compact JSON
func (c Coordinates) Raw() string {
	if c.Kind == KindStringBBox {
		return c.Text
	}
	if c.Kind == KindNone {
		return ""
	}
	b, err := c.MarshalJSON()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return string(b)
	}
	return buf.String()
}
