package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"scatterlive/internal/chart"
)

var (
	// ErrUnrecognized marks a message without a "list" field; it is ignored.
	ErrUnrecognized = errors.New("message of unrecognized format")
	// ErrMalformed marks a batch with a bad element; the whole batch is dropped.
	ErrMalformed = errors.New("malformed batch")
)

type wirePoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type wireBatch struct {
	List *json.RawMessage `json:"list"`
}

// DecodeBatch parses an "addnodes" message: {"list":[{"x":..,"y":..}, ...]}.
func DecodeBatch(payload []byte) ([]chart.Point, error) {
	var msg wireBatch
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognized, err)
	}
	if msg.List == nil {
		return nil, ErrUnrecognized
	}
	var list []json.RawMessage
	if err := json.Unmarshal(*msg.List, &list); err != nil {
		return nil, fmt.Errorf("%w: list is not an array: %v", ErrMalformed, err)
	}
	pts := make([]chart.Point, 0, len(list))
	for i, raw := range list {
		var wp wirePoint
		if err := json.Unmarshal(raw, &wp); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformed, i, err)
		}
		if wp.X == nil || wp.Y == nil {
			return nil, fmt.Errorf("%w: element %d: missing x or y", ErrMalformed, i)
		}
		pts = append(pts, chart.Point{X: *wp.X, Y: *wp.Y})
	}
	return pts, nil
}

// EncodeBatch is the inverse of DecodeBatch.
func EncodeBatch(pts []chart.Point) ([]byte, error) {
	type point struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	list := make([]point, len(pts))
	for i, p := range pts {
		list[i] = point{X: p.X, Y: p.Y}
	}
	return json.Marshal(struct {
		List []point `json:"list"`
	}{list})
}

// EncodeSelection renders the outbound selection payload: the bare x value.
func EncodeSelection(x float64) []byte {
	return []byte(strconv.FormatFloat(x, 'f', -1, 64))
}

func DecodeSelection(payload []byte) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(payload)), 64)
}
