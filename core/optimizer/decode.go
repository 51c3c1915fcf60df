// Package optimizer decodes the external optimizer payload and normalizes its
// per-vehicle decisions. Decoding tolerates the field spellings used by the
// different optimizer versions; normalization never fails.
package optimizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Accepted spellings, in lookup order.
var (
	idKeys     = []string{"train_id", "trainId"}
	labelKeys  = []string{"decision", "action"}
	scoreKeys  = []string{"score"}
	reasonKeys = []string{"reasons", "reason"}
)

// ErrMalformedPayload is returned when the payload is not an object with a
// results array.
var ErrMalformedPayload = errors.New("optimizer: malformed payload")

// RawDecision is one decision as emitted by the optimizer.
type RawDecision struct {
	VehicleID string   `json:"train_id"`
	Label     string   `json:"decision"`
	Score     float64  `json:"score"`
	Reasons   []string `json:"reasons"`
}

// UnmarshalJSON decodes a decision object, accepting alternative field names
// and defaulting unusable values instead of failing. Only a value that is not
// a JSON object is an error.
func (d *RawDecision) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("decision: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("decision: null")
	}
	*d = RawDecision{
		VehicleID: strings.TrimSpace(stringField(fields, idKeys)),
		Label:     stringField(fields, labelKeys),
		Score:     scoreField(fields, scoreKeys),
		Reasons:   reasonsField(fields, reasonKeys),
	}
	return nil
}

// DecodeResults decodes a `{"results": [...]}` payload. Elements that are not
// objects are skipped and counted. A payload that is not an object or whose
// results member is not an array yields ErrMalformedPayload.
func DecodeResults(payload []byte) ([]RawDecision, int, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(payload, &env); err != nil || env == nil {
		return nil, 0, ErrMalformedPayload
	}
	raw, ok := env["results"]
	if !ok {
		return nil, 0, fmt.Errorf("%w: results missing", ErrMalformedPayload)
	}
	return DecodeList(raw)
}

// DecodeList decodes a JSON array of decisions.
func DecodeList(raw []byte) ([]RawDecision, int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || !isArray(raw) {
		return nil, 0, fmt.Errorf("%w: results is not an array", ErrMalformedPayload)
	}
	out := make([]RawDecision, 0, len(items))
	skipped := 0
	for _, it := range items {
		var d RawDecision
		if err := json.Unmarshal(it, &d); err != nil {
			skipped++
			continue
		}
		out = append(out, d)
	}
	return out, skipped, nil
}

func isArray(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '['
}

func lookup(fields map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

func stringField(fields map[string]json.RawMessage, keys []string) string {
	raw, ok := lookup(fields, keys)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// numeric identifiers are accepted as their literal text
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func scoreField(fields map[string]json.RawMessage, keys []string) float64 {
	raw, ok := lookup(fields, keys)
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func reasonsField(fields map[string]json.RawMessage, keys []string) []string {
	raw, ok := lookup(fields, keys)
	if !ok {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		var s string
		if err := json.Unmarshal(it, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}
