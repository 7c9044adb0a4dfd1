package source

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Sample is a single numeric observation read from the polled endpoint.
type Sample struct {
	Value      float64
	ObservedAt time.Time
	Raw        []byte
}

// decodeSample extracts the value at the dotted field path of a JSON object, e.g. "result.gasUsed".
func decodeSample(body []byte, field string, observedAt time.Time) (*Sample, error) {
	raw := json.RawMessage(body)
	for key := range strings.SplitSeq(field, ".") {
		var obj map[string]json.RawMessage
		err := json.Unmarshal(raw, &obj)
		if err != nil {
			return nil, fmt.Errorf("decode object holding %q: %w", key, err)
		}
		var ok bool
		raw, ok = obj[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, field)
		}
	}

	value, err := parseValue(raw)
	if err != nil {
		return nil, err
	}

	return &Sample{
		Value:      value,
		ObservedAt: observedAt,
		Raw:        append([]byte(nil), body...), // make a copy; safe against mutations
	}, nil
}

// parseValue accepts a JSON number, a decimal string or a 0x prefixed hex string.
// Hex quantities may exceed 64 bits; they lose precision but not magnitude.
func parseValue(raw json.RawMessage) (float64, error) {
	var num float64
	err := json.Unmarshal(raw, &num)
	if err == nil {
		return num, nil
	}

	var s string
	err = json.Unmarshal(raw, &s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidValue, raw)
	}

	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		n, ok := new(big.Int).SetString(hex, 16)
		if !ok {
			return 0, fmt.Errorf("%w: invalid hex %q", ErrInvalidValue, s)
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return finite(f, s)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidValue, s, err)
	}
	return finite(f, s)
}

// finite rejects NaN and infinities, which can not be encoded as JSON.
func finite(f float64, s string) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrInvalidValue, s)
	}
	return f, nil
}
