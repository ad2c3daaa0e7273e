package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexFloat decodes from a JSON number or a numeric string.
// Form-driven clients send "10" as often as 10. Empty strings and null decode to zero.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%q is not a number", s)
		}
		*f = FlexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// Float64 returns the plain value
func (f FlexFloat) Float64() float64 {
	return float64(f)
}

// MaxWhole is the largest value IsWholePositive accepts; ids and counts are stored as 32-bit integers
const MaxWhole = math.MaxInt32

// IsWholePositive reports whether the value is an integer in [1, MaxWhole]
func (f FlexFloat) IsWholePositive() bool {
	v := float64(f)
	return v > 0 && v <= MaxWhole && v == math.Trunc(v)
}

// Int truncates to an int. Callers check IsWholePositive first.
func (f FlexFloat) Int() int {
	return int(f)
}

// StringList decodes from a JSON array of strings or from a string holding one.
// Multipart forms send arrays JSON-encoded.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return l.parseEncoded(s)
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected an array of strings: %w", err)
	}
	*l = items
	return nil
}

func (l *StringList) parseEncoded(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*l = nil
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return fmt.Errorf("expected a JSON array of strings: %w", err)
	}
	*l = items
	return nil
}
