package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// NullFloat is a float64 that may be missing, such as a rolling mean whose
// window is not yet full. Missing values are written as empty CSV cells and
// JSON null.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// MarshalCSV renders the value with round-trip precision
func (n NullFloat) MarshalCSV() (string, error) {
	if !n.Valid {
		return "", nil
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64), nil
}

// UnmarshalCSV parses a cell; empty and NaN cells become invalid
func (n *NullFloat) UnmarshalCSV(s string) error {
	if s == "" {
		*n = NullFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	if math.IsNaN(v) {
		*n = NullFloat{}
		return nil
	}
	*n = Float(v)
	return nil
}

// MarshalJSON implements json.Marshaler
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}
