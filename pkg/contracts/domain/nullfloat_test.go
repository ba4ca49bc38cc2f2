package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullFloatCSV(t *testing.T) {
	tests := []struct {
		name string
		in   NullFloat
		want string
	}{
		{name: "missing", in: NullFloat{}, want: ""},
		{name: "integral", in: Float(12), want: "12"},
		{name: "fraction", in: Float(0.125), want: "0.125"},
		{name: "negative", in: Float(-0.5), want: "-0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.MarshalCSV()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			var back NullFloat
			require.NoError(t, back.UnmarshalCSV(got))
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestNullFloatUnmarshalCSV_NaNAndGarbage(t *testing.T) {
	var n NullFloat
	require.NoError(t, n.UnmarshalCSV("NaN"))
	assert.False(t, n.Valid)

	assert.Error(t, n.UnmarshalCSV("abc"))
}

func TestNullFloatJSON(t *testing.T) {
	payload := struct {
		A NullFloat `json:"a"`
		B NullFloat `json:"b"`
	}{A: Float(1.5)}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(data))

	var decoded struct {
		A NullFloat `json:"a"`
		B NullFloat `json:"b"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, payload.A, decoded.A)
	assert.False(t, decoded.B.Valid)
}
