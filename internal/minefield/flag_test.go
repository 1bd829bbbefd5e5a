package minefield

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_Next(t *testing.T) {
	assert.Equal(t, Flagged, None.Next())
	assert.Equal(t, Maybe, Flagged.Next())
	assert.Equal(t, None, Maybe.Next())
}

func TestFlag_String(t *testing.T) {
	assert.Equal(t, "None", None.String())
	assert.Equal(t, "Flag", Flagged.String())
	assert.Equal(t, "Maybe", Maybe.String())
	assert.Equal(t, "Flag(7)", Flag(7).String())
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    Flag
		wantErr bool
	}{
		{input: "none", want: None},
		{input: "flag", want: Flagged},
		{input: "maybe", want: Maybe},
		{input: "Flag", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			flag, err := ParseFlag(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, flag)
		})
	}
}

func TestFlag_JSON(t *testing.T) {
	type payload struct {
		Flag Flag `json:"flag"`
	}

	bytes, err := json.Marshal(payload{Flag: Maybe})
	require.NoError(t, err)
	require.JSONEq(t, `{"flag":"maybe"}`, string(bytes))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"flag":"flag"}`), &decoded))
	require.Equal(t, Flagged, decoded.Flag)

	require.Error(t, json.Unmarshal([]byte(`{"flag":"mine"}`), &decoded))

	_, err = json.Marshal(payload{Flag: Flag(9)})
	require.Error(t, err)
}

func TestState(t *testing.T) {
	assert.False(t, NotStarted.IsTerminal())
	assert.False(t, Playing.IsTerminal())
	assert.True(t, Exploded.IsTerminal())
	assert.True(t, Completed.IsTerminal())

	assert.Equal(t, "exploded", Exploded.String())
	assert.Equal(t, "not_started", NotStarted.String())
}
