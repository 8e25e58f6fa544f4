package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_IsValid(t *testing.T) {
	id := NewID()
	require.NoError(t, id.Validate())
	assert.NotEqual(t, id, NewID())
}

func TestID_Validate(t *testing.T) {
	assert.Error(t, ID("").Validate())
	assert.Error(t, ID("not-a-uuid").Validate())
}

func TestTimestamp_JSON(t *testing.T) {
	ts := Timestamp(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01T12:00:00Z"`, string(data))

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ts.ToUnixMilli(), back.ToUnixMilli())
	assert.Error(t, back.UnmarshalJSON([]byte(`"yesterday"`)))
}
