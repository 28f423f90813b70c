package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var payload struct {
		Due  Date  `json:"due"`
		Back *Date `json:"back"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-03-01","back":null}`), &payload))
	assert.Equal(t, "2024-03-01", payload.Due.String())
	assert.Nil(t, payload.Back)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-03-01","back":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"due":"01/03/2024"}`), &payload))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 6, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-06", d.String())

	require.NoError(t, d.Scan([]byte("2024-05-07T00:00:00Z")))
	assert.Equal(t, "2024-05-07", d.String())

	assert.Error(t, d.Scan(42))

	value, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-07", value)
}
