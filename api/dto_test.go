package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookRequest_WireRoundTrip(t *testing.T) {
	original := BookRequest{
		StartTime:    "2030-01-01T10:00:00Z",
		StudentName:  "Ana",
		StudentEmail: "ana@example.com",
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded BookRequest
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, original, decoded)
}

func TestBookResult_OmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(BookResult{Success: false, Error: "Failed to create booking"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":false,"error":"Failed to create booking"}`, string(raw))

	raw, err = json.Marshal(BookResult{Success: true, EventID: "evt_123"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":true,"eventId":"evt_123"}`, string(raw))
}
