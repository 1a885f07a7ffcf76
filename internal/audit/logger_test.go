package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Record(Event{
		Action:  ActionLogin,
		User:    "test_user",
		Target:  "1234",
		Success: true,
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit", entry["log_type"])
	assert.Equal(t, "osm-auth", entry["service"])
	assert.Equal(t, "login", entry["action"])
	assert.Equal(t, "test_user", entry["user"])
	assert.Equal(t, "1234", entry["target"])
	assert.Equal(t, true, entry["success"])
	assert.NotContains(t, entry, "error")
	assert.NotEmpty(t, entry["timestamp"])
}

func TestRecord_Failure(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Record(Event{Action: ActionLogin, Details: "awaiting_code", Err: errors.New("boom")})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, false, entry["success"])
	assert.Equal(t, "awaiting_code", entry["details"])
	assert.Equal(t, "boom", entry["error"])
	assert.NotContains(t, entry, "user")
}
