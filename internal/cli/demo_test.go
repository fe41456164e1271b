package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemo_Text(t *testing.T) {
	out, err := execute(t, "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "Todos:")
	assert.Contains(t, out, "[x] t-1")
	assert.Contains(t, out, "[ ] t-2")
	assert.Contains(t, out, "Completed: 1")
	assert.Contains(t, out, "todo t-1 completed")
}

func TestDemo_JSON(t *testing.T) {
	out, err := execute(t, "demo", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	list := data["list"].(map[string]any)
	stats := list["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["completed"])

	notifications := data["notifications"].([]any)
	require.Len(t, notifications, 1)
	assert.Equal(t, "todo t-1 completed", notifications[0])
}

func TestDemo_FileDatabase(t *testing.T) {
	path := t.TempDir() + "/demo.db"
	out, err := execute(t, "demo", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Completed: 1")
	assert.FileExists(t, path)
}
