package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salewski/sourcegraph--cody/internal/query"
	"github.com/salewski/sourcegraph--cody/internal/querytext"
	"github.com/salewski/sourcegraph--cody/internal/store"
)

func seedLog(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "prepare.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	for _, name := range []string{"Site", "User"} {
		p, err := querytext.Prepare("1.0.0", query.Nested("f", query.String(name)))
		require.NoError(t, err)
		_, _, err = st.RecordPrepare(ctx, name, "1.0.0", p)
		require.NoError(t, err)
	}
	return dbPath
}

func TestLogCommandListsAll(t *testing.T) {
	dbPath := seedLog(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewLogCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dbPath})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Site@1.0.0")
	assert.Contains(t, output, "User@1.0.0")
}

func TestLogCommandFiltersByQuery(t *testing.T) {
	dbPath := seedLog(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewLogCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dbPath, "--query", "Site"})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), data["count"])
}

func TestLogCommandEmptyLog(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewLogCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dbPath})

	err = cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no recorded outcomes")
}
