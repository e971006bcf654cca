package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

func TestSeedAndDump(t *testing.T) {
	for _, backend := range []string{BackendSQLite, BackendPebble} {
		t.Run(backend, func(t *testing.T) {
			db := filepath.Join(t.TempDir(), "state")

			out, err := execute(t, "seed", "--db", db, "--backend", backend, fixture("before.yaml"))
			require.NoError(t, err)
			assert.Contains(t, out, "✓ Seeded 1 storage(s)")

			out, err = execute(t, "dump", "--db", db, "--backend", backend)
			require.NoError(t, err)
			assert.Equal(t, `Example/Something: null
Example/Owner: null
Example/Fee: 10000000
Example/Balances: {"1":100,"2":50}
Example/Allowances: {}
System/Events: null
`, out)
		})
	}
}

func TestSeed_JSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "state.db")

	out, err := execute(t, "--format", "json", "seed", "--db", db, fixture("after.cue"))
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   SeedResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"Example/Balances", "Example/Something"}, resp.Data.Storages)
}

func TestSeed_Errors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "state.db")

	tests := []struct {
		name string
		args []string
		code ErrorCode
	}{
		{"missing fixture", []string{"seed", "--db", db, fixture("nope.yaml")}, ErrCodeNotFound},
		{"unknown storage", []string{"seed", "--db", db, fixture("unknown.yaml")}, ErrCodeFixture},
		{"unsupported type", []string{"seed", "--db", db, "commands_test.go"}, ErrCodeFixture},
		{"unknown backend", []string{"seed", "--db", db, "--backend", "bolt", fixture("before.yaml")}, ErrCodeBadArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, ExitStatus(err))
			assert.Contains(t, err.Error(), string(tt.code))
			assert.Contains(t, out, "Error ["+string(tt.code)+"]")
		})
	}
}

func TestDump_JSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "state.db")
	_, err := execute(t, "seed", "--db", db, fixture("after.cue"))
	require.NoError(t, err)

	out, err := execute(t, "--format", "json", "dump", "--db", db)
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []StorageValue `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 6)
	assert.Equal(t, "Example/Something", resp.Data[0].Storage)
	assert.JSONEq(t, `7`, string(resp.Data[0].Value))
	assert.JSONEq(t, `{"1": 40, "3": 60}`, string(resp.Data[3].Value))
}

func TestDiff(t *testing.T) {
	out, err := execute(t, "diff", fixture("before.yaml"), fixture("after.cue"))

	require.Error(t, err)
	assert.Equal(t, ExitDiffers, ExitStatus(err))
	assert.Equal(t, "Example/Something: WasNoneNowSome(7)\n"+
		"Example/Balances: map[1:Changed(40) 2:Missing 3:Added(60)]\n", out)
}

func TestDiff_Identical(t *testing.T) {
	out, err := execute(t, "diff", fixture("before.yaml"), fixture("before.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ No differences")
}

func TestDiff_EmptyEventsMatchAbsentEvents(t *testing.T) {
	out, err := execute(t, "diff", fixture("before.yaml"), fixture("empty_events.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "✓ No differences\n", out)
}

func TestDiff_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "diff", fixture("after.cue"), fixture("before.yaml"))
	require.Error(t, err)

	var resp struct {
		Data DiffResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []StorageChange{
		{Storage: "Example/Something", Change: "WasSomeNowNone"},
		{Storage: "Example/Balances", Change: "map[1:Changed(100) 2:Added(50) 3:Missing]"},
	}, resp.Data.Changes)
}

func TestDiff_BadFixture(t *testing.T) {
	_, err := execute(t, "diff", fixture("before.yaml"), fixture("unknown.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitStatus(err))
	assert.Contains(t, err.Error(), string(ErrCodeFixture))
}
