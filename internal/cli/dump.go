package cli

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/roach88/changeset/internal/example"
	"github.com/roach88/changeset/internal/registry"
	"github.com/roach88/changeset/internal/storage"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	DatabaseOptions
}

// StorageValue is one storage in a dump.
type StorageValue struct {
	Storage string          `json:"storage"`
	Value   json.RawMessage `json:"value"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the current value of every storage",
		Long: `Print the current value of every storage of the example pallet.

Values are printed as JSON, in the form a fixture accepts, so a dump can be
turned back into a fixture.

Example:
  changeset dump --db ./state.db
  changeset dump --db ./state --backend pebble --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the database (required)")
	cmd.Flags().StringVar(&opts.Backend, "backend", BackendSQLite, "database backend (sqlite|pebble)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runDump(opts *DumpOptions, cmd *cobra.Command) error {
	out := newOutput(opts.RootOptions, cmd)

	backend, err := openBackend(opts.DatabaseOptions)
	if err != nil {
		return out.Fail(err)
	}
	defer backend.Close()

	pallet := example.New(backend, example.WithLogger(out.Logger()))
	values, err := registry.TryMap(registry.Of(pallet.Storages()...), func(s storage.Tracked) (StorageValue, error) {
		c, err := s.Capture(cmd.Context())
		if err != nil {
			return StorageValue{}, err
		}
		raw, err := json.Marshal(c.Value())
		if err != nil {
			return StorageValue{}, fmt.Errorf("encode %s: %w", s.Name(), err)
		}
		return StorageValue{Storage: s.Name().String(), Value: raw}, nil
	})
	if err != nil {
		return out.Fail(commandError(ErrCodeBackend, err))
	}

	var buf strings.Builder
	for i, v := range values.All() {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "%s: %s", v.Storage, v.Value)
	}
	return out.Result(values.Slice(), buf.String())
}
