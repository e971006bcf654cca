package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/changeset/internal/diff"
	"github.com/roach88/changeset/internal/example"
	"github.com/roach88/changeset/internal/registry"
	"github.com/roach88/changeset/internal/storage"
	"github.com/roach88/changeset/internal/store"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
}

// StorageChange is one changed storage in a diff.
type StorageChange struct {
	Storage string `json:"storage"`
	Change  string `json:"change"`
}

// DiffResult is the JSON payload of a diff.
type DiffResult struct {
	Changes []StorageChange `json:"changes"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Show the changesets between two fixtures",
		Long: `Seed two fixtures into fresh in-memory databases and print, for every
storage of the example pallet, the changeset that turns the first state into
the second.

Exits with code 1 when any storage differs.

Example:
  changeset diff genesis.yaml after-transfer.yaml`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runDiff(opts *DiffOptions, beforePath, afterPath string, cmd *cobra.Command) error {
	out := newOutput(opts.RootOptions, cmd)
	logger := out.Logger()
	ctx := cmd.Context()

	before, err := captureFixture(ctx, beforePath, logger)
	if err != nil {
		return out.Fail(err)
	}
	after, err := captureFixture(ctx, afterPath, logger)
	if err != nil {
		return out.Fail(err)
	}

	pairs, err := registry.Zip(before, after)
	if err != nil {
		return out.Fail(err)
	}
	diffs, err := registry.TryMap(pairs, func(p registry.Pair[storage.Capture, storage.Capture]) (diff.Diff[any], error) {
		return p.Left.Changes(p.Right)
	})
	if err != nil {
		return out.Fail(err)
	}

	var changes []StorageChange
	for i, d := range diffs.All() {
		if !d.Changed {
			continue
		}
		changes = append(changes, StorageChange{
			Storage: before.At(i).Storage().String(),
			Change:  fmt.Sprint(d.To),
		})
	}
	out.Verbosef("Compared %d storage(s), %d changed", diffs.Len(), len(changes))

	text := "✓ No differences"
	if len(changes) > 0 {
		lines := make([]string, len(changes))
		for i, c := range changes {
			lines[i] = fmt.Sprintf("%s: %s", c.Storage, c.Change)
		}
		text = strings.Join(lines, "\n")
	}
	if err := out.Result(DiffResult{Changes: changes}, text); err != nil {
		return err
	}

	if len(changes) > 0 {
		return differError(len(changes))
	}
	return nil
}

// captureFixture seeds a fixture into a private in-memory database and
// captures every storage of the example pallet.
func captureFixture(ctx context.Context, path string, logger *zap.Logger) (registry.List[storage.Capture], error) {
	cfg, err := loadFixture(path)
	if err != nil {
		return registry.List[storage.Capture]{}, err
	}

	backend, err := store.OpenSQLite(":memory:")
	if err != nil {
		return registry.List[storage.Capture]{}, commandError(ErrCodeBackend, err)
	}
	defer backend.Close()

	pallet := example.New(backend, example.WithLogger(logger))
	if err := cfg.Apply(ctx, pallet.Seeders()...); err != nil {
		return registry.List[storage.Capture]{}, commandError(ErrCodeFixture, err)
	}
	logger.Debug("fixture captured", zap.String("fixture", path))

	return registry.TryMap(registry.Of(pallet.Storages()...), func(s storage.Tracked) (storage.Capture, error) {
		return s.Capture(ctx)
	})
}
