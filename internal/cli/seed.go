package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/changeset/internal/example"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	DatabaseOptions
}

// SeedResult is the JSON payload of a successful seed.
type SeedResult struct {
	Storages []string `json:"storages"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed <fixture>",
		Short: "Write a fixture into a database",
		Long: `Write the storages listed in a YAML or CUE fixture into a database.

Storages named in the fixture are replaced; other storages are left alone.

Example:
  changeset seed --db ./state.db genesis.yaml
  changeset seed --db ./state --backend pebble genesis.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the database (required)")
	cmd.Flags().StringVar(&opts.Backend, "backend", BackendSQLite, "database backend (sqlite|pebble)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSeed(opts *SeedOptions, fixture string, cmd *cobra.Command) error {
	out := newOutput(opts.RootOptions, cmd)
	logger := out.Logger()

	cfg, err := loadFixture(fixture)
	if err != nil {
		return out.Fail(err)
	}
	out.Verbosef("Loaded %d storage(s) from %s", len(cfg.Storages()), fixture)

	backend, err := openBackend(opts.DatabaseOptions)
	if err != nil {
		return out.Fail(err)
	}
	defer backend.Close()

	pallet := example.New(backend, example.WithLogger(logger))
	if err := cfg.Apply(cmd.Context(), pallet.Seeders()...); err != nil {
		return out.Fail(commandError(ErrCodeFixture, err))
	}
	logger.Debug("fixture applied", zap.String("fixture", fixture), zap.String("db", opts.Database))

	return out.Result(SeedResult{Storages: cfg.Storages()},
		fmt.Sprintf("✓ Seeded %d storage(s) into %s", len(cfg.Storages()), opts.Database))
}
