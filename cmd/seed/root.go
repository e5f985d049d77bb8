package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okian/tastebase/internal/adapters/repository"
	"github.com/okian/tastebase/internal/config"
	"github.com/okian/tastebase/pkg/logger"
)

// flags shared by every subcommand.
type rootFlags struct {
	dbPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create and populate the catalog database",
		Long: `seed prepares the SQLite database served by the catalog API.
It creates the restaurants and dishes tables and loads rows from a YAML
fixture. The embedded default fixture is used when none is given.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "",
		"Database path (default: database_path from config)")

	cmd.AddCommand(newLoadCmd(flags), newSchemaCmd(flags), newFixtureCmd(), newExportCmd(flags))
	return cmd
}

// resolveDBPath prefers the flag, then the layered config.
func resolveDBPath(cmd *cobra.Command, flags *rootFlags) (string, error) {
	if flags.dbPath != "" {
		return flags.dbPath, nil
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return "", err
	}
	return cfg.DatabasePath, nil
}

func openWritable(cmd *cobra.Command, flags *rootFlags) (*repository.SQLiteStore, error) {
	path, err := resolveDBPath(cmd, flags)
	if err != nil {
		return nil, err
	}
	return repository.Open(cmd.Context(), path, repository.WithReadOnly(false))
}

func newLoadCmd(flags *rootFlags) *cobra.Command {
	var (
		fixturePath string
		reset       bool
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Create tables and load a fixture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fixture, err := loadFixture(fixturePath)
			if err != nil {
				return err
			}

			store, err := openWritable(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			res, err := store.Seed(cmd.Context(), fixture, reset)
			if err != nil {
				return err
			}

			logger.Get().Info(cmd.Context(), "fixture loaded",
				logger.String("path", store.Path()),
				logger.Int("restaurants", res.Restaurants),
				logger.Int("dishes", res.Dishes),
				logger.Bool("reset", reset),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d restaurants and %d dishes into %s\n", res.Restaurants, res.Dishes, store.Path())
			return nil
		},
	}
	cmd.Flags().StringVarP(&fixturePath, "fixture", "f", "", "YAML fixture to load (default: embedded fixture)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Delete existing rows before loading")
	return cmd
}

func loadFixture(path string) (repository.Fixture, error) {
	if path == "" {
		return repository.DefaultFixture()
	}
	return repository.LoadFixture(path)
}

func newSchemaCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the catalog tables without loading rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openWritable(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.CreateSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ready in %s\n", store.Path())
			return nil
		},
	}
}

func newFixtureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fixture",
		Short: "Print the embedded default fixture as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fixture, err := repository.DefaultFixture()
			if err != nil {
				return err
			}
			return writeFixture(cmd.OutOrStdout(), fixture)
		},
	}
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the database contents as a YAML fixture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := resolveDBPath(cmd, flags)
			if err != nil {
				return err
			}
			store, err := repository.Open(cmd.Context(), path, repository.WithReadOnly(true))
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fixture, err := repository.Export(cmd.Context(), store)
			if err != nil {
				return err
			}

			if out == "" {
				return writeFixture(cmd.OutOrStdout(), fixture)
			}
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := writeFixture(file, fixture); err != nil {
				_ = file.Close()
				return err
			}
			logger.Get().Info(cmd.Context(), "fixture exported",
				logger.String("path", out),
				logger.Int("restaurants", len(fixture.Restaurants)),
				logger.Int("dishes", len(fixture.Dishes)),
			)
			return file.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func writeFixture(w io.Writer, fixture repository.Fixture) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fixture); err != nil {
		return err
	}
	return enc.Close()
}
