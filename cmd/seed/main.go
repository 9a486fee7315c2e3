// Command seed loads sample production data into the tracker database.
//
//	go run ./cmd/seed import --file seed/fixtures.yaml [--reset]
//	go run ./cmd/seed destroy
package main

import (
	"fmt"
	"os"

	"github.com/kendall-kelly/production-tracker-api/config"
	"github.com/kendall-kelly/production-tracker-api/models"
	"github.com/kendall-kelly/production-tracker-api/seed"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions holds flags shared by every command
type rootOptions struct {
	DatabaseURL string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load or remove sample production data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", "",
		"database URL (defaults to DATABASE_URL from the environment or .env files)")

	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newDestroyCommand(opts))
	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var file string
	var reset bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import products, operators and orders from a YAML fixture file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := seed.LoadFixtures(file)
			if err != nil {
				return err
			}

			db, err := openDatabase(opts)
			if err != nil {
				return err
			}
			seeder := seed.NewSeeder(db)

			if reset {
				if err := seeder.Destroy(cmd.Context()); err != nil {
					return err
				}
			}

			summary, err := seeder.Import(cmd.Context(), fixtures)
			if err != nil {
				return fmt.Errorf("import failed after %s: %w", summary, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", summary)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed/fixtures.yaml", "fixture file to import")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete existing data before importing")
	return cmd
}

func newDestroyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy",
		Short: "Delete all products, operators, orders and activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(opts)
			if err != nil {
				return err
			}
			if err := seed.NewSeeder(db).Destroy(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sample data destroyed")
			return nil
		},
	}
}

// openDatabase connects and migrates, preferring the --database-url flag
func openDatabase(opts *rootOptions) (*gorm.DB, error) {
	url := opts.DatabaseURL
	if url == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		url = cfg.DatabaseURL
	}

	db, err := config.OpenDatabase(url)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
