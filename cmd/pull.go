package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/config"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/introspect"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

var pullOutPath string

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Introspect the database into a schema document",
	Long: `Connect to the configured database, read its tables, columns, keys,
checks, and enums, and write them as a schema YAML document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		dbURL, err := cfg.GetDatabaseURL()
		if err != nil {
			return err
		}

		db, err := introspect.OpenDB(cfg.Database.Provider, dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		doc, err := introspect.Pull(context.Background(), db, cfg.Database.Provider)
		if err != nil {
			return fmt.Errorf("introspection failed: %w", err)
		}

		data, err := schema.Dump(doc)
		if err != nil {
			return err
		}

		outPath := pullOutPath
		if outPath == "" {
			outPath = cfg.SchemaPath
		}
		if dir := filepath.Dir(outPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}

		color.Green("✅ Pulled %d tables into %s", len(doc.TableOrder), outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
	pullCmd.Flags().StringVar(&pullOutPath, "out", "", "Schema output path (default from config)")
}
