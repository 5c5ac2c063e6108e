package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/config"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/datagen"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/introspect"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/render"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/scenario"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

var (
	genSchemaPath   string
	genScenarioPath string
	genOutPath      string
	genSeed         int64
	genApply        bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate test data from a schema and scenario",
	Long: `Resolve the scenario's table order from the foreign-key graph, plan
per-table row counts, synthesize rows, and write them as a SQL script
(or insert them directly with --apply).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		doc, scn, err := loadDocuments(cfg)
		if err != nil {
			return err
		}

		var opts datagen.Options
		if cmd.Flags().Changed("seed") {
			opts.Seed = &genSeed
		}

		result, err := datagen.Run(doc, scn, opts)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		for _, warning := range result.Warnings {
			color.Yellow("⚠️  %s", warning)
		}

		total := 0
		for _, table := range result.Plan.Order {
			total += result.Plan.Tables[table].RowCount
		}
		color.Green("✅ Generated %d rows across %d tables (seed %d)", total, len(result.Plan.Order), result.Plan.Seed)

		if genApply {
			return applyDataset(cfg, doc, result)
		}

		outPath := genOutPath
		if outPath == "" {
			outPath = cfg.OutPath
		}
		script := render.Script(doc, result.Plan, result.Data)
		if err := os.WriteFile(outPath, []byte(script), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		color.Cyan("📄 Wrote %s", outPath)
		return nil
	},
}

func loadDocuments(cfg *config.Config) (*schema.Document, *scenario.Document, error) {
	schemaPath := genSchemaPath
	if schemaPath == "" {
		schemaPath = cfg.SchemaPath
	}
	scenarioPath := genScenarioPath
	if scenarioPath == "" {
		scenarioPath = cfg.ScenarioPath
	}

	doc, err := schema.Load(schemaPath)
	if err != nil {
		return nil, nil, err
	}
	scn, err := scenario.Load(scenarioPath)
	if err != nil {
		return nil, nil, err
	}
	return doc, scn, nil
}

func applyDataset(cfg *config.Config, doc *schema.Document, result *datagen.Result) error {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return err
	}
	db, err := introspect.OpenDB(cfg.Database.Provider, dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	loader := render.NewLoader(db, cfg.Database.Provider)
	if err := loader.Load(context.Background(), doc, result.Plan, result.Data); err != nil {
		return err
	}
	color.Green("✅ Data loaded into %s database", cfg.Database.Provider)
	return nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&genSchemaPath, "schema", "", "Schema document path (default from config)")
	generateCmd.Flags().StringVar(&genScenarioPath, "scenario", "", "Scenario document path (default from config)")
	generateCmd.Flags().StringVar(&genOutPath, "out", "", "Output SQL file path (default from config)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "Override the scenario's seed")
	generateCmd.Flags().BoolVar(&genApply, "apply", false, "Insert generated rows into the configured database")
}
