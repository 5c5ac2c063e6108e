package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/config"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/datagen"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the generation plan without synthesizing rows",
	Long: `Resolve the insertion order and per-table row counts for the current
schema and scenario, then print them. No data is generated.`,
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

		plan, err := datagen.DryRun(doc, scn, opts)
		if err != nil {
			return err
		}

		color.Cyan("Plan (seed %d):", plan.Seed)
		total := 0
		for i, table := range plan.Order {
			tp := plan.Tables[table]
			total += tp.RowCount
			switch tp.Mode {
			case datagen.ModePerParent:
				fmt.Printf("  %d. %s: %d rows (perParent of %s)\n", i+1, table, tp.RowCount, tp.Parent)
			case datagen.ModeM2M:
				fmt.Printf("  %d. %s: %d rows (m2m %s x %s)\n", i+1, table, tp.RowCount, tp.Left, tp.Right)
			default:
				fmt.Printf("  %d. %s: %d rows\n", i+1, table, tp.RowCount)
			}
		}
		fmt.Printf("Total: %d rows\n", total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVar(&genSchemaPath, "schema", "", "Schema document path (default from config)")
	planCmd.Flags().StringVar(&genScenarioPath, "scenario", "", "Scenario document path (default from config)")
	planCmd.Flags().Int64Var(&genSeed, "seed", 0, "Override the scenario's seed")
}
