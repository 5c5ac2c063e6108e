package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new project in the current directory",
	Long: `Write a default tdf.config.json and create the db/ directory where the
schema and scenario documents live.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitializeProject(); err != nil {
			return err
		}
		color.Green("✅ Project initialized")
		color.Cyan("Next steps:")
		color.White("  1. Set DATABASE_URL in your environment or .env file")
		color.White("  2. Run 'tdf pull' to introspect your schema, or write db/schema.yaml by hand")
		color.White("  3. Describe row counts and value shapes in db/scenario.yaml")
		color.White("  4. Run 'tdf generate' to produce db/generated.sql")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
