package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.3.2"
)

var rootCmd = &cobra.Command{
	Use:   "tdf",
	Short: "Deterministic relational test data generator",
	Long: `TDF synthesizes referentially-consistent test data from a relational
schema and a declarative scenario.

Given a schema document (tables, keys, checks, enums) and a scenario
(row counts and value shapes per table), it resolves the foreign-key
dependency order, plans per-table row counts, and generates rows that
respect types, distributions, check constraints, and foreign keys.
Runs are deterministic for a fixed seed.

Database Support:
- PostgreSQL
- MySQL
- SQLite`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tdf.config.json)")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("tdf.config")
	}

	viper.AutomaticEnv()
	viper.ReadInConfig()
}
