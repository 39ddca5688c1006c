// guinote runs Guiñote tables from the terminal.
//
// Usage:
//
//	guinote simulate         - Play a full offline match with four local bots
//	guinote connect          - Join an online table on the authoritative server
//	guinote rules            - Print the effective house rules
//
// Global flags:
//
//	--env <path>        - .env file to load (default: .env)
//	--rules <path>      - Custom rules.yaml
//	--log-level <lvl>   - logrus level (default: from GUINOTE_LOG_LEVEL or info)
package main

import (
	"fmt"
	"os"

	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/config"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagEnvFile  string
	flagRules    string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "guinote",
	Short: "Guiñote tables in your terminal",
	Long: `guinote plays four-seat partnership Guiñote.

Available commands:
  simulate - Play an offline match where every seat plays its first legal card
  connect  - Mirror one seat of an online table served by the authoritative server
  rules    - Show the house rules in effect

Examples:
  guinote simulate --seed 7
  guinote simulate --db sqlite://./results.db
  guinote connect --server ws://localhost:8080/game --game <uuid> --player <uuid>
  guinote rules --rules ./configs/rules.yaml`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env", ".env", "Path to .env file")
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "Path to rules.yaml (default: search ~/.guinote, ./configs, built-in)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(rulesCmd)
}

// setup loads configuration, applies the log level and resolves the rules
// shared by every subcommand.
func setup() (*config.Config, models.HouseRules, error) {
	cfg, err := config.Load(flagEnvFile)
	if err != nil {
		return nil, models.HouseRules{}, err
	}

	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, models.HouseRules{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rulesPath := cfg.RulesPath
	if flagRules != "" {
		rulesPath = flagRules
	}
	rules, err := config.LoadHouseRules(rulesPath)
	if err != nil {
		return nil, models.HouseRules{}, err
	}
	return cfg, rules, nil
}
