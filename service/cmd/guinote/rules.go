package main

import (
	"fmt"

	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/config"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective house rules",
	Long: `Print the house rules as YAML after applying the search order:
--rules / GUINOTE_RULES, ~/.guinote/rules.yaml, ./configs/rules.yaml, built-in defaults.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func runRules(cmd *cobra.Command, _ []string) error {
	_, rules, err := setup()
	if err != nil {
		return err
	}
	out, err := config.MarshalHouseRules(rules)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}
