package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/logscrub/logscrub/internal/config"
	"github.com/logscrub/logscrub/internal/output"
	"github.com/logscrub/logscrub/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the active redaction rules",
	Long: `Print the rule list a redaction run would apply, including each
rule's stable identifier, or list the built-in presets.

Examples:
  logscrub rules
  logscrub rules --preset pii
  logscrub rules --rules extra.json --format table
  logscrub rules --list-presets`,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().Bool("list-presets", false, "list built-in preset names")
	addRuleFlags(rulesCmd)

	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	listPresets, _ := cmd.Flags().GetBool("list-presets")

	format := output.ParseFormat(viper.GetString("format"))
	wr := output.New(cmd.OutOrStdout(), format)

	if listPresets {
		return wr.WritePresets(rules.PresetNames())
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	list, err := buildRuleList(cmd, cfg)
	if err != nil {
		return err
	}
	return wr.WriteRules(list)
}
