package cmd

import (
	"github.com/spf13/cobra"

	"github.com/logscrub/logscrub/internal/config"
	"github.com/logscrub/logscrub/internal/rules"
)

// addRuleFlags registers the rule-selection flags shared by the redact,
// rules, and tail commands.
func addRuleFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "built-in rule preset to use instead of the defaults (default, secrets, pii)")
	cmd.Flags().StringArray("rules", nil, "JSON rule file, appended to the rule list (repeatable)")
	cmd.Flags().Bool("no-defaults", false, "start from an empty rule list instead of the defaults")
}

// buildRuleList assembles the rule list for a run: the defaults (or a preset,
// or nothing with --no-defaults), followed by each rule file in flag order.
// Config-file defaults fill in when the flags are unset.
func buildRuleList(cmd *cobra.Command, cfg *config.Config) ([]rules.Rule, error) {
	preset, _ := cmd.Flags().GetString("preset")
	ruleFiles, _ := cmd.Flags().GetStringArray("rules")
	noDefaults, _ := cmd.Flags().GetBool("no-defaults")

	if preset == "" {
		preset = cfg.Redact.Preset
	}
	if len(ruleFiles) == 0 {
		ruleFiles = cfg.Redact.RuleFiles
	}

	var list []rules.Rule
	switch {
	case noDefaults:
	case preset != "":
		ps, err := rules.Preset(preset)
		if err != nil {
			return nil, err
		}
		list = ps
	default:
		list = rules.Defaults()
	}

	for _, path := range ruleFiles {
		loaded, err := rules.LoadFile(path)
		if err != nil {
			return nil, err
		}
		list = append(list, loaded...)
	}
	return list, nil
}
