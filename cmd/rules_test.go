package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRulesTestCmd(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "rules"}
	cmd.SetOut(out)
	cmd.Flags().Bool("list-presets", false, "")
	addRuleFlags(cmd)
	return cmd
}

func TestRulesOutputsJSON(t *testing.T) {
	viper.Reset()

	var out bytes.Buffer
	cmd := newRulesTestCmd(&out)

	if err := runRules(cmd, nil); err != nil {
		t.Fatalf("runRules() error = %v", err)
	}

	var payload struct {
		Rules []map[string]string `json:"rules"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(payload.Rules) == 0 {
		t.Fatal("no rules listed")
	}
	if payload.Rules[0]["rule_id"] == "" {
		t.Errorf("first rule has no rule_id: %v", payload.Rules[0])
	}
}

func TestRulesListPresets(t *testing.T) {
	viper.Reset()

	var out bytes.Buffer
	cmd := newRulesTestCmd(&out)
	_ = cmd.Flags().Set("list-presets", "true")

	if err := runRules(cmd, nil); err != nil {
		t.Fatalf("runRules() error = %v", err)
	}

	var payload struct {
		Presets []string `json:"presets"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, want := range []string{"default", "secrets", "pii"} {
		found := false
		for _, name := range payload.Presets {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("preset %q missing from %v", want, payload.Presets)
		}
	}
}

func TestRulesPresetFilter(t *testing.T) {
	viper.Reset()

	var all, pii bytes.Buffer

	cmd := newRulesTestCmd(&all)
	if err := runRules(cmd, nil); err != nil {
		t.Fatalf("runRules() error = %v", err)
	}

	cmd = newRulesTestCmd(&pii)
	_ = cmd.Flags().Set("preset", "pii")
	if err := runRules(cmd, nil); err != nil {
		t.Fatalf("runRules() error = %v", err)
	}

	count := func(buf *bytes.Buffer) int {
		var payload struct {
			Rules []map[string]string `json:"rules"`
		}
		if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		return len(payload.Rules)
	}
	if count(&pii) >= count(&all) {
		t.Errorf("pii preset (%d rules) should be smaller than defaults (%d)", count(&pii), count(&all))
	}
}

func TestBuildRuleListSourceOrder(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	ruleFile := writeTempFile(t, dir, "extra.json", `[{"pattern":"zzz","replacement":"[Z]"}]`)

	var out bytes.Buffer
	cmd := newRulesTestCmd(&out)
	_ = cmd.Flags().Set("rules", ruleFile)

	if err := runRules(cmd, nil); err != nil {
		t.Fatalf("runRules() error = %v", err)
	}

	var payload struct {
		Rules []map[string]string `json:"rules"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	last := payload.Rules[len(payload.Rules)-1]
	if last["pattern"] != "zzz" {
		t.Errorf("user rules must come after defaults, last = %v", last)
	}
}
