package rules

import (
	"errors"
	"strings"
	"testing"
)

func TestRuleIDDeterministic(t *testing.T) {
	a := RuleID(`password=(\S+)`, "password=[REDACTED]")
	b := RuleID(`password=(\S+)`, "password=[REDACTED]")
	if a != b {
		t.Errorf("identical definitions produced different ids: %s vs %s", a, b)
	}
	if len(a) != 12 {
		t.Errorf("RuleID() length = %d, want 12", len(a))
	}
}

func TestRuleIDDistinguishesPairs(t *testing.T) {
	// The separator byte keeps (pattern, replacement) boundaries unambiguous.
	ids := map[string]string{}
	pairs := [][2]string{
		{"ab", "c"},
		{"a", "bc"},
		{"ab", ""},
		{"", "ab"},
	}
	for _, p := range pairs {
		id := RuleID(p[0], p[1])
		if prev, ok := ids[id]; ok {
			t.Errorf("RuleID collision between %q and %q/%q", prev, p[0], p[1])
		}
		ids[id] = p[0] + "|" + p[1]
	}
}

func TestCompilePreservesOrder(t *testing.T) {
	pairs := []PatternDef{
		{"a", "b"},
		{"b", "c"},
	}
	list, err := Compile(pairs)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Compile() returned %d rules, want 2", len(list))
	}
	if list[0].Pattern != "a" || list[1].Pattern != "b" {
		t.Errorf("rule order not preserved: %q, %q", list[0].Pattern, list[1].Pattern)
	}
	if list[0].ID != RuleID("a", "b") {
		t.Errorf("rule id = %s, want %s", list[0].ID, RuleID("a", "b"))
	}
}

func TestCompileInvalidPattern(t *testing.T) {
	_, err := Compile([]PatternDef{
		{"ok", "x"},
		{"(unclosed", "x"},
	})
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("Compile() error = %v, want ErrInvalidPattern", err)
	}
	if !strings.Contains(err.Error(), "#1") {
		t.Errorf("error should name element index 1, got: %v", err)
	}
}

func TestPresetNames(t *testing.T) {
	names := PresetNames()
	want := []string{"default", "pii", "secrets"}
	if len(names) != len(want) {
		t.Fatalf("PresetNames() = %v, want %v", names, want)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("PresetNames()[%d] = %s, want %s (sorted)", i, names[i], name)
		}
	}
}

func TestPresetUnknown(t *testing.T) {
	_, err := Preset("Default") // names are case-sensitive
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Preset() error = %v, want ErrUnknownPreset", err)
	}
}

func TestPresetComposition(t *testing.T) {
	def, err := Preset("default")
	if err != nil {
		t.Fatalf("Preset(default) error = %v", err)
	}
	secrets, err := Preset("secrets")
	if err != nil {
		t.Fatalf("Preset(secrets) error = %v", err)
	}
	pii, err := Preset("pii")
	if err != nil {
		t.Fatalf("Preset(pii) error = %v", err)
	}

	if len(def) != len(secrets)+len(pii) {
		t.Errorf("default preset has %d rules, want secrets(%d)+pii(%d)",
			len(def), len(secrets), len(pii))
	}

	// The secrets preset must not carry the PII group.
	for _, r := range secrets {
		if strings.Contains(r.Replacement, "REDACTED_EMAIL") || strings.Contains(r.Replacement, "REDACTED_SSN") {
			t.Errorf("secrets preset contains PII rule %s", r.Pattern)
		}
	}
}

func TestDefaultsReturnsCopy(t *testing.T) {
	a := Defaults()
	b := Defaults()
	a[0] = Rule{}
	if b[0].Pattern == "" {
		t.Error("mutating one Defaults() slice affected another")
	}
}
