package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTable(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, RulesFile,
		"priority,match_type,pattern,category,account_id,sign\n"+
			"1,contains,starbucks,Coffee,,\n"+
			"2,regex,^amzn,Shopping,,negative\n"+
			",,payroll,Income,CHK,positive\n")

	ruleset, err := LoadRules(filepath.Join(dir, RulesFile))
	if err != nil {
		t.Fatalf("LoadRules() unexpected error: %v", err)
	}
	if len(ruleset) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(ruleset))
	}

	defaulted := ruleset[2]
	if defaulted.Priority != 1000 {
		t.Errorf("blank priority = %d, expected default 1000", defaulted.Priority)
	}
	if defaulted.MatchType != MatchContains {
		t.Errorf("blank match_type = %q, expected contains", defaulted.MatchType)
	}
	if defaulted.SignScope != SignPositive || defaulted.AccountScope != "CHK" {
		t.Errorf("scopes = %q/%q", defaulted.SignScope, defaulted.AccountScope)
	}
}

func TestLoadRulesRejectsBadRegex(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, RulesFile,
		"priority,match_type,pattern,category\n1,regex,(,Broken\n")

	if _, err := LoadRules(filepath.Join(dir, RulesFile)); err == nil {
		t.Error("expected error for malformed regex")
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, OverridesFile,
		"active,date,description_regex,amount,category,subscription\n"+
			"TRUE,2024-03-01,starbucks,($4.50),Client Meetings,\n"+
			"1,,netflix,,Streaming,yes\n"+
			"0,,shell,,Never Applied,\n")

	overrides, err := LoadOverrides(filepath.Join(dir, OverridesFile))
	if err != nil {
		t.Fatalf("LoadOverrides() unexpected error: %v", err)
	}
	if len(overrides) != 3 {
		t.Fatalf("expected 3 overrides, got %d", len(overrides))
	}

	first := overrides[0]
	if !first.Active || first.Date != "2024-03-01" {
		t.Errorf("first override = %+v", first)
	}
	if first.AmountCents == nil || *first.AmountCents != -450 {
		t.Errorf("amount cents = %v, expected -450", first.AmountCents)
	}

	second := overrides[1]
	if !second.Active || second.Date != "" || second.AmountCents != nil || !second.Subscription {
		t.Errorf("second override = %+v", second)
	}
	if overrides[2].Active {
		t.Errorf("third override should be inactive")
	}
}

func TestLoadDimension(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, DimensionFile,
		"category,parent_category,top_bucket,notes,exclude_from_budget,is_transfer\n"+
			"Transfers,,Internal,,1,true\n"+
			"Coffee,Dining,Discretionary,,0,0\n")

	dim, err := LoadDimension(filepath.Join(dir, DimensionFile))
	if err != nil {
		t.Fatalf("LoadDimension() unexpected error: %v", err)
	}
	if !dim.IsTransfer("Transfers") {
		t.Error("Transfers should be flagged is_transfer")
	}
	if dim.IsTransfer("Coffee") {
		t.Error("Coffee should not be flagged is_transfer")
	}
	if entry := dim["Coffee"]; entry.ParentCategory != "Dining" || entry.TopBucket != "Discretionary" {
		t.Errorf("Coffee entry = %+v", entry)
	}
}

func TestLoadMissingTablesAreEmptyLayers(t *testing.T) {
	resolver, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(resolver.Rules) != 0 || len(resolver.Overrides) != 0 || len(resolver.Dim) != 0 {
		t.Errorf("empty rules dir should produce empty layers: %+v", resolver)
	}

	resolved, _ := resolver.Resolve(txn("anything", -100))
	if resolved.Category != DefaultCategory {
		t.Errorf("category = %q, expected %q", resolved.Category, DefaultCategory)
	}
}
