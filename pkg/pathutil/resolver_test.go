package pathutil

import (
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	p := New(Config{DataDir: "/data"})

	if got := p.GetDatabasePath(); got != filepath.Join("/data", "ledger.db") {
		t.Errorf("database path = %q", got)
	}
	if got := p.GetRulesDir(); got != filepath.Join("/data", "rules") {
		t.Errorf("rules dir = %q", got)
	}
	if got := p.GetRawDir(); got != filepath.Join("/data", "transactions", "raw") {
		t.Errorf("raw dir = %q", got)
	}

	explicit := New(Config{DataDir: "/data", DBPath: "/elsewhere/l.db", RulesDir: "/r"})
	if explicit.GetDatabasePath() != "/elsewhere/l.db" || explicit.GetRulesDir() != "/r" {
		t.Errorf("explicit paths not honored: %q, %q",
			explicit.GetDatabasePath(), explicit.GetRulesDir())
	}
}

func TestEnsureParentDirAndFileExists(t *testing.T) {
	p := New(Config{DataDir: t.TempDir()})
	dbPath := p.GetDatabasePath()

	if p.FileExists(dbPath) {
		t.Fatal("database should not exist yet")
	}
	nested := filepath.Join(p.GetRawDir(), "chase", "checking", "jan.csv")
	if err := p.EnsureParentDir(nested); err != nil {
		t.Fatalf("EnsureParentDir() unexpected error: %v", err)
	}
	if !p.FileExists(filepath.Dir(nested)) {
		t.Error("parent directory was not created")
	}
}
