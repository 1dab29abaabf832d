// Package pathutil provides centralized path management for the finance
// data tree: raw exports, the ledger database, and the rule tables.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathResolver manages paths for the data root, ledger database, and rules
// directory.
type PathResolver struct {
	dataDir  string
	dbPath   string
	rulesDir string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// DataDir is the root directory of the finance data tree.
	DataDir string
	// DBPath is the path to the SQLite ledger database.
	DBPath string
	// RulesDir is the directory holding the category rule tables.
	RulesDir string
}

// New creates a new PathResolver with the given configuration.
// If DBPath is empty, it defaults to {DataDir}/ledger.db.
// If RulesDir is empty, it defaults to {DataDir}/rules.
func New(config Config) *PathResolver {
	dbPath := config.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(config.DataDir, "ledger.db")
	}

	rulesDir := config.RulesDir
	if rulesDir == "" {
		rulesDir = filepath.Join(config.DataDir, "rules")
	}

	return &PathResolver{
		dataDir:  config.DataDir,
		dbPath:   dbPath,
		rulesDir: rulesDir,
	}
}

// GetDatabasePath returns the ledger database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.dbPath
}

// GetRulesDir returns the rules directory.
func (p *PathResolver) GetRulesDir() string {
	return p.rulesDir
}

// GetRawDir returns the directory raw institution exports are read from.
// Example: {DataDir}/transactions/raw
func (p *PathResolver) GetRawDir() string {
	return filepath.Join(p.dataDir, "transactions", "raw")
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return p.EnsureDir(dir)
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
