package cmd

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmcordell/ledger-etl/pkg/canonical"
	"github.com/jmcordell/ledger-etl/pkg/config"
	"github.com/jmcordell/ledger-etl/pkg/ledger"
	"github.com/jmcordell/ledger-etl/pkg/pathutil"
)

var (
	ingestAccount string
	ingestDryRun  bool
)

// ingestCmd represents the ingest command.
var ingestCmd = &cobra.Command{
	Use:   "ingest [files or directories]",
	Short: "Ingest institution export files into the ledger",
	Long: `Ingest transaction export files into the canonical ledger.

This command:
1. Resolves each file's headers against the field alias table
2. Canonicalizes rows (amount cents, merchant normalization, identity)
3. Merges each file's batch atomically into the SQLite ledger
4. Records the run in ingest history

Each file is independent: a file with unusable headers is reported and
skipped, bad rows are counted and skipped, and re-ingesting the same file
is a no-op.

With no arguments the raw export directory under DATA_DIR is walked.

Example:
  ledger-etl ingest ./exports/chase/checking
  ledger-etl ingest statement.csv --account CHK --dry-run`,
	Args: cobra.ArbitraryArgs,
	Run:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestAccount, "account", "", "account ID for files without an account column (default: derived from directory)")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "canonicalize and report without writing to the ledger")
}

func runIngest(cmd *cobra.Command, args []string) {
	startedAt := time.Now()
	slog.Info("Starting ingest", "paths", args, "dry_run", ingestDryRun)

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate("data.dir"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	pathResolver := pathutil.New(pathutil.Config{
		DataDir:  cfg.Data.Dir,
		DBPath:   cfg.Data.DBPath,
		RulesDir: cfg.Data.RulesDir,
	})

	aliases := canonical.DefaultAliases()
	if cfg.Data.AliasFile != "" {
		aliases, err = canonical.LoadAliases(cfg.Data.AliasFile)
		exitOnError(err, "failed to load field aliases")
	}

	var accountMap map[string]string
	if cfg.Data.AccountMapFile != "" {
		accountMap, err = canonical.LoadAccountMap(cfg.Data.AccountMapFile)
		exitOnError(err, "failed to load account map")
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{pathResolver.GetRawDir()}
	}

	files, err := collectSourceFiles(paths)
	exitOnError(err, "failed to collect source files")
	if len(files) == 0 {
		fmt.Println("No source files found")
		return
	}

	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)
	err = pathResolver.EnsureParentDir(dbPath)
	exitOnError(err, "failed to create database directory")
	conn, err := ledger.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	store := ledger.NewStore(conn)
	runHistory := ledger.NewRunHistory(conn)

	rec := ledger.RunRecord{
		RunID:     ledger.NewRunID(),
		StartedAt: startedAt,
	}
	skipReasons := map[string]int{}

	for _, file := range files {
		slog.Info("Reading file", "path", file)
		raw, err := canonical.ReadFile(file)
		if err != nil {
			slog.Error("Failed to read file", "path", file, "error", err)
			rec.FilesFailed++
			continue
		}

		account := ingestAccount
		if account == "" {
			account = canonical.AccountFromPath(file, accountMap)
		}

		result, err := canonical.CanonicalizeFile(raw, canonical.Options{
			AccountID: account,
			Aliases:   aliases,
		})
		if err != nil {
			// Structural failure aborts this file only.
			slog.Error("File is unusable", "path", file, "error", err)
			rec.FilesFailed++
			continue
		}

		for _, skip := range result.Skipped {
			slog.Warn("Skipped row", "path", skip.File, "row", skip.Line, "reason", skip.Reason)
			skipReasons[skip.Reason]++
			rec.RowsSkipped++
		}

		if ingestDryRun {
			fmt.Printf("[DRY RUN] %s: %d rows canonicalized, %d skipped\n",
				file, len(result.Transactions), len(result.Skipped))
			rec.FilesProcessed++
			continue
		}

		report, err := store.Merge(result.Transactions)
		if err != nil {
			slog.Error("Failed to merge batch", "path", file, "error", err)
			rec.FilesFailed++
			continue
		}

		rec.FilesProcessed++
		rec.RowsInserted += report.Inserted
		rec.RowsUpdated += report.Updated
		rec.RowsSkipped += report.Skipped
		rec.CollisionWarnings += report.CollisionWarnings
		if report.Skipped > 0 {
			skipReasons["already merged"] += report.Skipped
		}

		slog.Info("Merged file",
			"path", file,
			"inserted", report.Inserted,
			"updated", report.Updated,
			"skipped", report.Skipped,
			"collision_warnings", report.CollisionWarnings,
		)
	}

	rec.FinishedAt = time.Now()
	if !ingestDryRun {
		if err := runHistory.Record(rec); err != nil {
			slog.Error("Failed to record run", "run_id", rec.RunID, "error", err)
		}
	}

	// Run summary
	fmt.Println("\n=== Ingest Summary ===")
	fmt.Printf("Files processed:     %d\n", rec.FilesProcessed)
	fmt.Printf("Files failed:        %d\n", rec.FilesFailed)
	fmt.Printf("Rows inserted:       %d\n", rec.RowsInserted)
	fmt.Printf("Rows updated:        %d\n", rec.RowsUpdated)
	fmt.Printf("Rows skipped:        %d\n", rec.RowsSkipped)
	for reason, n := range skipReasons {
		fmt.Printf("  %-19s%d\n", reason+":", n)
	}
	fmt.Printf("Collision warnings:  %d\n", rec.CollisionWarnings)
	fmt.Printf("Ambiguous overrides: %d\n", rec.AmbiguousOverrides)
	fmt.Println()

	slog.Info("Ingest completed",
		"run_id", rec.RunID,
		"files", rec.FilesProcessed,
		"inserted", rec.RowsInserted,
		"updated", rec.RowsUpdated,
		"skipped", rec.RowsSkipped,
	)
}

// collectSourceFiles expands the arguments into the list of ingestable
// files: CSV and XLSX, directories walked recursively.
func collectSourceFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		matches, err := filepath.Glob(p)
		if err != nil || len(matches) == 0 {
			matches = []string{p}
		}
		for _, match := range matches {
			if err := appendSource(&files, match); err != nil {
				return nil, err
			}
		}
	}
	return files, nil
}

func appendSource(files *[]string, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isSourceFile(p) {
				*files = append(*files, p)
			}
			return nil
		})
	}
	*files = append(*files, path)
	return nil
}

func isSourceFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".xls":
		return true
	default:
		return false
	}
}
