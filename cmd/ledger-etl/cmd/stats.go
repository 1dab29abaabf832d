package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jmcordell/ledger-etl/pkg/config"
	"github.com/jmcordell/ledger-etl/pkg/ledger"
	"github.com/jmcordell/ledger-etl/pkg/pathutil"
	"github.com/jmcordell/ledger-etl/pkg/rules"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display ledger statistics",
	Long: `Display statistics about the ledger and ingestion history.

Shows:
- Total number of ledger transactions
- Number still uncategorized under the current rule tables
- Total number of ingest runs and the last run timestamp

Example:
  ledger-etl stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

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

	dbPath := pathResolver.GetDatabasePath()
	if !pathResolver.FileExists(dbPath) {
		fmt.Println("No ledger database found; run ingest first")
		return
	}
	slog.Debug("Opening database", "path", dbPath)

	conn, err := ledger.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	runHistory := ledger.NewRunHistory(conn)
	stats, err := runHistory.GetStats()
	exitOnError(err, "failed to get statistics")

	resolver, err := rules.Load(pathResolver.GetRulesDir())
	exitOnError(err, "failed to load rule tables")

	store := ledger.NewStore(conn)
	txns, err := store.Scan(ledger.Filter{})
	exitOnError(err, "failed to scan ledger")

	uncategorized := 0
	for _, txn := range txns {
		resolved, _ := resolver.Resolve(txn)
		if resolved.Category == rules.DefaultCategory {
			uncategorized++
		}
	}

	fmt.Println("\n=== Ledger Statistics ===")
	fmt.Printf("Total transactions:  %d\n", stats.TotalTransactions)
	fmt.Printf("Uncategorized:       %d\n", uncategorized)
	fmt.Printf("Ingest runs:         %d\n", stats.TotalRuns)

	if stats.LastRun.Valid {
		fmt.Printf("Last ingest:         %s\n", stats.LastRun.String)
	} else {
		fmt.Printf("Last ingest:         (never)\n")
	}

	fmt.Println()

	slog.Info("Statistics displayed successfully")
}
