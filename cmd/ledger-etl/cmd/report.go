package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jmcordell/ledger-etl/pkg/config"
	"github.com/jmcordell/ledger-etl/pkg/ledger"
	"github.com/jmcordell/ledger-etl/pkg/pathutil"
	"github.com/jmcordell/ledger-etl/pkg/report"
	"github.com/jmcordell/ledger-etl/pkg/rules"
)

var (
	reportFrom    string
	reportTo      string
	reportAccount string
)

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report monthly cashflow and category actuals",
	Long: `Resolve categories over the ledger and print reporting rollups.

Categories are recomputed at report time from the current rule, override,
and dimension tables, so edits retroactively reclassify history without
re-ingestion. Transfers are excluded from all totals.

Example:
  ledger-etl report --from 2024-01-01 --to 2024-12-31
  ledger-etl report --account CHK`,
	Run: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "start date (YYYY-MM-DD), inclusive")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "end date (YYYY-MM-DD), inclusive")
	reportCmd.Flags().StringVar(&reportAccount, "account", "", "restrict to one account ID")
}

func runReport(cmd *cobra.Command, args []string) {
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

	resolver, err := rules.Load(pathResolver.GetRulesDir())
	exitOnError(err, "failed to load rule tables")
	slog.Debug("Loaded rule tables",
		"rules", len(resolver.Rules),
		"overrides", len(resolver.Overrides),
		"categories", len(resolver.Dim),
	)

	dbPath := pathResolver.GetDatabasePath()
	if !pathResolver.FileExists(dbPath) {
		fmt.Println("No ledger database found; run ingest first")
		return
	}

	conn, err := ledger.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	store := ledger.NewStore(conn)
	txns, err := store.Scan(ledger.Filter{
		AccountID: reportAccount,
		DateFrom:  reportFrom,
		DateTo:    reportTo,
	})
	exitOnError(err, "failed to scan ledger")

	if len(txns) == 0 {
		fmt.Println("No transactions in range")
		return
	}

	resolved, warnings := resolver.ResolveAll(txns)
	for i := range warnings {
		slog.Warn("Ambiguous override", "detail", warnings[i].String())
	}

	fmt.Println("\n=== Monthly Cashflow (transfers excluded) ===")
	for _, row := range report.MonthlyCashflow(resolved) {
		fmt.Printf("%s  income %12s  spending %12s  net %12s\n",
			row.Month,
			row.Income.StringFixed(2),
			row.Spending.StringFixed(2),
			row.Net.StringFixed(2),
		)
	}

	fmt.Println("\n=== Actuals by Category ===")
	for _, row := range report.ActualsByCategory(resolved, resolver.Dim) {
		fmt.Printf("%s  %-14s %-24s net %12s\n",
			row.Month, row.TopBucket, row.Category, row.Net.StringFixed(2))
	}

	if len(warnings) > 0 {
		fmt.Printf("\nAmbiguous overrides: %d (see log)\n", len(warnings))
	}
	fmt.Println()

	slog.Info("Report completed",
		"transactions", len(txns),
		"ambiguous_overrides", len(warnings),
	)
}
