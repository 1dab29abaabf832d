// Package main is the entry point for the ledger-etl CLI.
package main

import (
	"os"

	"github.com/jmcordell/ledger-etl/cmd/ledger-etl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
