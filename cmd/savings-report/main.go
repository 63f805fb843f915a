package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"savings/internal/cli"
	"savings/internal/core"
	"savings/internal/log"
	"savings/internal/report"
	"savings/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()

	var (
		user     = flag.Int64("user", 0, "restrict to goals of this user id (0 = every owner)")
		months   = flag.Int("months", cfg.ReportMonths, "report window in 30-day months")
		asJSON   = flag.Bool("json", false, "print the advisory financial report as JSON instead of tables")
		logLevel = flag.String("log-level", "warn", "log level for diagnostics")
		goalID   = flag.Int64("goal", 0, "goal id to deposit into before reporting (with -deposit)")
		deposit  = flag.String("deposit", "", "amount to add to -goal, e.g. 150.00 or 150,00")
	)
	flag.Parse()

	logger := cli.SetupLogger(*logLevel, log.ComponentReport)
	ctx := context.Background()

	gw, store := cli.InitStorage(ctx, logger, cfg.DatabasePath)
	defer gw.Close()

	var userID *int64
	if *user != 0 {
		userID = user
	}

	svc := services.NewSavingsService(store.Goals, store.Transactions)

	if *deposit != "" {
		amount, err := core.ParseAmount(*deposit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -deposit %q: %v\n", *deposit, err)
			os.Exit(2)
		}
		g, err := svc.AddAmountToGoal(ctx, *goalID, amount)
		if err != nil {
			logger.ErrorContext(ctx, "Deposit failed",
				log.NewFields().WithOperation(log.OpDeposit).WithError(err).ToSlice()...)
			os.Exit(1)
		}
		logger.InfoContext(ctx, "Deposit recorded", log.FieldGoalID, g.ID, "current", g.CurrentAmount.String())
	}

	fr, err := svc.GetFinancialDataForAI(ctx, userID, *months)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build financial report",
			log.NewFields().WithOperation(log.OpReport).WithUser(userID).WithError(err).ToSlice()...)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fr); err != nil {
			logger.ErrorContext(ctx, "Failed to encode report", log.FieldError, err)
			os.Exit(1)
		}
		return
	}

	summary, err := svc.GetSummary(ctx, userID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build summary",
			log.NewFields().WithOperation(log.OpSummary).WithUser(userID).WithError(err).ToSlice()...)
		os.Exit(1)
	}

	fmt.Println("Savings goals")
	report.WriteSummaryTable(os.Stdout, summary)
	fmt.Println()
	fmt.Printf("Cash flow (last %d months)\n", *months)
	report.WriteCashFlowTable(os.Stdout, fr)
}
