// Command fintrack-export writes a user's transactions and budgets as
// CSV to stdout or a file. It reads the same configuration as the
// server, so it exports from whichever backend the server runs on.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/export"
	"fintrack/internal/services"
)

func main() {
	userID := flag.String("user", "", "user id to export (required)")
	outPath := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	if *userID == "" {
		logger.Error("Missing required -user flag")
		flag.Usage()
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cleanupCancel()
		if err := res.Cleanup(cleanupCtx); err != nil {
			logger.Error("Store cleanup error", "error", err)
		}
	}()

	txService := services.NewTransactionService(res.Store, nil)
	budgetService := services.NewBudgetService(res.Store, nil)

	txs, err := txService.List(ctx, *userID)
	if err != nil {
		logger.Error("Failed to load transactions", "error", err, "user_id", *userID)
		os.Exit(1)
	}
	cats, err := budgetService.Categories(ctx, *userID)
	if err != nil {
		logger.Error("Failed to load budgets", "error", err, "user_id", *userID)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error("Failed to create output file", "error", err, "path", *outPath)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := export.Write(out, txs, cats); err != nil {
		logger.Error("Export failed", "error", err, "user_id", *userID)
		os.Exit(1)
	}

	logger.Info("Export complete",
		"user_id", *userID,
		"transactions", len(txs),
		"budgets", len(cats))
}
