package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"PitchPipeline/internal/app"
	"PitchPipeline/internal/config"
	"PitchPipeline/internal/evaluation"
	"PitchPipeline/internal/logging"
)

func main() {
	prospects := flag.String("prospects", "", "path to the prospects CSV file")
	limit := flag.Int("limit", 0, "maximum number of contacts to process (0 = all)")
	evaluate := flag.String("evaluate", "", "compute send-readiness from a labeled pitch summary CSV and exit")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	if *evaluate != "" {
		result, err := evaluation.SendReadiness(*evaluate)
		if err != nil {
			logger.Error("evaluation failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Send-ready pitches: %d/%d (%.2f%%)\n", result.SendReady, result.Labeled, result.Ratio()*100)
		return
	}

	if *prospects == "" {
		fmt.Fprintln(os.Stderr, "usage: pitchpipeline -prospects <file.csv> [-limit n]")
		os.Exit(2)
	}

	application, err := app.New(cfg, *prospects, *limit, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
