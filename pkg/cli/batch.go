package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"edgar_statements/pkg/core/config"
	"edgar_statements/pkg/core/validate"
)

var (
	workers      int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Generate reports for multiple tickers in parallel",
	Long: `Batch reads ticker symbols from a file (one per line, # comments
allowed) and generates a report for each, bounded by a worker pool.

Example:
  edgar batch tickers.txt
  edgar batch tickers.txt --workers 8 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent workers (config default when 0)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 15*time.Minute, "total timeout")
	batchCmd.Flags().StringVar(&period, "period", "quarterly", "period type (quarterly or annual)")
	batchCmd.Flags().IntVar(&limit, "limit", 0, "max filings per ticker (provider default when 0)")
	batchCmd.Flags().StringVar(&format, "format", "excel", "output format (excel, json, csv, markdown)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory (config default when empty)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = cfg.Parser.OutputDir
	}
	if workers <= 0 {
		workers = cfg.Parser.MaxWorkers
	}

	tickers, err := readTickerFile(args[0])
	if err != nil {
		return err
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no tickers found in %s", args[0])
	}

	fmt.Printf("Processing %d tickers with %d workers...\n", len(tickers), workers)

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	var mu sync.Mutex
	failures := make(map[string]error)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			if err := batchOne(gctx, cfg, ticker); err != nil {
				mu.Lock()
				failures[ticker] = err
				mu.Unlock()
				fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", ticker, err)
			} else {
				fmt.Printf("OK   %s\n", ticker)
			}
			// Failures are collected, not propagated, so one bad ticker
			// never cancels the rest of the batch.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Done: %d succeeded, %d failed\n", len(tickers)-len(failures), len(failures))
	if len(failures) > 0 {
		return fmt.Errorf("%d of %d tickers failed", len(failures), len(tickers))
	}
	return nil
}

func batchOne(ctx context.Context, cfg *config.Config, ticker string) error {
	result, _, err := generateStatement(ctx, cfg, ticker)
	if err != nil {
		return err
	}

	validation := validate.ValidateIncomeStatement(result)
	if _, err := writeReport(result, validation, outputDir, format); err != nil {
		return err
	}
	if !validation.Valid {
		return fmt.Errorf("validation failed: %s", strings.Join(validation.Issues, "; "))
	}
	return nil
}

// readTickerFile loads ticker symbols, skipping blanks and # comments.
func readTickerFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ticker file: %w", err)
	}
	defer f.Close()

	var tickers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tickers = append(tickers, strings.ToUpper(line))
	}
	return tickers, scanner.Err()
}
