package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"edgar_statements/pkg/core/edgar"
)

var (
	recentForm    string
	recentLimit   int
	recentTimeout time.Duration
)

// recentCmd represents the recent command
var recentCmd = &cobra.Command{
	Use:   "recent <ticker>",
	Short: "List a company's most recent EDGAR filings",
	Long: `Recent reads the company's EDGAR Atom feed, the lowest-latency view
of new filings, and prints the entries newest first.

Example:
  edgar recent AAPL
  edgar recent MSFT --form 10-Q --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runRecent,
}

func init() {
	rootCmd.AddCommand(recentCmd)

	recentCmd.Flags().StringVar(&recentForm, "form", "", "filter by form type (10-K, 10-Q, 8-K, ...)")
	recentCmd.Flags().IntVar(&recentLimit, "limit", 10, "max entries")
	recentCmd.Flags().DurationVar(&recentTimeout, "timeout", 30*time.Second, "total timeout")
}

func runRecent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := edgar.NewClient(
		edgar.WithUserAgent(cfg.API.UserAgent),
		edgar.WithRateLimit(cfg.API.RateLimit, 1),
		edgar.WithRetries(cfg.API.MaxRetries),
	)
	resolver := edgar.NewCompanyResolver(client, cfg.Parser.CacheDir)

	ctx, cancel := context.WithTimeout(context.Background(), recentTimeout)
	defer cancel()

	cik, err := resolver.CIKForTicker(ctx, args[0])
	if err != nil {
		return err
	}

	entries, err := edgar.NewFeedWatcher(client).RecentFilings(ctx, cik, recentForm, recentLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No recent filings found.")
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("%-8s %-22s %s\n", entry.Form, entry.AccessionNumber, entry.Updated)
		if verbose && entry.Link != "" {
			fmt.Printf("         %s\n", entry.Link)
		}
	}
	return nil
}
