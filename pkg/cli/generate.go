package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"edgar_statements/pkg/core/config"
	"edgar_statements/pkg/core/edgar"
	"edgar_statements/pkg/core/provider"
	"edgar_statements/pkg/core/report"
	"edgar_statements/pkg/core/statement"
	"edgar_statements/pkg/core/validate"
)

var (
	period     string
	limit      int
	format     string
	outputDir  string
	saveLocal  bool
	genTimeout time.Duration
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <ticker>",
	Short: "Generate an income statement report for one ticker",
	Long: `Fetch the latest filings for a ticker, extract and normalize the
income statement, validate it, and write the report.

Example:
  edgar generate AAPL
  edgar generate MSFT --period annual --format json
  edgar generate NVDA --limit 8 --output-dir ./reports --save`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&period, "period", "quarterly", "period type (quarterly or annual)")
	generateCmd.Flags().IntVar(&limit, "limit", 0, "max filings to fetch (provider default when 0)")
	generateCmd.Flags().StringVar(&format, "format", "excel", "output format (excel, json, csv, markdown)")
	generateCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory (config default when empty)")
	generateCmd.Flags().BoolVar(&saveLocal, "save", false, "save a local JSON snapshot for offline reuse")
	generateCmd.Flags().DurationVar(&genTimeout, "timeout", 2*time.Minute, "total timeout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(strings.TrimSpace(args[0]))
	if ticker == "" {
		return fmt.Errorf("ticker symbol is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = cfg.Parser.OutputDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), genTimeout)
	defer cancel()

	result, source, err := generateStatement(ctx, cfg, ticker)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Source: %s\n", source)
	}

	validation := validate.ValidateIncomeStatement(result)
	if !validation.Valid {
		fmt.Fprintf(os.Stderr, "Validation failed for %s:\n", ticker)
		for _, issue := range validation.Issues {
			fmt.Fprintf(os.Stderr, "  - %s\n", issue)
		}
	}
	for _, warning := range validation.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	path, err := writeReport(result, validation, outputDir, format)
	if err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", path)

	if saveLocal {
		local := provider.NewLocalFileAdapter(cfg.Parser.DataDir)
		if err := local.Save(result); err != nil {
			return fmt.Errorf("save local snapshot: %w", err)
		}
		fmt.Printf("Snapshot written to %s\n", local.Path(ticker))
	}
	return nil
}

// newSelector builds the provider chain from the configuration.
func newSelector(cfg *config.Config) *provider.Selector {
	client := edgar.NewClient(
		edgar.WithUserAgent(cfg.API.UserAgent),
		edgar.WithRateLimit(cfg.API.RateLimit, 1),
		edgar.WithRetries(cfg.API.MaxRetries),
	)

	selector := provider.NewSelector().
		WithLocal(provider.NewLocalFileAdapter(cfg.Parser.DataDir)).
		Register(provider.NewEdgarProvider(client, cfg.Parser.CacheDir), provider.PriorityHigh, 90)

	if apiKey := os.Getenv("POLYGON_API_KEY"); apiKey != "" {
		selector.Register(provider.NewPolygonAdapter(apiKey), provider.PriorityMedium, 70)
	}
	return selector
}

func generateStatement(ctx context.Context, cfg *config.Config, ticker string) (*statement.IncomeStatement, string, error) {
	periodType := statement.PeriodQuarterly
	if strings.EqualFold(period, "annual") {
		periodType = statement.PeriodAnnual
	}

	return newSelector(cfg).IncomeStatement(ctx, provider.Request{
		Ticker: ticker,
		Period: periodType,
		Limit:  limit,
	})
}

func writeReport(s *statement.IncomeStatement, validation *validate.ValidationResult, dir, format string) (string, error) {
	switch format {
	case "excel":
		return report.NewExcelReporter(dir).GenerateIncomeStatement(s)

	case "json":
		envelope := report.FormatIncomeStatement(s, report.FilingInfo{}, validation)
		out, err := report.ToJSON(envelope, true)
		if err != nil {
			return "", err
		}
		return writeTextReport(dir, s.Ticker+"_income_statement.json", out)

	case "csv":
		return writeTextReport(dir, s.Ticker+"_income_statement.csv", report.ToCSV(s))

	case "markdown":
		return writeTextReport(dir, s.Ticker+"_validation.md", report.ValidationSummaryMarkdown(s, validation))

	default:
		return "", fmt.Errorf("unknown format %q (want excel, json, csv, or markdown)", format)
	}
}

func writeTextReport(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
