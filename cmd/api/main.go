package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	apistatement "edgar_statements/pkg/api/statement"
	"edgar_statements/pkg/core/config"
	"edgar_statements/pkg/core/edgar"
	"edgar_statements/pkg/core/keys"
	"edgar_statements/pkg/core/provider"
	"edgar_statements/pkg/core/report"
	"edgar_statements/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Printf("[FATAL] Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Encrypted API key storage
	keyMgr, err := keys.NewManager(cfg.Server.ConfigDir)
	if err != nil {
		fmt.Printf("[FATAL] Failed to initialize key storage: %v\n", err)
		os.Exit(1)
	}
	secret := os.Getenv("APP_SECRET")
	if secret == "" {
		secret = "development-secret"
		fmt.Println("[WARNING] APP_SECRET not set, using development secret")
	}
	if err := keyMgr.Unlock(secret); err != nil {
		fmt.Printf("[FATAL] Failed to unlock key storage: %v\n", err)
		os.Exit(1)
	}

	// SEC EDGAR client and provider chain
	client := edgar.NewClient(
		edgar.WithUserAgent(cfg.API.UserAgent),
		edgar.WithRateLimit(cfg.API.RateLimit, 1),
		edgar.WithRetries(cfg.API.MaxRetries),
	)

	local := provider.NewLocalFileAdapter(cfg.Parser.DataDir)
	selector := provider.NewSelector().
		WithLocal(local).
		Register(provider.NewEdgarProvider(client, cfg.Parser.CacheDir), provider.PriorityHigh, 90)

	if apiKey, err := keyMgr.Get("polygon"); err == nil && apiKey != "" {
		selector.Register(provider.NewPolygonAdapter(apiKey), provider.PriorityMedium, 70)
		fmt.Println("[PROVIDER] Polygon adapter registered")
	}

	deps := &apistatement.Deps{
		Selector:   selector,
		Reporter:   report.NewExcelReporter(cfg.Parser.OutputDir),
		Keys:       keyMgr,
		Local:      local,
		OutputDir:  cfg.Parser.OutputDir,
		ValidateOn: cfg.Parser.ValidateOutput,
	}

	// Optional Postgres persistence
	if os.Getenv("DATABASE_URL") != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("[WARNING] Database unavailable, persistence disabled: %v\n", err)
		} else {
			deps.Repo = store.NewStatementRepo()
			defer store.Close()
			fmt.Println("[STORE] Postgres persistence enabled")
		}
		cancel()
	}

	apistatement.InitHandler(deps)

	http.HandleFunc("/api/generate", apistatement.HandleGenerate)
	http.HandleFunc("/api/download/", apistatement.HandleDownload)
	http.HandleFunc("/api/summary/", apistatement.HandleSummary)
	http.HandleFunc("/api/keys", apistatement.HandleKeys)
	http.HandleFunc("/api/health", apistatement.HandleHealth)

	addr := ":" + cfg.Server.Port
	fmt.Printf("API server starting on %s...\n", addr)
	fmt.Println("  - POST /api/generate")
	fmt.Println("  - GET  /api/download/{ticker}")
	fmt.Println("  - GET  /api/summary/{ticker}")
	fmt.Println("  - GET/POST /api/keys")
	fmt.Println("  - GET  /api/health")

	if err := http.ListenAndServe(addr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
