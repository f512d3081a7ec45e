// Package statement provides HTTP API handlers for generating and
// downloading income statement reports.
package statement

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"edgar_statements/pkg/core/keys"
	"edgar_statements/pkg/core/provider"
	"edgar_statements/pkg/core/report"
	corestatement "edgar_statements/pkg/core/statement"
	"edgar_statements/pkg/core/store"
	"edgar_statements/pkg/core/validate"
)

// Deps are the services the handlers operate on. Local and Repo are
// optional persistence sinks, skipped when nil.
type Deps struct {
	Selector   *provider.Selector
	Reporter   *report.ExcelReporter
	Keys       *keys.Manager
	Local      *provider.LocalFileAdapter
	Repo       *store.StatementRepo
	OutputDir  string
	ValidateOn bool
}

var deps *Deps

// InitHandler wires the handlers to their dependencies.
func InitHandler(d *Deps) {
	deps = d
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Ticker string `json:"ticker"`
	Period string `json:"period,omitempty"` // "quarterly" or "annual"
	Limit  int    `json:"limit,omitempty"`
}

// GenerateResponse is the body of a successful generation.
type GenerateResponse struct {
	Success     bool                       `json:"success"`
	RequestID   string                     `json:"request_id"`
	Ticker      string                     `json:"ticker"`
	Source      string                     `json:"source"`
	DownloadURL string                     `json:"download_url"`
	Validation  *validate.ValidationResult `json:"validation,omitempty"`
}

func writeError(w http.ResponseWriter, status int, format string, args ...interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   fmt.Sprintf(format, args...),
	})
}

func setCORS(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")
}

// HandleGenerate handles POST /api/generate: fetch the statement from the
// best provider, validate, and render the workbook.
func HandleGenerate(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "POST, OPTIONS")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "Ticker symbol is required")
		return
	}

	periodType := corestatement.PeriodQuarterly
	if strings.EqualFold(req.Period, "annual") {
		periodType = corestatement.PeriodAnnual
	}

	requestID := uuid.NewString()
	log.Printf("[API] %s Generating income statement for %s", requestID, ticker)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	result, source, err := deps.Selector.IncomeStatement(ctx, provider.Request{
		Ticker: ticker,
		Period: periodType,
		Limit:  req.Limit,
	})
	if err != nil {
		log.Printf("[API] %s Generation failed for %s: %v", requestID, ticker, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate income statement for %s", ticker)
		return
	}

	var validation *validate.ValidationResult
	if deps.ValidateOn {
		validation = validate.ValidateIncomeStatement(result)
	}

	if _, err := deps.Reporter.GenerateIncomeStatement(result); err != nil {
		log.Printf("[API] %s Workbook generation failed for %s: %v", requestID, ticker, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate income statement for %s", ticker)
		return
	}

	if deps.Local != nil && source != deps.Local.Name() {
		if err := deps.Local.Save(result); err != nil {
			log.Printf("[API] %s Failed to save local copy for %s: %v", requestID, ticker, err)
		}
	}
	if deps.Repo != nil {
		if err := deps.Repo.Save(ctx, result, validation, source); err != nil {
			log.Printf("[API] %s Failed to persist statement for %s: %v", requestID, ticker, err)
		}
	}

	json.NewEncoder(w).Encode(GenerateResponse{
		Success:     true,
		RequestID:   requestID,
		Ticker:      ticker,
		Source:      source,
		DownloadURL: fmt.Sprintf("/api/download/%s", ticker),
		Validation:  validation,
	})
}

// HandleDownload handles GET /api/download/{ticker}: serve the generated
// workbook.
func HandleDownload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/api/download/")))
	if ticker == "" || strings.Contains(ticker, "/") || strings.Contains(ticker, "..") {
		http.Error(w, "Invalid ticker", http.StatusBadRequest)
		return
	}

	filename := fmt.Sprintf("%s_Income_Statement.xlsx", ticker)
	path := filepath.Join(deps.OutputDir, filename)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}

// HandleSummary handles GET /api/summary/{ticker}: an HTML validation
// summary of the ticker's statement for the web UI.
func HandleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/api/summary/")))
	if ticker == "" {
		http.Error(w, "Ticker symbol is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	result, _, err := deps.Selector.IncomeStatement(ctx, provider.Request{Ticker: ticker})
	if err != nil {
		log.Printf("[API] Summary failed for %s: %v", ticker, err)
		http.Error(w, fmt.Sprintf("No income statement available for %s", ticker), http.StatusNotFound)
		return
	}

	validation := validate.ValidateIncomeStatement(result)
	html, err := report.ValidationSummaryHTML(result, validation)
	if err != nil {
		log.Printf("[API] Summary rendering failed for %s: %v", ticker, err)
		http.Error(w, "Failed to render summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// keysRequest is the body of POST /api/keys.
type keysRequest struct {
	Keys map[string]string `json:"keys"`
}

// HandleKeys handles GET and POST /api/keys. GET returns masked keys for
// display; POST replaces the stored set.
func HandleKeys(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "GET, POST, OPTIONS")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case "GET":
		masked, err := deps.Keys.Masked()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to read API keys")
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"keys":    masked,
		})

	case "POST":
		var req keysRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := deps.Keys.Store(req.Keys); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to store API keys")
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleHealth handles GET /api/health.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
