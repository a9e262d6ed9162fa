package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"phishshield/internal/config"
	"phishshield/internal/domain/models"
	"phishshield/internal/domain/services"
	"phishshield/pkg/logger"
)

// One-shot scanner for trying the detection pipeline from the terminal
// without running the API server.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: scan <url> [<url> ...]")
		os.Exit(1)
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewDevelopment()

	reputationClient := services.NewReputationClientFromConfig(cfg.Reputation, log)
	classifier := services.NewClassifierFromConfig(cfg.ML, log)
	scanService := services.NewScanService(cfg.Scan, reputationClient, classifier, nil, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("===========================================")
	fmt.Println("PhishShield URL Scanner")
	fmt.Println("===========================================")
	fmt.Printf("Model loaded: %v\n", classifier.Loaded())
	fmt.Println()

	exitCode := 0
	for _, rawURL := range os.Args[1:] {
		result, err := scanService.Scan(ctx, &models.ScanRequest{URL: rawURL, Source: "cli"})
		if err != nil {
			fmt.Printf("❌ %s: scan failed: %v\n", rawURL, err)
			exitCode = 1
			continue
		}

		marker := "✅"
		if result.Status == models.StatusUnsafe {
			marker = "⚠️"
			exitCode = 2
		}

		fmt.Printf("%s %s\n", marker, result.URL)
		fmt.Printf("   - Status: %s (risk %d/100)\n", result.Status, result.RiskScore)
		fmt.Printf("   - Method: %s\n", result.DetectionMethod)
		fmt.Printf("   - Reason: %s\n", result.Reason)
		fmt.Println()
	}

	os.Exit(exitCode)
}
