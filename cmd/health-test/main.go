package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
)

type ReadinessResponse struct {
	Status       string   `json:"status"`
	Connectivity bool     `json:"connectivity"`
	TablesFound  []string `json:"tables_found"`
	Error        string   `json:"error,omitempty"`
}

func main() {
	url := "http://localhost:8080/health/ready"
	if len(os.Args) > 1 {
		url = os.Args[1]
	}

	fmt.Printf("🔍 Testing readiness endpoint: %s\n", url)

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("❌ Error connecting to readiness endpoint: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("❌ Error reading response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📊 Response Status: %s\n", resp.Status)
	fmt.Printf("📄 Response Body: %s\n", string(body))

	var readiness ReadinessResponse
	if err := json.Unmarshal(body, &readiness); err != nil {
		fmt.Printf("❌ Error parsing JSON response: %v\n", err)
		os.Exit(1)
	}

	if resp.StatusCode != http.StatusOK || readiness.Status != "healthy" {
		fmt.Printf("❌ Service is not ready: %s\n", readiness.Status)
		if readiness.Error != "" {
			fmt.Printf("   Database error: %s\n", readiness.Error)
		}
		os.Exit(1)
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		if err := pingDatabase(dsn); err != nil {
			fmt.Printf("❌ Direct database ping failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Direct database ping succeeded\n")
	}

	fmt.Printf("✅ Readiness check passed!\n")
	fmt.Printf("   Status: %s\n", readiness.Status)
	fmt.Printf("   Tables: %v\n", readiness.TablesFound)
}

// pingDatabase checks the store directly, bypassing the service.
func pingDatabase(dsn string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open a database connection: %w", err)
	}
	defer conn.Close()

	return conn.PingContext(ctx)
}
