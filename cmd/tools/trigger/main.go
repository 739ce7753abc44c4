// Fires a sample project-sync payload at a running server, a quick smoke
// test for the ingest path without involving an automation platform.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	baseURL := flag.String("base-url", "http://localhost:8081", "API base URL")
	title := flag.String("title", "Smoke test project", "project title to send")
	platform := flag.String("platform", "upwork", "platform to send")
	flag.Parse()

	payload := map[string]any{
		"title":       *title,
		"platform":    *platform,
		"description": "Sent by the trigger tool at " + time.Now().Format(time.RFC3339),
		"budget_min":  100,
		"budget_max":  500,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Error encoding payload: %v\n", err)
		os.Exit(1)
	}

	url := strings.TrimRight(*baseURL, "/") + "/api/v1/webhooks/project-sync"
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	fmt.Printf("Response Status: %s\n", resp.Status)
	out, _ := io.ReadAll(resp.Body)
	fmt.Println(string(out))
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
