// Probe fires a test insight request at an automation webhook and renders
// whatever comes back, useful when wiring up a new n8n or Make workflow.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nexinsight/nexinsight/internal/webhook"
)

func main() {
	url := flag.String("url", "", "Automation webhook URL to probe")
	name := flag.String("company", "Acme Consulting", "Company name sent with the request")
	focus := flag.String("focus", "automation tooling", "Company focus sent with the request")
	timeout := flag.Duration("timeout", 30*time.Second, "Request timeout")
	flag.Parse()

	if *url == "" {
		log.Fatal("Please provide a webhook URL using -url flag")
	}

	client := webhook.NewClient(*timeout)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := client.GenerateInsights(ctx, *url, webhook.Company{
		Name:  *name,
		Focus: *focus,
	}, webhook.Caller{ID: "probe", Email: "probe@localhost"})
	if err != nil {
		log.Fatalf("Probe failed: %v", err)
	}

	if result.Insights.Summary != "" {
		fmt.Printf("Summary: %s\n\n", result.Insights.Summary)
	}
	for _, h := range result.Insights.Highlights {
		fmt.Printf("  • %s\n", h)
	}

	if len(result.Insights.Metrics) > 0 {
		mt := table.NewWriter()
		mt.SetOutputMirror(os.Stdout)
		mt.AppendHeader(table.Row{"Metric", "Value"})
		for _, m := range result.Insights.Metrics {
			mt.AppendRow(table.Row{m.Label, m.Value})
		}
		mt.Render()
	}

	bt := table.NewWriter()
	bt.SetOutputMirror(os.Stdout)
	bt.AppendHeader(table.Row{"ID", "Title", "Platform", "Budget", "Score"})
	for _, b := range result.Bids {
		score := "-"
		if b.Score != nil {
			score = fmt.Sprintf("%.0f", *b.Score)
		}
		bt.AppendRow(table.Row{b.ID, b.Title, b.Platform, b.Budget, score})
	}
	bt.Render()

	log.Printf("Webhook returned %d bids", len(result.Bids))
}
