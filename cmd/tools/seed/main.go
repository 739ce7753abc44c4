package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/nexinsight/nexinsight/internal/config"
	"github.com/nexinsight/nexinsight/internal/db"
)

type demoProject struct {
	Title          string
	Description    string
	Platform       string
	BudgetMin      float64
	BudgetMax      float64
	Skills         []string
	NexScore       int
	WinProbability int
	RiskLevel      string
	ClientHistory  string
	ProjectURL     string
}

var demoProjects = []demoProject{
	{
		Title:          "AI-Powered Proposal Analyzer",
		Description:    "Build a Next.js tool that evaluates freelance proposals using NLP and sentiment analysis to highlight risks and opportunities.",
		Platform:       "upwork",
		BudgetMin:      1200,
		BudgetMax:      1800,
		Skills:         []string{"Next.js", "TypeScript", "OpenAI", "Tailwind CSS"},
		NexScore:       88,
		WinProbability: 74,
		RiskLevel:      "low",
		ClientHistory:  "38 jobs posted • 95% hire rate • $120k total spend",
		ProjectURL:     "https://www.upwork.com/jobs/~example1",
	},
	{
		Title:          "Realtime Bid Automation Agent",
		Description:    "Create an automation agent that monitors Freelancer.com listings and drafts personalized bids based on predefined playbooks.",
		Platform:       "freelancer",
		BudgetMin:      900,
		BudgetMax:      1500,
		Skills:         []string{"Python", "Supabase", "LangChain", "Automation"},
		NexScore:       82,
		WinProbability: 68,
		RiskLevel:      "medium",
		ClientHistory:  "12 jobs posted • 88% hire rate • $35k total spend",
		ProjectURL:     "https://www.freelancer.com/projects/example2",
	},
	{
		Title:          "Voice-Enabled Client Discovery Bot",
		Description:    "Develop a Chrome extension that uses speech-to-text and AI to summarize client calls and suggest follow-up actions in real time.",
		Platform:       "fiverr",
		BudgetMin:      600,
		BudgetMax:      1100,
		Skills:         []string{"Chrome Extensions", "React", "Whisper", "UI/UX"},
		NexScore:       76,
		WinProbability: 63,
		RiskLevel:      "medium",
		ClientHistory:  "22 jobs posted • 90% hire rate • $48k total spend",
		ProjectURL:     "https://www.fiverr.com/example3",
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Title", "Platform", "Budget", "Nex Score", "Risk"})

	for _, p := range demoProjects {
		_, err := pool.Exec(ctx, `
			INSERT INTO projects (title, description, platform, budget_min, budget_max,
				skills_required, nex_score, win_probability, risk_level, client_history,
				project_url, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'active')
			ON CONFLICT (project_url) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				budget_min = EXCLUDED.budget_min,
				budget_max = EXCLUDED.budget_max,
				skills_required = EXCLUDED.skills_required,
				updated_at = NOW()`,
			p.Title, p.Description, p.Platform, p.BudgetMin, p.BudgetMax,
			p.Skills, p.NexScore, p.WinProbability, p.RiskLevel, p.ClientHistory,
			p.ProjectURL)
		if err != nil {
			log.Printf("Seed failed for %q: %v", p.Title, err)
			continue
		}
		budget := fmt.Sprintf("$%.0f - $%.0f", p.BudgetMin, p.BudgetMax)
		t.AppendRow(table.Row{p.Title, p.Platform, budget, p.NexScore, p.RiskLevel})
	}

	t.Render()
	log.Printf("Seeded %d demo projects", len(demoProjects))
}
