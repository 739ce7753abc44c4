package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is an opportunity synced into the dashboard, either from the
// automation webhook or from a manual seed.
type Project struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Platform       string         `json:"platform"`
	BudgetMin      float64        `json:"budget_min"`
	BudgetMax      float64        `json:"budget_max"`
	SkillsRequired []string       `json:"skills_required"`
	NexScore       int            `json:"nex_score"`
	WinProbability int            `json:"win_probability"`
	RiskLevel      string         `json:"risk_level"`
	ClientRating   *float64       `json:"client_rating"`
	ClientHistory  *string        `json:"client_history"`
	ProjectURL     *string        `json:"project_url"`
	AIInsights     map[string]any `json:"ai_insights"`
	Status         string         `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Proposal is one drafted bid for a project, owned by a user.
type Proposal struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	ProjectID   *uuid.UUID `json:"project_id"`
	Content     string     `json:"content"`
	Status      string     `json:"status"` // draft, submitted, won, lost
	SubmittedAt *time.Time `json:"submitted_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Analytics holds the cumulative bid-outcome counters for one user.
// WinRatio is recomputed from the counters on every outcome, never
// incremented in place.
type Analytics struct {
	UserID         uuid.UUID `json:"user_id"`
	TotalWins      int       `json:"total_wins"`
	TotalLosses    int       `json:"total_losses"`
	TotalProposals int       `json:"total_proposals"`
	WinRatio       float64   `json:"win_ratio"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AgentConfig is a user-registered automation webhook endpoint. At most one
// config per user is active at a time; the newest active one wins.
type AgentConfig struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	AgentName  string    `json:"agent_name"`
	WebhookURL string    `json:"webhook_url"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
