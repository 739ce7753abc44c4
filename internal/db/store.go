package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/nexinsight/nexinsight/internal/models"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("not found")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ProjectFilter narrows ListProjects. Zero values mean "no constraint";
// Status defaults to "active" ("all" disables the filter).
type ProjectFilter struct {
	Query       string
	Platform    string
	RiskLevel   string
	MinNexScore int
	Status      string
	Limit       int
	Offset      int
}

type ProjectList struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

const projectCols = `id, title, description, platform, budget_min, budget_max,
	skills_required, nex_score, win_probability, risk_level,
	client_rating, client_history, project_url, ai_insights, status,
	created_at, updated_at`

func scanProject(scan func(dest ...any) error) (models.Project, error) {
	var p models.Project
	err := scan(
		&p.ID, &p.Title, &p.Description, &p.Platform, &p.BudgetMin, &p.BudgetMax,
		&p.SkillsRequired, &p.NexScore, &p.WinProbability, &p.RiskLevel,
		&p.ClientRating, &p.ClientHistory, &p.ProjectURL, &p.AIInsights, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// buildProjectWhere assembles the WHERE clause and args for a filter.
// Kept separate so the clause logic stays testable without a database.
func buildProjectWhere(f ProjectFilter) (string, []any) {
	where := "WHERE 1=1"
	var args []any
	argIdx := 1

	status := f.Status
	if status == "" {
		status = "active"
	}
	if status != "all" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}
	if f.Query != "" {
		where += fmt.Sprintf(" AND (title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')", argIdx, argIdx)
		args = append(args, f.Query)
		argIdx++
	}
	if f.Platform != "" {
		where += fmt.Sprintf(" AND platform = $%d", argIdx)
		args = append(args, f.Platform)
		argIdx++
	}
	if f.RiskLevel != "" {
		where += fmt.Sprintf(" AND risk_level = $%d", argIdx)
		args = append(args, f.RiskLevel)
		argIdx++
	}
	if f.MinNexScore > 0 {
		where += fmt.Sprintf(" AND nex_score >= $%d", argIdx)
		args = append(args, f.MinNexScore)
	}

	return where, args
}

func (s *Store) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	if p.AIInsights == nil {
		p.AIInsights = map[string]any{}
	}
	if p.SkillsRequired == nil {
		p.SkillsRequired = []string{}
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO projects (
			title, description, platform, budget_min, budget_max,
			skills_required, nex_score, win_probability, risk_level,
			client_rating, client_history, project_url, ai_insights, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+projectCols,
		p.Title, p.Description, p.Platform, p.BudgetMin, p.BudgetMax,
		p.SkillsRequired, p.NexScore, p.WinProbability, p.RiskLevel,
		p.ClientRating, p.ClientHistory, p.ProjectURL, p.AIInsights, p.Status,
	)
	created, err := scanProject(row.Scan)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to insert project: %w", err)
	}
	return created, nil
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+projectCols+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProjects(ctx context.Context, f ProjectFilter) (*ProjectList, error) {
	where, args := buildProjectWhere(f)

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM projects "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf("SELECT %s FROM projects %s ORDER BY nex_score DESC, created_at DESC LIMIT %d OFFSET %d",
		projectCols, where, limit, f.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ProjectList{Projects: projects, Total: total, Limit: limit, Offset: f.Offset}, nil
}

// SetProjectEmbedding stores the description embedding used by SimilarProjects.
func (s *Store) SetProjectEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE projects SET embedding = $1, updated_at = NOW() WHERE id = $2`,
		pgvector.NewVector(embedding), id)
	if err != nil {
		return fmt.Errorf("failed to set project embedding: %w", err)
	}
	return nil
}

// SimilarProjects returns the nearest active projects by embedding distance,
// excluding the project itself. Projects without an embedding never match.
func (s *Store) SimilarProjects(ctx context.Context, id uuid.UUID, limit int) ([]models.Project, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM projects
		WHERE id != $1 AND status = 'active' AND embedding IS NOT NULL
		ORDER BY embedding <-> (SELECT embedding FROM projects WHERE id = $1)
		LIMIT %d`, projectCols, limit), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

const proposalCols = `id, user_id, project_id, content, status, submitted_at, created_at, updated_at`

func scanProposal(scan func(dest ...any) error) (models.Proposal, error) {
	var p models.Proposal
	err := scan(&p.ID, &p.UserID, &p.ProjectID, &p.Content, &p.Status, &p.SubmittedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) CreateProposal(ctx context.Context, p models.Proposal) (models.Proposal, error) {
	if p.Status == "" {
		p.Status = "draft"
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO proposals (user_id, project_id, content, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+proposalCols,
		p.UserID, p.ProjectID, p.Content, p.Status)
	created, err := scanProposal(row.Scan)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("failed to insert proposal: %w", err)
	}
	return created, nil
}

func (s *Store) ListProposals(ctx context.Context, userID uuid.UUID) ([]models.Proposal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+proposalCols+` FROM proposals WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	proposals := []models.Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows.Scan)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

// UpdateProposalStatus sets a proposal's status. The submission timestamp is
// stamped only when the new status is "submitted"; other transitions leave
// any existing timestamp alone.
func (s *Store) UpdateProposalStatus(ctx context.Context, id uuid.UUID, status string) (*models.Proposal, error) {
	var submittedAt *time.Time
	if status == "submitted" {
		now := time.Now().UTC()
		submittedAt = &now
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE proposals
		SET status = $1, submitted_at = COALESCE($2, submitted_at), updated_at = NOW()
		WHERE id = $3
		RETURNING `+proposalCols,
		status, submittedAt, id)
	p, err := scanProposal(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update proposal: %w", err)
	}
	return &p, nil
}

func (s *Store) GetAnalytics(ctx context.Context, userID uuid.UUID) (*models.Analytics, error) {
	var a models.Analytics
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, total_wins, total_losses, total_proposals, win_ratio, updated_at
		FROM analytics WHERE user_id = $1`, userID).
		Scan(&a.UserID, &a.TotalWins, &a.TotalLosses, &a.TotalProposals, &a.WinRatio, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}
	return &a, nil
}

func (s *Store) SaveAnalytics(ctx context.Context, a models.Analytics) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE analytics
		SET total_wins = $1, total_losses = $2, win_ratio = $3, updated_at = NOW()
		WHERE user_id = $4`,
		a.TotalWins, a.TotalLosses, a.WinRatio, a.UserID)
	if err != nil {
		return fmt.Errorf("failed to save analytics: %w", err)
	}
	return nil
}

const agentCols = `id, user_id, agent_name, webhook_url, is_active, created_at`

func scanAgentConfig(scan func(dest ...any) error) (models.AgentConfig, error) {
	var cfg models.AgentConfig
	err := scan(&cfg.ID, &cfg.UserID, &cfg.AgentName, &cfg.WebhookURL, &cfg.IsActive, &cfg.CreatedAt)
	return cfg, err
}

func (s *Store) CreateAgentConfig(ctx context.Context, cfg models.AgentConfig) (models.AgentConfig, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO agent_configs (user_id, agent_name, webhook_url, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+agentCols,
		cfg.UserID, cfg.AgentName, cfg.WebhookURL, cfg.IsActive)
	created, err := scanAgentConfig(row.Scan)
	if err != nil {
		return models.AgentConfig{}, fmt.Errorf("failed to insert agent config: %w", err)
	}
	return created, nil
}

func (s *Store) ListAgentConfigs(ctx context.Context, userID uuid.UUID) ([]models.AgentConfig, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+agentCols+` FROM agent_configs WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent configs: %w", err)
	}
	defer rows.Close()

	configs := []models.AgentConfig{}
	for rows.Next() {
		cfg, err := scanAgentConfig(rows.Scan)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// ActivateAgentConfig marks one config active and deactivates the user's
// others in the same transaction.
func (s *Store) ActivateAgentConfig(ctx context.Context, userID, configID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE agent_configs SET is_active = FALSE WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to deactivate agent configs: %w", err)
	}
	tag, err := tx.Exec(ctx,
		`UPDATE agent_configs SET is_active = TRUE WHERE id = $1 AND user_id = $2`, configID, userID)
	if err != nil {
		return fmt.Errorf("failed to activate agent config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (s *Store) DeleteAgentConfig(ctx context.Context, userID, configID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM agent_configs WHERE id = $1 AND user_id = $2`, configID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete agent config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveAgentConfig returns the user's newest active webhook config.
// ErrNotFound here is a normal state, not a failure: the user simply has no
// automation connected yet.
func (s *Store) ActiveAgentConfig(ctx context.Context, userID uuid.UUID) (*models.AgentConfig, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+agentCols+` FROM agent_configs
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1`, userID)
	cfg, err := scanAgentConfig(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active agent config: %w", err)
	}
	return &cfg, nil
}

// GetStats aggregates the public dashboard numbers.
func (s *Store) GetStats(ctx context.Context) (map[string]any, error) {
	stats := map[string]any{}

	var total int
	var avgNexScore, avgWinProb *float64
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), AVG(nex_score), AVG(win_probability)
		FROM projects WHERE status = 'active'`).Scan(&total, &avgNexScore, &avgWinProb)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate projects: %w", err)
	}
	stats["total_projects"] = total
	if avgNexScore != nil {
		stats["avg_nex_score"] = *avgNexScore
	}
	if avgWinProb != nil {
		stats["avg_win_probability"] = *avgWinProb
	}

	rows, err := s.pool.Query(ctx, `
		SELECT risk_level, COUNT(*) FROM projects
		WHERE status = 'active' GROUP BY risk_level`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate risk levels: %w", err)
	}
	defer rows.Close()

	byRisk := map[string]int{}
	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, err
		}
		byRisk[level] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stats["projects_by_risk"] = byRisk

	return stats, nil
}
