package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nexinsight/nexinsight/internal/config"
	"github.com/nexinsight/nexinsight/internal/models"
	"github.com/nexinsight/nexinsight/internal/webhook"
)

const testJWTSecret = "insights-test-secret"

var pinSecret sync.Once

// bearerToken mints a token the auth middleware will accept. The secret must
// be pinned before the middleware reads it for the first time.
func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	pinSecret.Do(func() {
		os.Setenv("JWT_SECRET", testJWTSecret)
	})

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return "Bearer " + token
}

func authedPost(t *testing.T, s *Server, path, body string, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, userID))
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func serverWithWebhook(store Store) *Server {
	return NewServer(config.Config{}, store, nil, webhook.NewClient(0), nil, nil)
}

func TestGenerateInsights_RequiresToken(t *testing.T) {
	rec := postJSON(t, serverWithWebhook(newFakeStore()), "/api/v1/insights",
		`{"company": {"name": "Acme", "focus": "automation"}}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestGenerateInsights_NoActiveAgent(t *testing.T) {
	rec := authedPost(t, serverWithWebhook(newFakeStore()), "/api/v1/insights",
		`{"company": {"name": "Acme", "focus": "automation"}}`, uuid.New())

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "No active automation webhook") {
		t.Errorf("body = %q, should explain the missing webhook", rec.Body.String())
	}
}

func TestGenerateInsights_ForwardsAndResolves(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("upstream got invalid JSON: %v", err)
		}
		if req["action"] != "generate_insights" {
			t.Errorf("action = %v, want generate_insights", req["action"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"insights": {"summary": "Strong niche", "highlights": ["Low competition"]},
			"top_bids": [{"title": "Scraper gig", "url": "https://upwork.com/jobs/1", "budget": "$300"}]
		}`))
	}))
	defer upstream.Close()

	store := newFakeStore()
	store.activeAgent = &models.AgentConfig{WebhookURL: upstream.URL, IsActive: true}

	rec := authedPost(t, serverWithWebhook(store), "/api/v1/insights",
		`{"company": {"name": "Acme", "focus": "automation"}}`, uuid.New())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success  bool                    `json:"success"`
		Insights webhook.InsightBundle   `json:"insights"`
		Bids     []webhook.NormalizedBid `json:"bids"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success || resp.Insights.Summary != "Strong niche" {
		t.Errorf("unexpected insights payload: %+v", resp.Insights)
	}
	if len(resp.Bids) != 1 || resp.Bids[0].Platform != "upwork" {
		t.Errorf("bids not normalized: %+v", resp.Bids)
	}
}

func TestGenerateInsights_MissingCompanyFields(t *testing.T) {
	rec := authedPost(t, serverWithWebhook(newFakeStore()), "/api/v1/insights",
		`{"company": {"name": "Acme"}}`, uuid.New())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateProposal_ExistingContentSkipsWebhook(t *testing.T) {
	store := newFakeStore()
	rec := authedPost(t, serverWithWebhook(store), "/api/v1/proposals/generate",
		`{"bid": {"id": "bid-1", "title": "Scraper gig", "proposal": "Already drafted."}}`, uuid.New())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(store.proposals) != 1 {
		t.Fatalf("persisted %d proposals, want 1", len(store.proposals))
	}
	for _, p := range store.proposals {
		if p.Content != "Already drafted." || p.Status != "draft" {
			t.Errorf("proposal = %+v, want existing content saved as draft", p)
		}
	}
}

func TestGenerateProposal_ViaWebhook(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"proposal_output": "Dear client, here is my plan."}`))
	}))
	defer upstream.Close()

	store := newFakeStore()
	store.activeAgent = &models.AgentConfig{WebhookURL: upstream.URL, IsActive: true}

	rec := authedPost(t, serverWithWebhook(store), "/api/v1/proposals/generate",
		`{"bid": {"id": "bid-1", "title": "Scraper gig"}}`, uuid.New())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	for _, p := range store.proposals {
		if p.Content != "Dear client, here is my plan." {
			t.Errorf("content = %q, want webhook proposal text", p.Content)
		}
	}
}

func TestGenerateProposal_EmptyWebhookContent(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	store := newFakeStore()
	store.activeAgent = &models.AgentConfig{WebhookURL: upstream.URL, IsActive: true}

	rec := authedPost(t, serverWithWebhook(store), "/api/v1/proposals/generate",
		`{"bid": {"id": "bid-1", "title": "Scraper gig"}}`, uuid.New())

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502: %s", rec.Code, rec.Body.String())
	}
	if len(store.proposals) != 0 {
		t.Errorf("empty content must not persist, got %d proposals", len(store.proposals))
	}
}
