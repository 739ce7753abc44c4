package webhook

import (
	"fmt"
	"testing"
)

func mustObject(t *testing.T, raw string) *Object {
	t.Helper()
	v, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	obj := asObject(v)
	if obj == nil {
		t.Fatalf("expected object, got %T", v)
	}
	return obj
}

func TestNormalizeBid_Identity(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		pos       int
		wantID    string
		wantTitle string
	}{
		{
			name:      "explicit id and title",
			raw:       `{"id": "abc-1", "title": "Shopify migration"}`,
			wantID:    "abc-1",
			wantTitle: "Shopify migration",
		},
		{
			name:      "bid_id alias",
			raw:       `{"bid_id": 42, "name": "Landing page"}`,
			wantID:    "42",
			wantTitle: "Landing page",
		},
		{
			name:      "synthetic fallbacks are 1-based",
			raw:       `{}`,
			pos:       2,
			wantID:    "bid-3",
			wantTitle: "Opportunity 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bid := NormalizeBid(mustObject(t, tt.raw), tt.pos)
			if bid.ID != tt.wantID {
				t.Errorf("id = %q, want %q", bid.ID, tt.wantID)
			}
			if bid.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", bid.Title, tt.wantTitle)
			}
		})
	}
}

func TestNormalizeBid_SyntheticIDsUniqueAcrossBatch(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		bid := NormalizeBid(mustObject(t, `{"title": "x"}`), i)
		if seen[bid.ID] {
			t.Fatalf("duplicate synthetic id %q at position %d", bid.ID, i)
		}
		seen[bid.ID] = true
		if want := fmt.Sprintf("bid-%d", i+1); bid.ID != want {
			t.Errorf("position %d: id = %q, want %q", i, bid.ID, want)
		}
	}
}

func TestNormalizeBid_PlatformInference(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"explicit platform wins", `{"platform": "Toptal", "url": "https://upwork.com/x"}`, "Toptal"},
		{"source alias", `{"source": "Freelancer"}`, "Freelancer"},
		{"upwork url", `{"url": "https://www.upwork.com/jobs/~1"}`, "Upwork"},
		{"fiverr link alias", `{"link": "https://fiverr.com/gigs/2"}`, "Fiverr"},
		{"unknown url leaves platform unset", `{"url": "https://example.com/job"}`, ""},
		{"no url no platform", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bid := NormalizeBid(mustObject(t, tt.raw), 0)
			if bid.Platform != tt.want {
				t.Errorf("platform = %q, want %q", bid.Platform, tt.want)
			}
		})
	}
}

func TestNormalizeBid_Budget(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string budget passes through", `{"budget": "fixed $750"}`, "fixed $750"},
		{"assembled from min and max", `{"budget_min": 500, "budget_max": 900}`, "$500 - $900"},
		{"zero min is not truthy", `{"budget_min": 0, "budget_max": 900}`, ""},
		{"price_range fallback", `{"price_range": "100-200 USD"}`, "100-200 USD"},
		{"numeric price_range is stringified", `{"price_range": 1500}`, "1500"},
		{"absent stays unset", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bid := NormalizeBid(mustObject(t, tt.raw), 0)
			if bid.Budget != tt.want {
				t.Errorf("budget = %q, want %q", bid.Budget, tt.want)
			}
		})
	}
}

func TestNormalizeBid_Score(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantSet bool
	}{
		{"score field", `{"score": 91}`, 91, true},
		{"nex_score alias", `{"nex_score": 84.5}`, 84.5, true},
		{"win_probability alias", `{"win_probability": 66}`, 66, true},
		{"numeric string coerces", `{"score": "73"}`, 73, true},
		{"non-numeric leaves unset", `{"score": "very high"}`, 0, false},
		{"non-numeric first alias masks later ones", `{"score": "very competitive", "nex_score": 80}`, 0, false},
		{"null first alias falls through", `{"score": null, "nex_score": 80}`, 80, true},
		{"absent leaves unset", `{}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bid := NormalizeBid(mustObject(t, tt.raw), 0)
			if tt.wantSet {
				if bid.Score == nil {
					t.Fatalf("score unset, want %v", tt.want)
				}
				if *bid.Score != tt.want {
					t.Errorf("score = %v, want %v", *bid.Score, tt.want)
				}
			} else if bid.Score != nil {
				t.Errorf("score = %v, want unset", *bid.Score)
			}
		})
	}
}

func TestNormalizeBid_SummaryAndProposal(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantSummary  string
		wantProposal string
	}{
		{"string summary wins", `{"summary": "short", "description": "long"}`, "short", ""},
		{"empty string summary does not fall through", `{"summary": "", "description": "long"}`, "", ""},
		{"description fallback", `{"description": "from description"}`, "from description", ""},
		{"brief fallback", `{"brief": "from brief"}`, "from brief", ""},
		{"proposal alias chain", `{"proposal_agent_output": "Dear client"}`, "", "Dear client"},
		{"proposal beats later aliases", `{"proposal": "first", "generated_proposal": "last"}`, "", "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bid := NormalizeBid(mustObject(t, tt.raw), 0)
			if bid.Summary != tt.wantSummary {
				t.Errorf("summary = %q, want %q", bid.Summary, tt.wantSummary)
			}
			if bid.Proposal != tt.wantProposal {
				t.Errorf("proposal = %q, want %q", bid.Proposal, tt.wantProposal)
			}
		})
	}
}

func TestNormalizeBid_URLAliasOrder(t *testing.T) {
	bid := NormalizeBid(mustObject(t, `{"link": "https://b", "url": "https://a", "href": "https://c"}`), 0)
	if bid.URL != "https://a" {
		t.Errorf("url = %q, want %q", bid.URL, "https://a")
	}
}
