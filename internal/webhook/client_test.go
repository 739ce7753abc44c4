package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_GenerateInsights(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"insights": "looks strong", "top_bids": [{"url": "https://upwork.com/x"}]}}`))
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	res, err := client.GenerateInsights(context.Background(), srv.URL,
		Company{Name: "Acme", Focus: "web"}, Caller{ID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("GenerateInsights failed: %v", err)
	}

	if received["action"] != ActionGenerateInsights {
		t.Errorf("action = %v", received["action"])
	}
	if res.Insights.Summary != "looks strong" {
		t.Errorf("summary = %q", res.Insights.Summary)
	}
	if len(res.Bids) != 1 || res.Bids[0].Platform != "Upwork" {
		t.Errorf("bids = %#v", res.Bids)
	}
}

func TestClient_GenerateProposal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"plain field", `{"proposal": "Dear client, hello."}`, "Dear client, hello."},
		{"content alias", `{"content": "via content"}`, "via content"},
		{"html is flattened", `{"proposal_output": "<p>Hi <b>there</b></p>"}`, "Hi there"},
		{"empty body means no content", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(5 * time.Second)
			got, err := client.GenerateProposal(context.Background(), srv.URL, NormalizedBid{ID: "bid-1"}, Caller{ID: "u1"})
			if err != nil {
				t.Fatalf("GenerateProposal failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("proposal = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_UpstreamFailures(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewClient(5 * time.Second)
		if _, err := client.GenerateInsights(context.Background(), srv.URL, Company{}, Caller{}); err == nil {
			t.Fatal("expected error for 502 response")
		}
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		client := NewClient(5 * time.Second)
		if _, err := client.GenerateInsights(context.Background(), srv.URL, Company{}, Caller{}); err == nil {
			t.Fatal("expected error for invalid JSON")
		}
	})
}
