package webhook

import (
	"fmt"
	"strings"
)

// NormalizeBid maps one raw bid-like object into a NormalizedBid. pos is the
// bid's 0-based position in the batch; it seeds the synthetic id and title
// fallbacks, which keeps ids unique across a response even when the sender
// supplies none.
func NormalizeBid(raw *Object, pos int) NormalizedBid {
	url := firstString(raw, "url", "link", "project_url", "href")

	platform := firstString(raw, "platform", "source")
	if platform == "" {
		lower := strings.ToLower(url)
		switch {
		case strings.Contains(lower, "upwork"):
			platform = "Upwork"
		case strings.Contains(lower, "fiverr"):
			platform = "Fiverr"
		}
	}

	var budget string
	rawBudget, _ := raw.Get("budget")
	budgetMin, _ := raw.Get("budget_min")
	budgetMax, _ := raw.Get("budget_max")
	if s, isStr := rawBudget.(string); isStr {
		budget = s
	} else if truthy(budgetMin) && truthy(budgetMax) {
		budget = fmt.Sprintf("$%s - $%s", stringify(budgetMin), stringify(budgetMax))
	} else if v, ok := raw.Get("price_range"); ok && v != nil {
		budget = stringify(v)
	}

	// The alias walk stops at the first non-null candidate; if that value
	// then fails numeric coercion the score stays unset. A usable number
	// in a later alias never rescues a garbage earlier one.
	var score *float64
	if v, ok := firstValue(raw, "score", "nex_score", "win_probability"); ok {
		if n, ok := toNumber(v); ok {
			score = &n
		}
	}

	id := firstString(raw, "id", "bid_id")
	if id == "" {
		id = fmt.Sprintf("bid-%d", pos+1)
	}

	title := firstString(raw, "title", "name")
	if title == "" {
		title = fmt.Sprintf("Opportunity %d", pos+1)
	}

	// A string summary wins even when empty; only a missing or non-string
	// summary falls through to the description aliases.
	rawSummary, _ := raw.Get("summary")
	summary, isString := rawSummary.(string)
	if !isString {
		if v, ok := firstValue(raw, "description", "brief"); ok {
			summary = stringify(v)
		}
	}

	proposal := ""
	if v, ok := firstValue(raw, "proposal", "proposal_output", "proposal_agent_output", "generated_proposal"); ok {
		proposal = stringify(v)
	}

	return NormalizedBid{
		ID:       id,
		Title:    title,
		Platform: platform,
		URL:      url,
		Budget:   budget,
		Score:    score,
		Summary:  summary,
		Proposal: proposal,
	}
}
