package webhook

// NormalizedBid is the fixed shape one webhook-surfaced opportunity is
// reduced to, whatever field names the sender used.
type NormalizedBid struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Platform string   `json:"platform,omitempty"`
	URL      string   `json:"url"`
	Budget   string   `json:"budget,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Summary  string   `json:"summary"`
	Proposal string   `json:"proposal"`
}

// Metric is one label/value pair surfaced in an insight bundle.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// InsightBundle is the resolved view of a webhook's insight payload.
// All fields default to empty; which ones fill in depends on whether the
// source insights field was a string, a list, or an object.
type InsightBundle struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
	Metrics    []Metric `json:"metrics"`
}

// Result is the full normalized view of one automation response.
type Result struct {
	Insights InsightBundle   `json:"insights"`
	Bids     []NormalizedBid `json:"bids"`
}
