// Package scoring computes the derived project metrics and the cumulative
// win-ratio analytics. The score generators are synthetic placeholders with a
// stable contract; a real model can replace them without touching callers.
package scoring

import (
	"math/rand"

	"github.com/nexinsight/nexinsight/internal/models"
)

// Bid outcome statuses that move the analytics counters.
const (
	StatusWon  = "won"
	StatusLost = "lost"
)

// Risk buckets derived from the nex score.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Metrics is the derived triple attached to every synced project.
type Metrics struct {
	NexScore       int
	WinProbability int
	RiskLevel      string
}

// NewMetrics draws a nex score in [70,100] and an independent win
// probability in [60,100], then buckets risk from the nex score alone.
func NewMetrics() Metrics {
	score := 70 + rand.Intn(31)
	return Metrics{
		NexScore:       score,
		WinProbability: 60 + rand.Intn(41),
		RiskLevel:      RiskFromScore(score),
	}
}

// RiskFromScore buckets a nex score: low at 85 and above, medium at 70 and
// above, high below that.
func RiskFromScore(score int) string {
	switch {
	case score >= 85:
		return RiskLow
	case score >= 70:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// CountsOutcome reports whether a proposal status moves the win/loss
// counters.
func CountsOutcome(status string) bool {
	return status == StatusWon || status == StatusLost
}

// ApplyOutcome folds one won/lost outcome into a user's analytics record.
// Exactly one counter moves. The win ratio is recomputed against the
// pre-update proposal total, not incremented; a zero total yields zero.
// Statuses other than won/lost return the record unchanged.
func ApplyOutcome(a models.Analytics, status string) models.Analytics {
	switch status {
	case StatusWon:
		a.TotalWins++
	case StatusLost:
		a.TotalLosses++
	default:
		return a
	}

	if a.TotalProposals > 0 {
		a.WinRatio = float64(a.TotalWins) / float64(a.TotalProposals) * 100
	} else {
		a.WinRatio = 0
	}
	return a
}
