package otm

import (
	"strings"
)

// DefaultRiskScore is the neutral score assigned when a risk value is
// missing or carries an unknown label.
const DefaultRiskScore = 50

// severityScores maps ordinal severity labels to the platform's 0-100 scale.
// One table serves both the materializer and the repair pass.
var severityScores = map[string]int{
	"very-low":  10,
	"low":       25,
	"medium":    50,
	"high":      75,
	"very-high": 90,
	"critical":  100,
}

// SeverityScore resolves an ordinal severity label such as "High" or
// "very low" to its numeric score.
func SeverityScore(label string) (int, bool) {
	key := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(label)), " ", "-")
	key = strings.ReplaceAll(key, "_", "-")
	score, ok := severityScores[key]
	return score, ok
}

// scoreFromLabel converts a seed label to a resolved RiskValue, falling back
// to the neutral default for unknown labels.
func scoreFromLabel(label string) *RiskValue {
	if score, ok := SeverityScore(label); ok {
		return NewScore(score)
	}
	return NewScore(DefaultRiskScore)
}
