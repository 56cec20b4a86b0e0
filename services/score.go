package services

import (
	"math"

	"evalhub/models"
)

// rescaleMultiplier brings a 0-10 score onto the advertised 0-100 scale.
const rescaleMultiplier = 10

// NormalizeScores rescales a result whose scores appear to be on a 0-10
// scale onto 0-100. The heuristic is ambiguous by construction: a genuine
// 7/100 is indistinguishable from 7/10 and will be rescaled too. This is the
// documented behavior, not a bug to fix silently.
func NormalizeScores(result *models.EvaluationResult) {
	if result == nil {
		return
	}
	if result.TotalScore > 0 && result.TotalScore <= 10 {
		result.TotalScore = round1(result.TotalScore * rescaleMultiplier)
	}
	for i := range result.Criteria {
		if s := result.Criteria[i].Score; s > 0 && s <= 10 {
			result.Criteria[i].Score = round1(s * rescaleMultiplier)
		}
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
