package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"

	"evalhub/models"
)

// BuildLeaderboard sorts results descending by total score and assigns
// 1-based ranks. The sort is stable: tied scores keep their input order.
func BuildLeaderboard(results []models.TeamResult) []models.LeaderboardEntry {
	ordered := make([]models.TeamResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	entries := make([]models.LeaderboardEntry, 0, len(ordered))
	for i, r := range ordered {
		entries = append(entries, models.LeaderboardEntry{
			Rank:     i + 1,
			TeamName: r.TeamName,
			Score:    r.Score,
			Summary:  r.Summary,
		})
	}
	return entries
}

// LeaderboardCSV renders the flat summary table.
func LeaderboardCSV(entries []models.LeaderboardEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Rank", "Team Name", "Score", "Summary"}); err != nil {
		return nil, err
	}
	for _, e := range entries {
		record := []string{
			fmt.Sprintf("%d", e.Rank),
			e.TeamName,
			formatScore(e.Score),
			e.Summary,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CriteriaCSV renders one submission's per-criterion detail table.
func CriteriaCSV(result *models.EvaluationResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"name", "score", "reason"}); err != nil {
		return nil, err
	}
	if result != nil {
		for _, c := range result.Criteria {
			if err := w.Write([]string{c.Name, formatScore(c.Score), c.Reason}); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ReportJSON renders the downloadable evaluation report: either a single
// result or the full per-submission array.
func ReportJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func formatScore(s float64) string {
	if s == float64(int64(s)) {
		return fmt.Sprintf("%d", int64(s))
	}
	return fmt.Sprintf("%.1f", s)
}
