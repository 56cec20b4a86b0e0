package services

import (
	"strings"
	"testing"

	"evalhub/models"
)

func TestBuildLeaderboardStableOrdering(t *testing.T) {
	results := []models.TeamResult{
		{TeamName: "alpha", Score: 55, Summary: "ok"},
		{TeamName: "bravo", Score: 90, Summary: "great"},
		{TeamName: "charlie", Score: 90, Summary: "also great"},
	}

	entries := BuildLeaderboard(results)

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].TeamName != "bravo" || entries[0].Rank != 1 {
		t.Errorf("Expected bravo first (input order wins ties), got %+v", entries[0])
	}
	if entries[1].TeamName != "charlie" || entries[1].Rank != 2 {
		t.Errorf("Expected charlie second, got %+v", entries[1])
	}
	if entries[2].TeamName != "alpha" || entries[2].Rank != 3 {
		t.Errorf("Expected alpha third, got %+v", entries[2])
	}
}

func TestBuildLeaderboardKeepsErrorPlaceholders(t *testing.T) {
	results := []models.TeamResult{
		{TeamName: "good", Score: 80, Summary: "fine"},
		{TeamName: "broken", Score: 0, Summary: "Error: failed to unpack archive", Err: "failed to unpack archive"},
	}

	entries := BuildLeaderboard(results)

	if len(entries) != 2 {
		t.Fatalf("Expected the failed submission to stay on the board, got %d entries", len(entries))
	}
	last := entries[1]
	if last.TeamName != "broken" || last.Score != 0 {
		t.Errorf("Expected score-0 placeholder for broken, got %+v", last)
	}
	if !strings.Contains(last.Summary, "Error") {
		t.Errorf("Placeholder summary should describe the error, got %q", last.Summary)
	}
}

func TestBuildLeaderboardDoesNotMutateInput(t *testing.T) {
	results := []models.TeamResult{
		{TeamName: "low", Score: 10},
		{TeamName: "high", Score: 90},
	}

	BuildLeaderboard(results)

	if results[0].TeamName != "low" {
		t.Errorf("Input slice order must be preserved, got %+v", results)
	}
}

func TestLeaderboardCSV(t *testing.T) {
	entries := []models.LeaderboardEntry{
		{Rank: 1, TeamName: "bravo", Score: 90, Summary: "great, really"},
		{Rank: 2, TeamName: "alpha", Score: 55.5, Summary: "ok"},
	}

	data, err := LeaderboardCSV(entries)
	if err != nil {
		t.Fatalf("LeaderboardCSV failed: %v", err)
	}

	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines: %q", len(lines), out)
	}
	if lines[0] != "Rank,Team Name,Score,Summary" {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], `"great, really"`) {
		t.Errorf("Comma-bearing summary should be quoted, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "55.5") {
		t.Errorf("Fractional score should keep one decimal, got %q", lines[2])
	}
}

func TestCriteriaCSV(t *testing.T) {
	result := &models.EvaluationResult{
		Criteria: []models.Criterion{
			{Name: "Design", Score: 80, Reason: "clean"},
			{Name: "Innovation", Score: 65, Reason: "incremental"},
		},
	}

	data, err := CriteriaCSV(result)
	if err != nil {
		t.Fatalf("CriteriaCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(lines))
	}
	if lines[1] != "Design,80,clean" {
		t.Errorf("Unexpected first row: %q", lines[1])
	}
}
