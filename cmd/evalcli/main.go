package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"evalhub/config"
	"evalhub/models"
	"evalhub/services"
	"evalhub/utils"

	"github.com/olekukonko/tablewriter"
)

// evalcli evaluates local submission archives without the web UI:
//
//	evalcli -config config/config.yml -rubric rubric.txt team_a.zip team_b.zip
func main() {
	configPath := flag.String("config", "./config/config.yml", "path to the yaml config")
	rubricPath := flag.String("rubric", "", "path to a file holding the scoring rubric")
	apiKey := flag.String("key", "", "API key override for the model endpoint")
	outDir := flag.String("out", ".", "directory for report files")
	flag.Parse()

	zips := flag.Args()
	if *rubricPath == "" || len(zips) == 0 {
		fmt.Fprintln(os.Stderr, "usage: evalcli -rubric rubric.txt [-config path] [-key key] [-out dir] submission.zip ...")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	rubricData, err := os.ReadFile(*rubricPath)
	if err != nil {
		log.Fatalf("Failed to read rubric: %v", err)
	}
	rubric := strings.TrimSpace(string(rubricData))

	evaluator := services.NewEvaluator(cfg, *apiKey)
	if !evaluator.Client().HasKey() {
		log.Fatalf("No API key configured; pass -key or set genai.apiKey")
	}

	archives := make([]services.Archive, 0, len(zips))
	for _, z := range zips {
		archives = append(archives, services.Archive{
			TeamName: utils.TeamNameFromArchive(z),
			ZipPath:  z,
		})
	}

	results, invalid := evaluator.EvaluateBatch(context.Background(), rubric, archives, nil)
	for _, inv := range invalid {
		log.Printf("Invalid submission %s: %s", inv.TeamName, inv.Summary)
	}

	entries := services.BuildLeaderboard(results)
	renderLeaderboard(entries)

	if err := writeReports(*outDir, results, entries); err != nil {
		log.Fatalf("Failed to write reports: %v", err)
	}
}

func renderLeaderboard(entries []models.LeaderboardEntry) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Team", "Score", "Summary"})
	for _, e := range entries {
		table.Append([]string{
			fmt.Sprintf("%d", e.Rank),
			e.TeamName,
			fmt.Sprintf("%.1f", e.Score),
			e.Summary,
		})
	}
	table.Render()
}

func writeReports(dir string, results []models.TeamResult, entries []models.LeaderboardEntry) error {
	report, err := services.ReportJSON(results)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "evaluation_report.json"), report, 0o644); err != nil {
		return err
	}

	summary, err := services.LeaderboardCSV(entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "leaderboard_summary.csv"), summary, 0o644); err != nil {
		return err
	}

	for _, r := range results {
		if r.Details == nil {
			continue
		}
		data, err := services.CriteriaCSV(r.Details)
		if err != nil {
			return err
		}
		name := strings.ReplaceAll(r.TeamName, "/", "_") + "_evaluation.csv"
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
