package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"evalhub/models"
	"evalhub/services"

	"github.com/gin-gonic/gin"
)

// ExportReport re-serializes an evaluation result (or array of results)
// posted back by the client into a downloadable indented JSON file.
func ExportReport(c *gin.Context) {
	var payload interface{}
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body: " + err.Error()})
		return
	}

	report, err := services.ReportJSON(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report: " + err.Error()})
		return
	}
	sendAttachment(c, "evaluation_report.json", "application/json", report)
}

type ExportLeaderboardRequest struct {
	Results []models.TeamResult `json:"results" binding:"required"`
}

// ExportLeaderboard renders the ranked summary table as a CSV attachment.
func ExportLeaderboard(c *gin.Context) {
	var req ExportLeaderboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	data, err := services.LeaderboardCSV(services.BuildLeaderboard(req.Results))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render leaderboard: " + err.Error()})
		return
	}
	sendAttachment(c, "leaderboard_summary.csv", "text/csv", data)
}

type ExportCriteriaRequest struct {
	TeamName string                   `json:"teamName" binding:"required"`
	Details  *models.EvaluationResult `json:"details" binding:"required"`
}

// ExportCriteria renders one team's per-criterion detail as a CSV attachment.
func ExportCriteria(c *gin.Context) {
	var req ExportCriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	data, err := services.CriteriaCSV(req.Details)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render criteria table: " + err.Error()})
		return
	}
	name := strings.ReplaceAll(req.TeamName, "/", "_")
	sendAttachment(c, fmt.Sprintf("%s_evaluation.csv", name), "text/csv", data)
}

func sendAttachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
