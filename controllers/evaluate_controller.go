package controllers

import (
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"evalhub/models"
	"evalhub/services"
	"evalhub/utils"
	"evalhub/websocket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Evaluate scores one uploaded submission archive against the supplied
// rubric.
func Evaluate(c *gin.Context) {
	rubric := c.PostForm("rubric")
	if rubric == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please paste a scoring rubric to start evaluation"})
		return
	}

	fileHeader, err := c.FormFile("archive")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload a ZIP containing the submission files"})
		return
	}

	evaluator := services.NewEvaluator(cfg, c.PostForm("apiKey"))
	if !evaluator.Client().HasKey() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide an API key to start evaluation"})
		return
	}

	zipPath, cleanup, err := saveUpload(c, fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload: " + err.Error()})
		return
	}
	defer cleanup()

	teamName := utils.TeamNameFromArchive(fileHeader.Filename)
	_, text, err := evaluator.ExtractSubmission(zipPath, teamName)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to extract submission: " + err.Error()})
		return
	}

	reply, err := evaluator.EvaluateText(c.Request.Context(), rubric, text)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{
		"teamName": teamName,
		"preview":  evaluator.Preview(text),
		"parsed":   reply.Parsed(),
	}
	if reply.Parsed() {
		response["result"] = reply.Result
	} else {
		// Model output was not pure JSON; surface the raw reply instead.
		response["raw"] = reply.Raw
	}
	c.JSON(http.StatusOK, response)
}

// EvaluateBatch scores several uploaded archives sequentially and returns
// the ranked leaderboard. Progress events are published to the run's
// websocket subscribers; clients that want live progress pass their own
// runId and subscribe to /ws/progress first.
func EvaluateBatch(c *gin.Context) {
	rubric := c.PostForm("rubric")
	if rubric == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please paste a scoring rubric to start evaluation"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form: " + err.Error()})
		return
	}
	uploads := form.File["archives"]
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload one or more ZIP files, one per team"})
		return
	}

	evaluator := services.NewEvaluator(cfg, c.PostForm("apiKey"))
	if !evaluator.Client().HasKey() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide an API key to start evaluation"})
		return
	}

	runID := c.PostForm("runId")
	if runID == "" {
		runID = uuid.NewString()
	}

	archives := make([]services.Archive, 0, len(uploads))
	cleanups := make([]func(), 0, len(uploads))
	defer func() {
		for _, fn := range cleanups {
			fn()
		}
	}()
	for _, fh := range uploads {
		zipPath, cleanup, err := saveUpload(c, fh)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload: " + err.Error()})
			return
		}
		cleanups = append(cleanups, cleanup)
		archives = append(archives, services.Archive{
			TeamName: utils.TeamNameFromArchive(fh.Filename),
			ZipPath:  zipPath,
		})
	}

	results, invalid := evaluator.EvaluateBatch(c.Request.Context(), rubric, archives, func(ev models.ProgressEvent) {
		websocket.PublishProgress(runID, ev)
	})
	websocket.CloseRun(runID)

	c.JSON(http.StatusOK, gin.H{
		"runId":       runID,
		"leaderboard": services.BuildLeaderboard(results),
		"results":     results,
		"invalid":     invalid,
	})
}

// saveUpload copies a multipart upload to a private temp directory and
// returns the path plus a cleanup func releasing it.
func saveUpload(c *gin.Context, fh *multipart.FileHeader) (string, func(), error) {
	dir, err := os.MkdirTemp("", "evalhub-upload-")
	if err != nil {
		return "", nil, err
	}
	dst := filepath.Join(dir, filepath.Base(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		os.RemoveAll(dir)
		return "", nil, err
	}
	return dst, func() { os.RemoveAll(dir) }, nil
}
