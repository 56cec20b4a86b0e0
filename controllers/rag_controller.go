package controllers

import (
	"net/http"

	"evalhub/services"

	"github.com/gin-gonic/gin"
)

// SummarizePDF runs the retrieval-augmented summarizer over one uploaded PDF.
func SummarizePDF(c *gin.Context) {
	fileHeader, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload a PDF to summarize"})
		return
	}

	if client := services.NewChatClient(cfg, c.PostForm("apiKey")); !client.HasKey() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide an API key to begin"})
		return
	}
	summarizer := services.NewSummarizer(cfg, c.PostForm("apiKey"))

	pdfPath, cleanup, err := saveUpload(c, fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload: " + err.Error()})
		return
	}
	defer cleanup()

	summary, err := summarizer.SummarizePDF(c.Request.Context(), pdfPath)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
