package controllers

import (
	"net/http"

	"evalhub/config"
	"evalhub/services"

	"github.com/gin-gonic/gin"
)

var cfg *config.Config

// Setup stores the configuration loaded at startup for handler use.
func Setup(c *config.Config) {
	cfg = c
}

type ChatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	ApiKey string `json:"apiKey"`
}

// Chat performs a single prompt/response round trip against the configured
// model endpoint and returns the raw reply text.
func Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	client := services.NewChatClient(cfg, req.ApiKey)
	if !client.HasKey() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide an API key to start"})
		return
	}

	reply, err := client.Chat(c.Request.Context(), req.Prompt)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
