package routes

import (
	"evalhub/controllers"
	"evalhub/websocket"

	"github.com/gin-gonic/gin"
)

// SetupEvaluationRoutes registers the evaluation workflow endpoints.
func SetupEvaluationRoutes(router *gin.Engine) {
	router.POST("/chat", controllers.Chat)

	router.POST("/evaluate", controllers.Evaluate)
	router.POST("/evaluate/batch", controllers.EvaluateBatch)
	router.GET("/ws/progress", websocket.ProgressHandler)

	router.POST("/export/report", controllers.ExportReport)
	router.POST("/export/leaderboard", controllers.ExportLeaderboard)
	router.POST("/export/criteria", controllers.ExportCriteria)

	router.POST("/rag/summarize", controllers.SummarizePDF)
}
