package websocket

import (
	"log"
	"net/http"
	"sync"

	"evalhub/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// In production, adjust the CheckOrigin function to allow only trusted origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Run holds the subscribers of one batch evaluation run.
type Run struct {
	Clients map[*websocket.Conn]bool
	Mutex   sync.Mutex
}

var runs = make(map[string]*Run)
var runsMutex sync.Mutex

func getOrCreateRun(runID string) *Run {
	runsMutex.Lock()
	defer runsMutex.Unlock()
	run, ok := runs[runID]
	if !ok {
		run = &Run{Clients: make(map[*websocket.Conn]bool)}
		runs[runID] = run
	}
	return run
}

// ProgressHandler upgrades the connection and subscribes it to a run's
// progress feed. Clients subscribe with the runId they intend to pass to the
// batch endpoint, usually before starting the run.
func ProgressHandler(c *gin.Context) {
	runID := c.Query("runId")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "runId query parameter is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade progress connection: %v", err)
		return
	}

	run := getOrCreateRun(runID)
	run.Mutex.Lock()
	run.Clients[conn] = true
	run.Mutex.Unlock()

	// Drain the connection until the client hangs up.
	go func() {
		defer func() {
			run.Mutex.Lock()
			delete(run.Clients, conn)
			run.Mutex.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// PublishProgress broadcasts one event to every subscriber of the run. Slow
// or dead subscribers are dropped; publishing never blocks the batch loop.
func PublishProgress(runID string, ev models.ProgressEvent) {
	ev.RunID = runID

	runsMutex.Lock()
	run, ok := runs[runID]
	runsMutex.Unlock()
	if !ok {
		return
	}

	run.Mutex.Lock()
	defer run.Mutex.Unlock()
	for conn := range run.Clients {
		if err := conn.WriteJSON(ev); err != nil {
			conn.Close()
			delete(run.Clients, conn)
		}
	}
}

// CloseRun drops all subscribers of a finished run.
func CloseRun(runID string) {
	runsMutex.Lock()
	run, ok := runs[runID]
	delete(runs, runID)
	runsMutex.Unlock()
	if !ok {
		return
	}

	run.Mutex.Lock()
	defer run.Mutex.Unlock()
	for conn := range run.Clients {
		conn.Close()
	}
	run.Clients = make(map[*websocket.Conn]bool)
}
