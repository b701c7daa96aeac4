package health

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/dalemusser/hearmeout/internal/app/system/apiresp"
	"github.com/dalemusser/hearmeout/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client  *mongo.Client
	DBName  string
	Env     string
	Started time.Time
	Log     *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, dbName, env string, logger *zap.Logger) *Handler {
	return &Handler{
		Client:  client,
		DBName:  dbName,
		Env:     env,
		Started: time.Now(),
		Log:     logger,
	}
}

type basicStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type databaseStatus struct {
	Status string `json:"status"`
	Name   string `json:"name"`
	Error  string `json:"error,omitempty"`
}

type memoryStatus struct {
	HeapUsed  string `json:"heapUsed"`
	HeapTotal string `json:"heapTotal"`
}

type servicesStatus struct {
	Database databaseStatus `json:"database"`
}

type detailedStatus struct {
	Status      string         `json:"status"`
	Uptime      float64        `json:"uptime"`
	Timestamp   string         `json:"timestamp"`
	Environment string         `json:"environment"`
	Services    servicesStatus `json:"services"`
	Memory      memoryStatus   `json:"memory"`
}

// Serve handles GET /api/health. It never touches the database.
//
//	{ "success":true, "data":{"status":"ok","timestamp":"2024-01-01T00:00:00Z"} }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	apiresp.OK(w, basicStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ServeDetailed handles GET /api/health/detailed.
//
// On DB failure: 503 with data.status "error" and the database marked
// disconnected.
func (h *Handler) ServeDetailed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	var resp detailedStatus
	resp.Status = "ok"
	resp.Uptime = time.Since(h.Started).Seconds()
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	resp.Environment = h.Env
	resp.Services.Database = databaseStatus{Status: "connected", Name: h.DBName}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	resp.Memory = memoryStatus{
		HeapUsed:  fmt.Sprintf("%d MB", ms.HeapAlloc/1024/1024),
		HeapTotal: fmt.Sprintf("%d MB", ms.HeapSys/1024/1024),
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Services.Database.Status = "disconnected"
		resp.Services.Database.Error = "Database unavailable"
		apiresp.JSON(w, http.StatusServiceUnavailable, apiresp.Envelope{
			Success: false,
			Data:    resp,
			Error:   "Database unavailable",
		})
		return
	}

	apiresp.OK(w, resp)
}
