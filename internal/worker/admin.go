package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/antigravity-labs/antigravity-router/internal/engine"
	"github.com/antigravity-labs/antigravity-router/internal/gateway"
)

// AdminServer provides HTTP health checks and a synchronous routing
// endpoint.
type AdminServer struct {
	port        int
	redisClient *redis.Client
	engine      *engine.Engine
	gateway     *gateway.Gateway
	logger      *zap.Logger
	server      *http.Server
}

// NewAdminServer creates a new admin server. The gateway may be nil; /route
// then only ever returns decisions.
func NewAdminServer(port int, redisClient *redis.Client, eng *engine.Engine, gw *gateway.Gateway, logger *zap.Logger) *AdminServer {
	return &AdminServer{
		port:        port,
		redisClient: redisClient,
		engine:      eng,
		gateway:     gw,
		logger:      logger,
	}
}

// Start starts the admin server
func (as *AdminServer) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", as.handleHealth)
	mux.HandleFunc("/ready", as.handleReady)
	mux.HandleFunc("/route", as.handleRoute)

	as.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", as.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	as.logger.Info("starting admin server", zap.Int("port", as.port))

	go func() {
		if err := as.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			as.logger.Error("admin server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the admin server
func (as *AdminServer) Stop() error {
	if as.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	as.logger.Info("stopping admin server")
	return as.server.Shutdown(ctx)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleHealth handles the /health endpoint
func (as *AdminServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string)

	// Check Redis connection
	if err := as.redisClient.Ping(ctx).Err(); err != nil {
		checks["redis"] = fmt.Sprintf("unhealthy: %v", err)
		as.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unhealthy",
			Checks: checks,
		})
		return
	}
	checks["redis"] = "healthy"

	// All checks passed
	as.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Checks: checks,
	})
}

// handleReady handles the /ready endpoint
func (as *AdminServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// Check if Redis is ready
	if err := as.redisClient.Ping(ctx).Err(); err != nil {
		as.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "not ready",
		})
		return
	}

	as.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ready",
	})
}

// handleRoute handles POST /route: decide synchronously, and execute the
// decision when ?execute=true. Malformed bodies are a client error and never
// reach the engine.
func (as *AdminServer) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	requestID := uuid.NewString()
	decision := as.engine.Decide(req)

	execute := r.URL.Query().Get("execute") == "true"
	if execute && as.gateway != nil {
		exec, err := as.gateway.Execute(r.Context(), decision, req)
		if err != nil {
			as.logger.Error("execution failed",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			http.Error(w, "execution failed", http.StatusBadGateway)
			return
		}
		as.respondJSON(w, http.StatusOK, RouteResult{
			RequestID: requestID,
			Decision:  decision,
			Execution: exec,
			Timestamp: time.Now().UTC(),
		})
		return
	}

	as.respondJSON(w, http.StatusOK, RouteResult{
		RequestID: requestID,
		Decision:  decision,
		Timestamp: time.Now().UTC(),
	})
}

// respondJSON writes a JSON response
func (as *AdminServer) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		as.logger.Error("failed to encode response", zap.Error(err))
	}
}
