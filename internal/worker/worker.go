package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/antigravity-labs/antigravity-router/internal/config"
	"github.com/antigravity-labs/antigravity-router/internal/engine"
	"github.com/antigravity-labs/antigravity-router/internal/gateway"
)

// Worker consumes route requests from a Redis Stream and publishes
// decisions.
type Worker struct {
	id            string
	config        *config.Config
	redisClient   *redis.Client
	engine        *engine.Engine
	gateway       *gateway.Gateway
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	streamKey     string
	consumerGroup string
	resultStream  string
}

// NewWorker creates a new worker. The gateway may be nil for decide-only
// deployments.
func NewWorker(
	cfg *config.Config,
	redisClient *redis.Client,
	eng *engine.Engine,
	gw *gateway.Gateway,
	logger *zap.Logger,
) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		id:            cfg.WorkerID,
		config:        cfg,
		redisClient:   redisClient,
		engine:        eng,
		gateway:       gw,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		streamKey:     cfg.StreamKey,
		consumerGroup: cfg.ConsumerGroup,
		resultStream:  cfg.ResultStream,
	}
}

// Start starts the worker
func (w *Worker) Start() error {
	w.logger.Info("starting router worker",
		zap.String("worker_id", w.id),
		zap.String("stream_key", w.streamKey),
		zap.String("consumer_group", w.consumerGroup),
	)

	// Create consumer group if it doesn't exist
	if err := w.ensureConsumerGroup(); err != nil {
		return fmt.Errorf("failed to ensure consumer group: %w", err)
	}

	// Start processing work
	go w.processWork()

	w.logger.Info("router worker started", zap.String("worker_id", w.id))
	return nil
}

// Stop stops the worker gracefully
func (w *Worker) Stop() error {
	w.logger.Info("stopping router worker", zap.String("worker_id", w.id))

	// Cancel context to stop work processing
	w.cancel()

	// Wait a bit for in-flight work to complete
	time.Sleep(2 * time.Second)

	w.logger.Info("router worker stopped", zap.String("worker_id", w.id))
	return nil
}

// ensureConsumerGroup creates the consumer group if it doesn't exist
func (w *Worker) ensureConsumerGroup() error {
	err := w.redisClient.XGroupCreateMkStream(w.ctx, w.streamKey, w.consumerGroup, "0").Err()
	if err != nil {
		// BUSYGROUP error means the group already exists, which is fine
		if err.Error() == "BUSYGROUP Consumer Group name already exists" {
			w.logger.Debug("consumer group already exists",
				zap.String("group", w.consumerGroup),
			)
			return nil
		}
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	w.logger.Info("created consumer group",
		zap.String("group", w.consumerGroup),
		zap.String("stream", w.streamKey),
	)
	return nil
}

// processWork processes route requests from the Redis stream
func (w *Worker) processWork() {
	w.logger.Info("starting work processing loop")

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info("work processing loop stopped")
			return
		default:
			// Read from stream
			streams, err := w.redisClient.XReadGroup(w.ctx, &redis.XReadGroupArgs{
				Group:    w.consumerGroup,
				Consumer: w.id,
				Streams:  []string{w.streamKey, ">"},
				Count:    1,
				Block:    w.config.BlockTime,
			}).Result()

			if err != nil {
				if err == redis.Nil {
					// No messages available, continue
					continue
				}
				w.logger.Error("failed to read from stream",
					zap.Error(err),
				)
				time.Sleep(time.Second)
				continue
			}

			// Process each message
			for _, stream := range streams {
				for _, message := range stream.Messages {
					w.handleMessage(message)
				}
			}
		}
	}
}

// RouteRequest is one routing work item read from the stream.
type RouteRequest struct {
	RequestID string         `json:"request_id"`
	Request   engine.Request `json:"request"`

	// Execute asks the worker to also run the gateway and attach the
	// execution result to the published decision.
	Execute bool `json:"execute"`
}

// RouteResult is the published outcome for one request.
type RouteResult struct {
	RequestID string             `json:"request_id"`
	WorkerID  string             `json:"worker_id"`
	Decision  engine.Decision    `json:"decision"`
	Execution *gateway.Execution `json:"execution,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// handleMessage handles a single route request message
func (w *Worker) handleMessage(message redis.XMessage) {
	messageID := message.ID
	w.logger.Info("processing route request",
		zap.String("message_id", messageID),
	)

	routeReq, err := parseRouteRequest(message.Values)
	if err != nil {
		w.logger.Error("failed to parse route request",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		w.acknowledgeMessage(messageID)
		return
	}

	if err := w.processRouteRequest(routeReq); err != nil {
		w.logger.Error("failed to process route request",
			zap.String("message_id", messageID),
			zap.String("request_id", routeReq.RequestID),
			zap.Error(err),
		)
		w.publishError(routeReq, err)
	}

	// Acknowledge the message
	w.acknowledgeMessage(messageID)
}

// parseRouteRequest parses a route request from a Redis message. Requests
// without an id get one minted here.
func parseRouteRequest(values map[string]interface{}) (*RouteRequest, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var request RouteRequest
	if err := json.Unmarshal([]byte(dataStr), &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route request: %w", err)
	}

	if request.RequestID == "" {
		request.RequestID = uuid.NewString()
	}

	return &request, nil
}

// processRouteRequest runs the engine (and gateway when asked) and publishes
// the result.
func (w *Worker) processRouteRequest(routeReq *RouteRequest) error {
	decision := w.engine.Decide(routeReq.Request)

	result := &RouteResult{
		RequestID: routeReq.RequestID,
		WorkerID:  w.id,
		Decision:  decision,
		Timestamp: time.Now().UTC(),
	}

	if routeReq.Execute && w.config.ExecuteDecisions && w.gateway != nil {
		exec, err := w.gateway.Execute(w.ctx, decision, routeReq.Request)
		if err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		result.Execution = exec
	}

	if err := w.publishResult(result); err != nil {
		return fmt.Errorf("failed to publish decision: %w", err)
	}

	return nil
}

// publishResult publishes the routing decision to the result stream
func (w *Worker) publishResult(result *RouteResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	_, err = w.redisClient.XAdd(w.ctx, &redis.XAddArgs{
		Stream: w.resultStream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	w.logger.Info("published routing decision",
		zap.String("request_id", result.RequestID),
		zap.String("route", string(result.Decision.Route)),
		zap.Bool("fallback_used", result.Decision.FallbackUsed),
	)

	return nil
}

// publishError publishes an error event
func (w *Worker) publishError(routeReq *RouteRequest, err error) {
	errorEvent := map[string]interface{}{
		"request_id": routeReq.RequestID,
		"worker_id":  w.id,
		"error":      err.Error(),
		"timestamp":  time.Now().UTC(),
	}

	data, marshalErr := json.Marshal(errorEvent)
	if marshalErr != nil {
		w.logger.Error("failed to marshal error event", zap.Error(marshalErr))
		return
	}

	// Publish error to a separate stream
	_, publishErr := w.redisClient.XAdd(w.ctx, &redis.XAddArgs{
		Stream: w.resultStream + ".errors",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if publishErr != nil {
		w.logger.Error("failed to publish error event", zap.Error(publishErr))
	}
}

// acknowledgeMessage acknowledges a message from the stream
func (w *Worker) acknowledgeMessage(messageID string) {
	err := w.redisClient.XAck(w.ctx, w.streamKey, w.consumerGroup, messageID).Err()
	if err != nil {
		w.logger.Error("failed to acknowledge message",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}
}
