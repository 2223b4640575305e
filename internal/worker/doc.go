// Package worker implements the router worker lifecycle and Redis Streams
// integration.
//
// The worker subscribes to a Redis Stream of route requests, runs the
// decision engine (and optionally the execution gateway), and publishes
// decisions back on the result stream.
//
// Example usage:
//
//	cfg, _ := config.Load()
//	redisClient := redis.NewClient(&redis.Options{...})
//	eng := engine.New(model, logger)
//
//	w := worker.NewWorker(cfg, redisClient, eng, gw, logger)
//	if err := w.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// The worker handles:
//   - Redis Streams subscription and consumer group management
//   - Route request processing
//   - Decision publishing
//   - Error handling and reporting
//   - Graceful shutdown
//
// An admin HTTP server provides health checks and a synchronous routing
// endpoint:
//
//	admin := worker.NewAdminServer(8082, redisClient, eng, gw, logger)
//	admin.Start()
//	defer admin.Stop()
package worker
