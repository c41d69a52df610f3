// Package httpserver runs the session service's HTTP listener with graceful
// shutdown.
//
// Run blocks until its context is cancelled, SIGINT/SIGTERM arrives or
// Shutdown is called. Shutdown drains in-flight requests, so every session
// interceptor gets to persist its session, then runs the registered shutdown
// hooks (closing store clients, for example) within the shutdown timeout.
//
//	srv := httpserver.NewFromConfig(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithShutdownHook(func(ctx context.Context) error {
//	        return client.Disconnect(ctx)
//	    }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler implement the /health endpoints;
// readiness runs named Check probes such as mongo.Healthcheck.
package httpserver
