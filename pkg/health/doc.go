// Package health provides HTTP handlers for liveness and readiness probes.
//
// [LivenessHandler] is an always-OK endpoint for process liveness.
// [ReadinessHandler] executes a set of named [Checks] in parallel and reports
// service readiness.
//
// Handlers respond with plain text by default for probe compatibility;
// clients get JSON by sending Accept: application/json or ?format=json.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
//	}, health.WithTimeout(3*time.Second), health.WithLogger(log)))
package health
