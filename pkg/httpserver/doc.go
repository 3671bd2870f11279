// Package httpserver runs the API listener and reports backend health.
//
// Server.Run serves until its context is cancelled, drains in-flight
// requests within Config.ShutdownTimeout and then runs the OnShutdown hooks.
// Signal handling belongs to the caller, typically via signal.NotifyContext.
//
// HealthCheckHandler pings each configured backend and renders a flat JSON
// report. Backends registered without a ping function are reported as
// "not configured" and never degrade the overall status.
//
// # Usage
//
//	r.Get("/health", httpserver.HealthCheckHandler(log, 2*time.Second,
//		httpserver.Check{Name: "database", Ping: pool.Ping},
//		httpserver.Check{Name: "openai"},
//	))
//
//	srv := httpserver.New(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.OnShutdown(func(ctx context.Context) { runner.Wait(ctx) }),
//	)
//	err := srv.Run(ctx, r)
//
// Run wraps listen errors with ErrStart and drain errors with ErrShutdown.
package httpserver
