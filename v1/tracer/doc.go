// Package tracer wraps OpenTelemetry tracing for sqlshim components.
//
//	tr := tracer.NewClient(tracer.Config{ServiceName: "orders", AppEnv: "prod"}, log)
//	db, err := database.Open(ctx, cfg, database.WithTracer(tr))
package tracer
