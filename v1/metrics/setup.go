package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Subsystem prefixes every built-in metric name.
const Subsystem = "sqlshim"

// Metrics encapsulates the Prometheus registry and HTTP server responsible
// for exposing sqlshim metrics.
type Metrics struct {
	// Server defines the HTTP server used to expose the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	// Each service maintains its own isolated registry to prevent metric name collisions.
	Registry *prometheus.Registry

	namespace  string
	registerer prometheus.Registerer

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationSize     *prometheus.CounterVec
	statementErrors   *prometheus.CounterVec
}

// NewMetrics initializes and returns a new instance of the Metrics struct.
// It sets up a dedicated Prometheus registry, wraps every metric with a constant
// `service` label, registers the operation metrics fed by ObserveOperation and
// creates an HTTP server exposing the /metrics endpoint.
//
// The built-in metrics are:
//   - sqlshim_operations_total{component, operation, status}
//   - sqlshim_operation_duration_seconds{component, operation}
//   - sqlshim_operation_size_total{component, operation}: rows or bytes
//   - sqlshim_statement_errors_total{kind, sql_state, severity}: one per recorded
//     database error. SQL Server reports no SQLSTATE; its errors carry the severity
//     class instead, other servers leave severity empty.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "billing"})
//	db, _ := database.Open(ctx, cfg, database.WithObserver(m))
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	// All metrics emitted by this service carry service="<cfg.ServiceName>".
	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry:   registry,
		namespace:  cfg.Namespace,
		registerer: wrappedRegistry,
	}

	m.operationsTotal = createCounterVec(cfg.Namespace, "operations_total",
		"Total number of completed operations", []string{"component", "operation", "status"})
	m.operationDuration = createHistogramVec(cfg.Namespace, "operation_duration_seconds",
		"Duration of operations in seconds", []string{"component", "operation"}, prometheus.DefBuckets)
	m.operationSize = createCounterVec(cfg.Namespace, "operation_size_total",
		"Rows returned or affected, or bytes transferred, by operations", []string{"component", "operation"})
	m.statementErrors = createCounterVec(cfg.Namespace, "statement_errors_total",
		"Database errors recorded per request cycle", []string{"kind", "sql_state", "severity"})

	wrappedRegistry.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.operationSize,
		m.statementErrors,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	address := cfg.Address
	if address == "" {
		address = DefaultMetricsAddress
	}
	m.Server = &http.Server{
		Addr:    address,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	return m
}
