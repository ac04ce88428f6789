package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/sqlshim/v1/database"
	"github.com/Aleph-Alpha/sqlshim/v1/observability"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ObserveOperation records op. It makes *Metrics an observability.Observer, so
// it can be passed to database.WithObserver and the snapshot store backends.
func (m *Metrics) ObserveOperation(op observability.OperationContext) {
	operation := op.Operation
	if op.SubResource != "" && op.Component == "database" {
		// execute is split by statement kind: query, insert, update, delete.
		operation = op.Operation + "_" + op.SubResource
	}

	status := StatusSuccess
	if op.Error != nil {
		status = StatusError
	}
	m.operationsTotal.WithLabelValues(op.Component, operation, status).Inc()
	m.operationDuration.WithLabelValues(op.Component, operation).Observe(op.Duration.Seconds())
	if op.Size > 0 {
		m.operationSize.WithLabelValues(op.Component, operation).Add(float64(op.Size))
	}

	var recs database.Errors
	if errors.As(op.Error, &recs) {
		for _, r := range recs {
			m.statementErrors.WithLabelValues(r.Kind.String(), r.SQLState, severityLabel(r.Severity)).Inc()
		}
	}
}

// severityLabel is empty for drivers that report no severity class.
func severityLabel(severity int) string {
	if severity == 0 {
		return ""
	}
	return strconv.Itoa(severity)
}

// IncrementOperations increments the operation counter.
// Example: metrics.IncrementOperations("snapshot", "load", metrics.StatusSuccess)
func (m *Metrics) IncrementOperations(component, operation, status string) {
	m.operationsTotal.WithLabelValues(component, operation, status).Inc()
}

// RecordOperationDuration records the time elapsed since start.
// Example: defer metrics.RecordOperationDuration(time.Now(), "snapshot", "save")
func (m *Metrics) RecordOperationDuration(start time.Time, component, operation string) {
	m.operationDuration.WithLabelValues(component, operation).Observe(time.Since(start).Seconds())
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(m.namespace, name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: Subsystem,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: Subsystem,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

func createGaugeVec(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: Subsystem,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}
