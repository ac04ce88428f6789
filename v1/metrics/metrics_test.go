package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/sqlshim/v1/database"
	"github.com/Aleph-Alpha/sqlshim/v1/observability"
)

func TestObserveOperationCountsByStatus(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})

	m.ObserveOperation(observability.OperationContext{
		Component: "database", Operation: "execute", SubResource: "insert",
		Duration: 20 * time.Millisecond, Size: 1,
	})
	m.ObserveOperation(observability.OperationContext{
		Component: "database", Operation: "execute", SubResource: "query",
		Duration: 5 * time.Millisecond, Size: 12,
	})
	m.ObserveOperation(observability.OperationContext{
		Component: "database", Operation: "execute", SubResource: "query",
		Error: errors.New("boom"),
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("database", "execute_insert", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("database", "execute_query", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("database", "execute_query", StatusError)))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.operationSize.WithLabelValues("database", "execute_query")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.operationDuration))
}

func TestObserveOperationCountsErrorRecords(t *testing.T) {
	m := NewMetrics(Config{})

	m.ObserveOperation(observability.OperationContext{
		Component: "database",
		Operation: "connect",
		Error: database.Errors{
			{Kind: database.KindConnect, SQLState: "28000", Code: 18456, Message: "Login failed"},
		},
	})
	m.ObserveOperation(observability.OperationContext{
		Component: "database",
		Operation: "execute",
		Error: database.Errors{
			{Kind: database.KindStatement, SQLState: "23000", Message: "duplicate"},
			{Kind: database.KindStatement, SQLState: "23000", Message: "statement terminated"},
		},
	})
	m.ObserveOperation(observability.OperationContext{
		Component: "database",
		Operation: "execute",
		Error: database.Errors{
			{Kind: database.KindStatement, Code: 208, Severity: 16, Message: "Invalid object name"},
		},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.statementErrors.WithLabelValues("connect", "28000", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.statementErrors.WithLabelValues("statement", "23000", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statementErrors.WithLabelValues("statement", "", "16")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("database", "connect", StatusError)))
}

func TestSnapshotOperationsKeepTheirName(t *testing.T) {
	m := NewMetrics(Config{})

	m.ObserveOperation(observability.OperationContext{Component: "redis", Operation: "put", SubResource: "db-schema.json", Size: 512})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("redis", "put", StatusSuccess)))
	assert.Equal(t, 512.0, testutil.ToFloat64(m.operationSize.WithLabelValues("redis", "put")))
}

func TestRegistryAppliesNamespaceAndServiceLabel(t *testing.T) {
	m := NewMetrics(Config{Namespace: "billing", ServiceName: "invoice-api"})
	m.IncrementOperations("snapshot", "load", StatusSuccess)
	m.RecordOperationDuration(time.Now(), "snapshot", "load")

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if f.GetName() != "billing_sqlshim_operations_total" {
			continue
		}
		found = true
		require.Len(t, f.GetMetric(), 1)
		labels := map[string]string{}
		for _, l := range f.GetMetric()[0].GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		assert.Equal(t, "invoice-api", labels["service"])
		assert.Equal(t, "snapshot", labels["component"])
	}
	assert.True(t, found)
}

func TestCustomMetricsShareTheRegistry(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})

	pool := m.CreateGauge("pool_connections", "Open connections", []string{"state"})
	pool.WithLabelValues("idle").Set(3)
	m.CreateCounter("retries_total", "Retries", []string{"reason"}).WithLabelValues("deadlock").Inc()
	m.CreateHistogram("row_width_bytes", "Row width", nil, []float64{64, 256}).WithLabelValues().Observe(100)

	count, err := testutil.GatherAndCount(m.Registry,
		"sqlshim_pool_connections", "sqlshim_retries_total", "sqlshim_row_width_bytes")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNewMetricsDefaultsAddress(t *testing.T) {
	assert.Equal(t, DefaultMetricsAddress, NewMetrics(Config{}).Server.Addr)
	assert.Equal(t, ":9100", NewMetrics(Config{Address: ":9100", EnableDefaultCollectors: true}).Server.Addr)
}
