package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/sqlshim/v1/observability"
)

// TestObserver records every operation it receives.
type TestObserver struct {
	mu         sync.Mutex
	operations []observability.OperationContext
}

func (t *TestObserver) ObserveOperation(ctx observability.OperationContext) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.operations = append(t.operations, ctx)
}

func (t *TestObserver) GetOperations() []observability.OperationContext {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]observability.OperationContext, len(t.operations))
	copy(out, t.operations)
	return out
}

func TestObserveOperationNilObserverNoPanic(t *testing.T) {
	r := &RedisClient{}
	r.observeOperation("get", "test-key", "", 10*time.Millisecond, nil, 0, nil)
}

func TestObserveOperationCallsObserver(t *testing.T) {
	obs := &TestObserver{}
	r := (&RedisClient{}).WithObserver(obs)

	r.observeOperation("set", "sqlshim:schema:db-schema.json", "", 10*time.Millisecond, nil, 100, map[string]interface{}{"ttl": "1h0m0s"})

	ops := obs.GetOperations()
	require.Len(t, ops, 1)
	assert.Equal(t, "redis", ops[0].Component)
	assert.Equal(t, "set", ops[0].Operation)
	assert.Equal(t, "sqlshim:schema:db-schema.json", ops[0].Resource)
	assert.Equal(t, int64(100), ops[0].Size)
	assert.Equal(t, "1h0m0s", ops[0].Metadata["ttl"])
}

func TestClosedClientReportsErrClosed(t *testing.T) {
	obs := &TestObserver{}
	r := newWithClient(redis.NewClient(&redis.Options{Addr: "localhost:0"}), Config{}).WithObserver(obs)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err := r.Load(context.Background(), "db-schema.json")
	assert.ErrorIs(t, err, ErrClosed)
	assert.True(t, IsClosedError(r.Save(context.Background(), "db-schema.json", []byte("{}"))))
	assert.ErrorIs(t, r.Ping(context.Background()), ErrClosed)

	ops := obs.GetOperations()
	require.Len(t, ops, 2)
	assert.Equal(t, DefaultKeyPrefix+"db-schema.json", ops[0].Resource)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultKeyPrefix, cfg.KeyPrefix)
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)

	cfg = Config{KeyPrefix: "billing:", Port: 6380}.withDefaults()
	assert.Equal(t, "billing:", cfg.KeyPrefix)
	assert.Equal(t, 6380, cfg.Port)
}

func TestCreateTLSConfig(t *testing.T) {
	cfg, err := createTLSConfig(TLSConfig{Enabled: true}, "cache.internal")
	require.NoError(t, err)
	assert.Equal(t, "cache.internal", cfg.ServerName)

	cfg, err = createTLSConfig(TLSConfig{Enabled: true, ServerName: "redis.example", InsecureSkipVerify: true}, "cache.internal")
	require.NoError(t, err)
	assert.Equal(t, "redis.example", cfg.ServerName)
	assert.True(t, cfg.InsecureSkipVerify)

	_, err = createTLSConfig(TLSConfig{CACertPath: "/does/not/exist.pem"}, "")
	assert.Error(t, err)
}
