package redis

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

func TestRedisSnapshotStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	host, port, containerInstance := initializeRedis(ctx, t)
	t.Cleanup(func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	var client *RedisClient
	var store snapshot.Store
	app := fxtest.New(t,
		FXModule,
		fx.Supply(Config{Host: host, Port: port, KeyPrefix: "billing:", TTL: time.Hour}),
		fx.Populate(&client, &store),
	)
	app.RequireStart()
	defer app.RequireStop()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Load(ctx, "absent.json")
		assert.ErrorIs(t, err, snapshot.ErrNotFound)
	})

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, snapshot.DefaultKey, []byte(`{"users":{}}`)))

		data, err := store.Load(ctx, snapshot.DefaultKey)
		require.NoError(t, err)
		assert.JSONEq(t, `{"users":{}}`, string(data))

		ttl, err := client.client.TTL(ctx, "billing:"+snapshot.DefaultKey).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 59*time.Minute)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, client.Delete(ctx, snapshot.DefaultKey))
		_, err := store.Load(ctx, snapshot.DefaultKey)
		assert.ErrorIs(t, err, snapshot.ErrNotFound)
	})
}

func getFreePort() (string, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return "", err
	}
	defer l.Close()
	return fmt.Sprintf("%d", l.Addr().(*net.TCPAddr).Port), nil
}

func initializeRedis(ctx context.Context, t *testing.T) (string, int, testcontainers.Container) {
	hostPort, err := getFreePort()
	require.NoError(t, err)

	containerInstance, err := createRedisContainer(ctx, hostPort)
	require.NoError(t, err)

	port, err := containerInstance.MappedPort(ctx, "6379")
	require.NoError(t, err)

	host, err := containerInstance.Host(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port.Port()), 2*time.Second)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 30*time.Second, 500*time.Millisecond, "Redis port not ready")

	return host, port.Int(), containerInstance
}

func createRedisContainer(ctx context.Context, hostPort string) (testcontainers.Container, error) {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = nat.PortMap{
				"6379/tcp": []nat.PortBinding{{HostPort: hostPort}},
			}
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("6379/tcp").WithStartupTimeout(30*time.Second),
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err == nil {
			return c, nil
		}
		lastErr = err
		if strings.Contains(err.Error(), "docker.sock") {
			time.Sleep(time.Duration(attempt+1) * time.Second)
			continue
		}
		break
	}
	return nil, fmt.Errorf("failed to start redis container: %w", lastErr)
}
