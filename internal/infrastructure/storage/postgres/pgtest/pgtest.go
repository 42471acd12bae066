// Package pgtest поднимает временный PostgreSQL в Docker для интеграционных тестов.
package pgtest

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5"
)

const (
	// EnvEnable включает интеграционные тесты.
	EnvEnable = "CLUBMEMBERS_DOCKER_TESTS"

	postgresImage = "postgres:16-alpine"
	password      = "clubmembers"
	database      = "clubmembers"
)

var pgPort = nat.Port("5432/tcp")

// Start запускает контейнер и возвращает строку подключения.
// Тест пропускается, если EnvEnable не равен "1". Контейнер удаляется в t.Cleanup.
func Start(t *testing.T) string {
	t.Helper()

	if os.Getenv(EnvEnable) != "1" {
		t.Skipf("set %s=1 to run docker-backed tests", EnvEnable)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		t.Fatalf("docker client: %v", err)
	}
	t.Cleanup(func() { _ = cli.Close() })

	reader, err := cli.ImagePull(ctx, postgresImage, image.PullOptions{})
	if err != nil {
		t.Fatalf("pull %s: %v", postgresImage, err)
	}
	_, _ = io.Copy(io.Discard, reader)
	_ = reader.Close()

	created, err := cli.ContainerCreate(ctx,
		&container.Config{
			Image: postgresImage,
			Env: []string{
				"POSTGRES_PASSWORD=" + password,
				"POSTGRES_DB=" + database,
			},
			ExposedPorts: nat.PortSet{pgPort: struct{}{}},
		},
		&container.HostConfig{
			PortBindings: nat.PortMap{pgPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: "0"}}},
		},
		nil, nil, "")
	if err != nil {
		t.Fatalf("create container: %v", err)
	}
	t.Cleanup(func() {
		_ = cli.ContainerRemove(context.Background(), created.ID, container.RemoveOptions{Force: true})
	})

	if err := cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		t.Fatalf("start container: %v", err)
	}

	info, err := cli.ContainerInspect(ctx, created.ID)
	if err != nil {
		t.Fatalf("inspect container: %v", err)
	}
	bindings := info.NetworkSettings.Ports[pgPort]
	if len(bindings) == 0 {
		t.Fatalf("port %s is not published", pgPort)
	}

	dsn := fmt.Sprintf("postgres://postgres:%s@127.0.0.1:%s/%s?sslmode=disable",
		password, bindings[0].HostPort, database)

	if err := waitReady(ctx, dsn); err != nil {
		t.Fatalf("postgres is not ready: %v", err)
	}
	return dsn
}

func waitReady(ctx context.Context, dsn string) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		conn, err := pgx.Connect(ctx, dsn)
		if err == nil {
			err = conn.Ping(ctx)
			_ = conn.Close(ctx)
			if err == nil {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: last error: %v", ctx.Err(), err)
		case <-ticker.C:
		}
	}
}
