package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
)

// RecordCollections are the collections the service stores records in.
var RecordCollections = []string{"leaderboards", "scores"}

// TestDB wraps a test database connection with cleanup helpers
type TestDB struct {
	DB        *database.DB
	Container testcontainers.Container
}

// SetupTestDB starts a MongoDB testcontainer and returns a connected TestDB.
// The test is skipped when no container runtime is available.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForListeningPort("27017/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start mongo container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())

	db, err := database.New(ctx, uri, "leaderboards_test")
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.EnsureIndexes(ctx, RecordCollections...); err != nil {
		t.Fatalf("failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close(ctx)
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		DB:        db,
		Container: container,
	}
}

// CleanCollections removes every document to reset state between tests
func (tdb *TestDB) CleanCollections(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	collections := append([]string{database.UsersCollection}, RecordCollections...)
	for _, name := range collections {
		_, err := tdb.DB.Client.Database(tdb.DB.Name).Collection(name).DeleteMany(ctx, bson.M{})
		if err != nil {
			t.Fatalf("failed to clean collection %s: %v", name, err)
		}
	}
}
