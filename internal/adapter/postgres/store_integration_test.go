package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/sentilog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	testPool        *pgxpool.Pool
	testDatabaseURL string
)

func TestMain(m *testing.M) {
	flag.Parse()

	if testing.Short() {
		os.Exit(m.Run())
	}

	os.Exit(runWithContainer(m))
}

func runWithContainer(m *testing.M) int {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start postgres container: %v\n", err)
		return 1
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to terminate postgres container: %v\n", err)
		}
	}()

	testDatabaseURL, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get connection string: %v\n", err)
		return 1
	}

	testPool, err = Connect(ctx, testDatabaseURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to test database: %v\n", err)
		return 1
	}
	defer testPool.Close()

	if _, err := RunMigrationsWithLock(ctx, testPool); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		return 1
	}

	return m.Run()
}

func setupTestDB(t *testing.T) *pgxpool.Pool {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	t.Cleanup(func() {
		if _, err := testPool.Exec(context.Background(), "TRUNCATE analysis"); err != nil {
			t.Logf("Failed to truncate tables: %v", err)
		}
	})

	return testPool
}

func TestRunMigrations_Idempotent(t *testing.T) {
	pool := setupTestDB(t)

	version, err := RunMigrationsWithLock(context.Background(), pool)
	require.NoError(t, err)
	assert.Equal(t, int32(1), version)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a url ://", nil)
	assert.Error(t, err)
}

func TestStore_AppendAndList(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	first, err := store.Append(ctx, "I love this", domain.Positive, 2)
	require.NoError(t, err)
	second, err := store.Append(ctx, "terrible", domain.Negative, -2)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, second.CreatedAt.Before(first.CreatedAt))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, "terrible", records[0].Text)
	assert.Equal(t, domain.Negative, records[0].Sentiment)
	assert.Equal(t, -2, records[0].Score)
	assert.Equal(t, int64(1), records[1].ID)
}

func TestStore_ListEmpty(t *testing.T) {
	store := NewStore(setupTestDB(t))

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStore_TimestampsNeverGoBackwards(t *testing.T) {
	pool := setupTestDB(t)
	store := NewStore(pool)
	ctx := context.Background()

	future := time.Now().Add(time.Hour).UTC()
	_, err := pool.Exec(ctx,
		`INSERT INTO analysis (id, text, sentiment, score, created_at) VALUES (1, 'from the future', 'neutral', 0, $1)`, future)
	require.NoError(t, err)

	rec, err := store.Append(ctx, "now", domain.Neutral, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(2), rec.ID)
	assert.False(t, rec.CreatedAt.Before(future.Truncate(time.Microsecond)))
}

func TestStore_ConcurrentAppendsAreDense(t *testing.T) {
	const n = 40
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := store.Append(ctx, fmt.Sprintf("text %d", i), domain.Neutral, 0)
			assert.NoError(t, err)
			ids[i] = rec.ID
		}(i)
	}
	wg.Wait()

	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	for i, id := range ids {
		assert.Equal(t, int64(i+1), id)
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].CreatedAt.After(records[i-1].CreatedAt))
		assert.Less(t, records[i].ID, records[i-1].ID)
	}
}

func TestStore_DuplicateKeyIsClassified(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	_, err := NewStore(pool).Append(ctx, "a", domain.Neutral, 0)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `INSERT INTO analysis (id, text, sentiment, score) VALUES (1, 'dup', 'neutral', 0)`)
	require.Error(t, err)
	assert.Equal(t, domain.StorageDuplicateKey, classify(err))
}

func TestStore_Ping(t *testing.T) {
	store := NewStore(setupTestDB(t))
	assert.NoError(t, store.Ping(context.Background()))
}

func TestStore_ClosedPoolIsUnavailable(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	pool, err := Connect(context.Background(), testDatabaseURL, nil)
	require.NoError(t, err)
	pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = NewStore(pool).Append(ctx, "a", domain.Neutral, 0)

	var se *domain.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "append", se.Op)
}
