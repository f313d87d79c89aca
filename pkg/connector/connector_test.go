package connector

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/raw-to-ready/pkg/config"
	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// gosnowflake's keyring opens a session bus connection whose reader never exits
var leakOptions = []goleak.Option{
	goleak.IgnoreAnyFunction("github.com/godbus/dbus.(*Conn).inWorker"),
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, leakOptions...)
}

func seededSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.db")

	c, err := NewSQLiteConnector(context.Background(), path)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.DB().Exec(`CREATE TABLE customers (id INTEGER, name TEXT, email TEXT, score REAL)`)
	require.NoError(t, err)
	_, err = c.DB().Exec(`INSERT INTO customers VALUES
		(1, 'ann lee', 'ann@example.com', 9.5),
		(2, NULL, 'bob-at-example', 7),
		(3, 'Cara', NULL, NULL)`)
	require.NoError(t, err)
	return path
}

func TestPingWithTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)

	c, err := NewSQLiteConnector(context.Background(), filepath.Join(t.TempDir(), "ping.db"))
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, PingWithTimeout(context.Background(), c.DB(), time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, PingWithTimeout(ctx, c.DB(), time.Second))
}

func TestQueryDataset(t *testing.T) {
	c, err := NewSQLiteConnector(context.Background(), seededSQLite(t))
	require.NoError(t, err)
	defer c.Close()

	ds, err := QueryDataset(context.Background(), c, `SELECT id, name, email, score FROM customers ORDER BY id`, 5*time.Second)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "email", "score"}, ds.ColumnNames())
	assert.Equal(t, 3, ds.RowCount())
	assert.Equal(t, model.KindNumeric, ds.Column("id").Kind)
	assert.Equal(t, model.KindNumeric, ds.Column("score").Kind)
	assert.Equal(t, model.KindText, ds.Column("name").Kind)
	assert.False(t, ds.Column("name").Cells[1].Valid)
	assert.Equal(t, "bob-at-example", ds.Column("email").Cells[1].String)
	assert.Equal(t, 3, ds.NullCount())
}

func TestQueryDatasetErrors(t *testing.T) {
	c, err := NewSQLiteConnector(context.Background(), seededSQLite(t))
	require.NoError(t, err)
	defer c.Close()

	_, err = QueryDataset(context.Background(), nil, "SELECT 1", time.Second)
	assert.Error(t, err)

	_, err = QueryDataset(context.Background(), c, "", time.Second)
	assert.Error(t, err)

	_, err = QueryDataset(context.Background(), c, "SELECT * FROM missing", time.Second)
	assert.ErrorContains(t, err, c.Name())
}

func TestConnectorFactoryCreateSource(t *testing.T) {
	factory := NewConnectorFactory(&config.Config{}, zaptest.NewLogger(t))
	ctx := context.Background()

	c, err := factory.CreateSource(ctx, "sqlite3:"+seededSQLite(t))
	require.NoError(t, err)
	defer c.Close()
	assert.Contains(t, c.Name(), "sqlite3:")

	_, err = factory.CreateSource(ctx, "oracle")
	assert.Error(t, err)

	_, err = factory.CreateSource(ctx, "sqlite3:")
	assert.Error(t, err)

	// no Snowflake or Postgres environment was loaded
	_, err = factory.CreateSource(ctx, SourceSnowflake)
	assert.Error(t, err)
	_, err = factory.CreateSource(ctx, SourcePostgres)
	assert.Error(t, err)
}

func TestApplyConnectionSettings(t *testing.T) {
	c, err := NewSQLiteConnector(context.Background(), filepath.Join(t.TempDir(), "pool.db"))
	require.NoError(t, err)
	defer c.Close()

	ApplyConnectionSettings(c.DB(), 3, 0, time.Minute, 0)
	assert.Equal(t, 3, GetConnectionStats(c.DB()).MaxOpenConns)
}
