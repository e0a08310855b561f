package database

import (
	"context"
	"testing"
	"time"

	"github.com/japanesestudent/learning-summary/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name       string
		db         config.DatabaseConfig
		driverName string
	}{
		{
			name: "mysql",
			db: config.DatabaseConfig{
				Driver:   config.DriverMySQL,
				Host:     "localhost",
				Port:     3306,
				User:     "student",
				Password: "secret",
				DBName:   "japanesestudent",
			},
			driverName: "mysql",
		},
		{
			name: "postgres",
			db: config.DatabaseConfig{
				Driver:   config.DriverPostgres,
				Host:     "localhost",
				Port:     5432,
				User:     "student",
				Password: "secret",
				DBName:   "japanesestudent",
			},
			driverName: "postgres",
		},
		{
			name:       "sqlite",
			db:         config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"},
			driverName: "sqlite3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(&config.Config{Database: tt.db})
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			assert.Equal(t, tt.driverName, got.DriverName())
		})
	}
}

func TestOpen_MissingSettings(t *testing.T) {
	db, err := Open(&config.Config{Database: config.DatabaseConfig{Driver: config.DriverMySQL}})

	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestOpen_UnknownDriver(t *testing.T) {
	db, err := Open(&config.Config{Database: config.DatabaseConfig{Driver: "oracle", Host: "localhost"}})

	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestConnect_SQLite(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}}

	db, err := Connect(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	var one int
	require.NoError(t, db.Get(&one, "SELECT 1"))
	assert.Equal(t, 1, one)
}

func TestConnect_RetriesUnreachableServer(t *testing.T) {
	previous := connectRetryDelay
	connectRetryDelay = time.Millisecond
	t.Cleanup(func() { connectRetryDelay = previous })

	core, logs := observer.New(zap.WarnLevel)
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:          config.DriverMySQL,
		Host:            "127.0.0.1",
		Port:            1,
		User:            "student",
		Password:        "secret",
		DBName:          "japanesestudent",
		ConnectAttempts: 3,
	}}

	db, err := Connect(context.Background(), cfg, zap.New(core))

	assert.Error(t, err)
	assert.Nil(t, db)
	assert.GreaterOrEqual(t, logs.FilterMessage("database is not reachable yet").Len(), 2)
}

func TestConnect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:", ConnectAttempts: 5}}

	db, err := Connect(ctx, cfg, zap.NewNop())

	assert.Error(t, err)
	assert.Nil(t, db)
}
