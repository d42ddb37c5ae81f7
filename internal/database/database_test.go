package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"api_reports/internal/config"
	"api_reports/internal/database"
	"api_reports/internal/database/dbtest"
)

func TestRebind(t *testing.T) {
	pg := &database.DB{Dialect: database.Postgres}
	lite := &database.DB{Dialect: database.SQLite}

	query := "SELECT id FROM sales WHERE status = ? AND total_amount >= ?"

	assert.Equal(t, "SELECT id FROM sales WHERE status = $1 AND total_amount >= $2", pg.Rebind(query))
	assert.Equal(t, query, lite.Rebind(query))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", database.Placeholders(0))
	assert.Equal(t, "?", database.Placeholders(1))
	assert.Equal(t, "?,?,?", database.Placeholders(3))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open(config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorIs(t, err, database.ErrUnknownDriver)
}

func TestSQLite_MigrateIsIdempotentAndInsertReturnsID(t *testing.T) {
	db := dbtest.NewSQLite(t)
	ctx := context.Background()

	// Una segunda pasada no debe fallar (ErrNoChange)
	require.NoError(t, db.Migrate())

	first, err := db.Insert(ctx, "INSERT INTO brands (name) VALUES (?)", "Samsung")
	require.NoError(t, err)
	second, err := db.Insert(ctx, "INSERT INTO brands (name) VALUES (?)", "LG")
	require.NoError(t, err)

	assert.Greater(t, second, first)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM brands").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestPostgres_MigrateAndInsert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := database.Open(config.DatabaseConfig{
		Driver:   "postgres",
		Host:     host,
		Port:     port.Int(),
		Name:     "testdb",
		User:     "testuser",
		Password: "testpass",
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate())

	id, err := db.Insert(ctx, "INSERT INTO warranty_providers (name, contact_email, contact_phone) VALUES (?, ?, ?)",
		"Garantía Total Bolivia", "soporte@example.com", "+591 700 00000")
	require.NoError(t, err)
	assert.Positive(t, id)
}
