package seed

import (
	"bytes"
	"context"
	"net/mail"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"api_reports/internal/database"
	"api_reports/internal/database/dbtest"
)

func count(t *testing.T, db *database.DB, query string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query).Scan(&n))
	return n
}

func TestRun(t *testing.T) {
	db := dbtest.NewSQLite(t)
	var out bytes.Buffer

	sum, err := New(db, gofakeit.New(42), &out, zaptest.NewLogger(t)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Categories: 15, Brands: 7, Providers: 7, Warranties: 4}, sum)
	assert.Contains(t, out.String(), "Poblando Categorías...")

	assert.Equal(t, 4, count(t, db, "SELECT COUNT(*) FROM categories WHERE parent_id IS NULL"))
	assert.Equal(t, 3, count(t, db, `SELECT COUNT(*) FROM categories c JOIN categories p ON p.id = c.parent_id WHERE p.name = 'Tecnología'`))
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM categories c JOIN categories p ON p.id = c.parent_id WHERE p.name = 'Climatización'`))

	rows, err := db.Query("SELECT contact_email, contact_phone FROM warranty_providers")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var email, phone string
		require.NoError(t, rows.Scan(&email, &phone))
		_, err := mail.ParseAddress(email)
		assert.NoError(t, err, "well-formed email %q", email)
		assert.NotEmpty(t, phone)
	}
	require.NoError(t, rows.Err())
}

func TestRun_WarrantiesBoundByPosition(t *testing.T) {
	db := dbtest.NewSQLite(t)
	_, err := New(db, gofakeit.New(1), nil, zaptest.NewLogger(t)).Run(context.Background())
	require.NoError(t, err)

	rows, err := db.Query(`SELECT w.duration_days, p.name FROM warranties w
		JOIN warranty_providers p ON p.id = w.provider_id ORDER BY w.id`)
	require.NoError(t, err)
	defer rows.Close()

	var got []Warranty
	for rows.Next() {
		var days int
		var provider string
		require.NoError(t, rows.Scan(&days, &provider))
		got = append(got, Warranty{DurationDays: days, Title: provider})
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 4)
	for i, w := range got {
		assert.Equal(t, Warranties[i].DurationDays, w.DurationDays)
		assert.Equal(t, Providers[i], w.Title)
	}
}

func TestRun_TwiceWipesFirst(t *testing.T) {
	db := dbtest.NewSQLite(t)
	s := New(db, gofakeit.New(7), nil, zaptest.NewLogger(t))

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	sum, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, sum.Brands)
	assert.Equal(t, 15, count(t, db, "SELECT COUNT(*) FROM categories"))
	assert.Equal(t, 7, count(t, db, "SELECT COUNT(*) FROM brands"))
	assert.Equal(t, 7, count(t, db, "SELECT COUNT(*) FROM warranty_providers"))
	assert.Equal(t, 4, count(t, db, "SELECT COUNT(*) FROM warranties"))

	var names []string
	rows, err := db.Query("SELECT name FROM brands")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	assert.ElementsMatch(t, Brands, names)
}
