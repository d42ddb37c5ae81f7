package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"api_reports/internal/database/dbtest"
)

func TestActiveStaffEmails(t *testing.T) {
	ctx := context.Background()
	store := NewSQLStorage(dbtest.NewSQLite(t), zaptest.NewLogger(t))

	for _, u := range []*User{
		{FirstName: "Eva", Email: "eva@smartsales.bo", Role: RoleEmployee, IsActive: true},
		{FirstName: "Old", Email: "old@smartsales.bo", Role: RoleEmployee, IsActive: false},
		{FirstName: "Cli", Email: "cli@example.com", Role: RoleCustomer, IsActive: true},
		{FirstName: "Ada", Email: "ada@smartsales.bo", Role: RoleEmployee, IsActive: true},
	} {
		require.NoError(t, store.Create(ctx, u))
		assert.NotZero(t, u.ID)
	}

	emails, err := store.ActiveStaffEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"eva@smartsales.bo", "ada@smartsales.bo"}, emails)
}

func TestActiveStaffEmails_None(t *testing.T) {
	emails, err := NewSQLStorage(dbtest.NewSQLite(t), zaptest.NewLogger(t)).ActiveStaffEmails(context.Background())

	require.NoError(t, err)
	assert.Empty(t, emails)
}

func TestCreate_RequiresEmail(t *testing.T) {
	err := NewSQLStorage(dbtest.NewSQLite(t), zaptest.NewLogger(t)).Create(context.Background(), &User{FirstName: "x"})

	assert.ErrorIs(t, err, ErrEmptyEmail)
}
