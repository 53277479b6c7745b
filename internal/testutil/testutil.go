// Package testutil builds throwaway databases for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/config"
	"crmdesk/internal/database"
	"crmdesk/internal/models"
	"crmdesk/internal/repositories"
)

// NewDB opens a bootstrapped in-memory sqlite database closed with the test.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:", config.PoolConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Bootstrap(ctx, db))
	return db
}

// CreateCustomer inserts a minimal customer and returns its id.
func CreateCustomer(t *testing.T, db *sqlx.DB, company string, mutate ...func(*models.Customer)) int64 {
	t.Helper()
	now := time.Now().UTC()
	c := &models.Customer{
		CompanyName: company,
		Priority:    models.PriorityMedium,
		Status:      models.CustomerPendingPlan,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, m := range mutate {
		m(c)
	}
	id, err := repositories.NewCustomerRepository(db).Create(context.Background(), c)
	require.NoError(t, err)
	return id
}

func Ptr[T any](v T) *T { return &v }
