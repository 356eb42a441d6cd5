// Package testutil provides a migrated in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	authrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/schema"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// A single connection is used, so code under test must run every query of a
// transaction through the transaction handle.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, schema.Migrate(db))
	return db
}

// CreateUser inserts a user with a known password ("secret123").
func CreateUser(t *testing.T, db *gorm.DB, firstName, email string) *authdomain.User {
	t.Helper()

	hash, err := authrepo.HashPassword("secret123")
	require.NoError(t, err)

	user := &authdomain.User{FirstName: firstName, LastName: "Test", Email: email, Password: hash}
	require.NoError(t, db.Create(user).Error)
	return user
}
