// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/database"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// Logger returns a logger that discards output
func Logger() *zap.Logger {
	return zap.NewNop()
}

// CreateTestProject stores a project with sane defaults for the fields the
// caller left empty.
func CreateTestProject(t *testing.T, db *gorm.DB, p *domain.Project) *domain.Project {
	t.Helper()

	if p.Code == "" {
		p.Code = "CEPF-001"
	}
	if p.Acronym == "" {
		p.Acronym = "ACR" + p.Code
	}
	if p.Name == "" {
		p.Name = "Test project " + p.Code
	}
	p.EnsureID()
	if p.Version == 0 {
		p.Version = 1
	}
	require.NoError(t, db.WithContext(context.Background()).Create(p).Error)
	return p
}

// CreateTestPerson stores a person with the given roles and project codes
func CreateTestPerson(t *testing.T, db *gorm.DB, email string, roles []domain.Role, codes ...string) *domain.Person {
	t.Helper()

	person := &domain.Person{
		Name:         email,
		Email:        email,
		Status:       domain.PersonStatusActive,
		ProjectCodes: domain.StringList(codes),
	}
	for _, r := range roles {
		person.Roles = append(person.Roles, string(r))
	}
	if person.ProjectCodes == nil {
		person.ProjectCodes = domain.StringList{}
	}
	person.EnsureID()
	require.NoError(t, db.Create(person).Error)
	return person
}

// ContextAs returns a context authenticated as a person with the given roles
// and project memberships.
func ContextAs(roles []domain.Role, codes ...string) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		PersonID:     uuid.New(),
		Name:         "Test user",
		Email:        "test.user@example.org",
		Roles:        roles,
		ProjectCodes: codes,
	})
}
