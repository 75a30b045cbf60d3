package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/config"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestEnv(t *testing.T) (*Env, *gorm.DB) {
	t.Helper()
	color.NoColor = true

	db := testutil.SetupTestDB(t)
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: "cli-secret", Issuer: "cepf-test", TokenTTLHours: 1}}
	clock := func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) }
	return NewEnv(cfg, db, testutil.Logger(), clock), db
}

func execute(t *testing.T, env *Env, args ...string) (string, error) {
	t.Helper()
	released := false
	root := NewRootCmd(func(bool) (*Env, func(), error) {
		return env, func() { released = true }, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		assert.True(t, released)
	}
	return out.String(), err
}

func seedProjects(t *testing.T, db *gorm.DB) {
	testutil.CreateTestProject(t, db, &domain.Project{
		Code: "CEPF-1", Acronym: "MATA",
		Installments: domain.Installments{{Number: 1, DueDate: "01/01/2024", Amount: 1000, ReportDueDate: "10/03/2024"}},
		BudgetLines: domain.BudgetLines{{
			ID: "l1", Category: "Serviços", ExpenseName: "Consultoria", PlannedAmount: 500,
			Entries: []domain.Expense{
				{ID: "e2", ExpenseID: "expense_002", ReportNumber: 1, Date: "20/02/2024", Description: "Diária em Goiânia", Amount: 80, ReviewStatus: domain.ReviewOpen},
				{ID: "e1", ExpenseID: "expense_001", ReportNumber: 1, Date: "15/02/2024", Description: "Viagem", Amount: 120, ReviewStatus: domain.ReviewAccepted},
			},
		}},
	})
	testutil.CreateTestProject(t, db, &domain.Project{
		Code: "CEPF-2", Acronym: "CERR",
		Installments: domain.Installments{{Number: 1, DueDate: "01/01/2024", Amount: 1000, ReportDueDate: "10/04/2024"}},
	})
}

func TestStatusCommand(t *testing.T) {
	env, db := newTestEnv(t)
	seedProjects(t, db)

	out, err := execute(t, env, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Status as of 20/03/2024")
	assert.Contains(t, out, "CEPF-1")
	assert.Contains(t, out, "CEPF-2")
	assert.Contains(t, out, "2 projects, 1 late")

	out, err = execute(t, env, "status", "--late-only")
	require.NoError(t, err)
	assert.Contains(t, out, "CEPF-1")
	assert.NotContains(t, out, "CEPF-2")

	out, err = execute(t, env, "status", "--today", "01/03/2024")
	require.NoError(t, err)
	assert.Contains(t, out, "0 late")

	_, err = execute(t, env, "status", "--today", "2024-03-01")
	assert.Error(t, err)
}

func TestExportExpensesCommand(t *testing.T) {
	env, db := newTestEnv(t)
	seedProjects(t, db)

	out, err := execute(t, env, "export-expenses", "CEPF-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Diária em Goiânia")
	assert.Less(t, bytes.Index([]byte(out), []byte("expense_001")), bytes.Index([]byte(out), []byte("expense_002")))

	out, err = execute(t, env, "export-expenses", "CEPF-1", "--encoding", "latin1")
	require.NoError(t, err)
	// "á" is a single byte in Windows-1252
	assert.Contains(t, out, "Di\xe1ria em Goi\xe2nia")

	_, err = execute(t, env, "export-expenses", "CEPF-9")
	assert.Error(t, err)

	_, err = execute(t, env, "export-expenses")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	env, db := newTestEnv(t)
	person := testutil.CreateTestPerson(t, db, "ana@example.org", []domain.Role{domain.RoleStaff})

	out, err := execute(t, env, "token", "ana@example.org")
	require.NoError(t, err)

	user, err := env.Tokens.ValidateToken(string(bytes.TrimSpace([]byte(out))))
	require.NoError(t, err)
	assert.Equal(t, person.ID, user.PersonID)

	_, err = execute(t, env, "token", "nobody@example.org")
	assert.Error(t, err)

	require.NoError(t, db.Model(person).Update("status", domain.PersonStatusInactive).Error)
	_, err = execute(t, env, "token", "ana@example.org")
	assert.Error(t, err)
}
