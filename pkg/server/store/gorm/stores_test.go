package gorm

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server/store"
)

type Suite struct {
	suite.Suite
	DB   *gorm.DB
	mock sqlmock.Sqlmock
}

func (s *Suite) SetupSuite() {
	var (
		db  *sql.DB
		err error
	)

	db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	s.DB, err = gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(s.T(), err)
}

// AfterTest comment
func (s *Suite) AfterTest(_, _ string) {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestGormStores(t *testing.T) {
	suite.Run(t, new(Suite))
}

const (
	orgID    = "22222222-2222-2222-2222-222222222222"
	vendorID = "44444444-4444-4444-4444-444444444444"
	userID   = "11111111-1111-1111-1111-111111111111"
)

func (s *Suite) TestGetVendor() {
	rows := sqlmock.NewRows([]string{"id", "organization_id", "name", "risk_tier", "status"}).
		AddRow(vendorID, orgID, "CloudHost Ltd", model.VendorTierCritical, model.VendorStatusActive)

	s.mock.ExpectQuery(`SELECT \* FROM "vendors"`).
		WillReturnRows(rows)

	vendor, err := NewVendorsStore(s.DB).GetVendor(orgID, vendorID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "CloudHost Ltd", vendor.Name)
	assert.Equal(s.T(), model.VendorTierCritical, vendor.RiskTier)
}

func (s *Suite) TestGetVendorNotFound() {
	s.mock.ExpectQuery(`SELECT \* FROM "vendors"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewVendorsStore(s.DB).GetVendor(orgID, vendorID)
	assert.ErrorIs(s.T(), err, store.ErrVendorNotFound)
}

func (s *Suite) TestGetUserByEmail() {
	rows := sqlmock.NewRows([]string{"id", "organization_id", "email", "role"}).
		AddRow(userID, orgID, "admin@acme.test", model.UserRoleAdmin)

	s.mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(rows)

	user, err := NewUsersStore(s.DB).GetUserByEmail("admin@acme.test")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), model.UserRoleAdmin, user.Role)
}

func (s *Suite) TestCountVendorsAppliesFilter() {
	rows := sqlmock.NewRows([]string{"count"}).AddRow(3)

	s.mock.ExpectQuery(`SELECT count(.+) FROM "vendors"`).
		WillReturnRows(rows)

	count, err := NewVendorsStore(s.DB).CountVendors(orgID, store.VendorFilter{RiskTier: model.VendorTierHigh})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), count)
}

func (s *Suite) TestUpdateDocumentStatus() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE "documents"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := NewDocumentsStore(s.DB).UpdateDocumentStatus(
		"33333333-3333-3333-3333-333333333333", model.DocumentStatusAnalyzed)
	assert.NoError(s.T(), err)
}

func (s *Suite) TestCheckConnectivity() {
	s.mock.ExpectExec(`SELECT 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(s.T(), NewHealthStore(s.DB).CheckConnectivity())
}
