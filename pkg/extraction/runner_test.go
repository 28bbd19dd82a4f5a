package extraction

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/scoring"
)

const (
	runnerJobID    = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	runnerDocID    = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	runnerOrgID    = "22222222-2222-2222-2222-222222222222"
	runnerVendorID = "44444444-4444-4444-4444-444444444444"
)

type RunnerSuite struct {
	suite.Suite
	db   *gorm.DB
	mock sqlmock.Sqlmock
}

func (s *RunnerSuite) SetupTest() {
	var (
		db  *sql.DB
		err error
	)

	db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	s.db, err = gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(s.T(), err)
}

func (s *RunnerSuite) TearDownTest() {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(RunnerSuite))
}

// stubExtractor returns a fixed payload or error, standing in for the
// sidecar extractor.
type stubExtractor struct {
	payload *Payload
	err     error
}

func (e stubExtractor) Extract(context.Context, string) (*Payload, error) {
	return e.payload, e.err
}

// jsonCapture records a driver argument so the test can decode what was
// written to a jsonb column.
type jsonCapture struct {
	raw *[]byte
}

func (c jsonCapture) Match(v driver.Value) bool {
	switch t := v.(type) {
	case []byte:
		*c.raw = append([]byte(nil), t...)
	case string:
		*c.raw = []byte(t)
	default:
		return false
	}
	return true
}

func soc2Payload() *Payload {
	return &Payload{
		ReportType:     "SOC 2 Type II",
		AuditFirm:      "Assurance LLP",
		Opinion:        "unqualified",
		PeriodStart:    "2024-01-01",
		PeriodEnd:      "2024-12-31",
		ServiceOrgName: "CloudHost Ltd",
		Controls: []scoring.Control{
			{
				ControlID:   "CC6.1",
				TSCCategory: "CC6.1",
				Description: "Logical access is restricted to authorized users",
				TestResult:  scoring.ControlResultOperatingEffectively,
				Confidence:  0.9,
			},
			{
				ControlID:   "CC7.2",
				TSCCategory: "CC7.2",
				Description: "Systems are monitored for anomalies",
				TestResult:  scoring.ControlResultOperatingEffectively,
				Confidence:  0.9,
			},
			{
				ControlID:   "A1.2",
				TSCCategory: "A1.2",
				Description: "Backup and recovery procedures are in place",
				TestResult:  scoring.ControlResultOperatingEffectively,
				Confidence:  0.9,
			},
		},
	}
}

func (s *RunnerSuite) expectJobAndDocument(storagePath string, vendorID any) {
	s.mock.ExpectQuery(`SELECT \* FROM "extraction_jobs"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "document_id", "organization_id", "status", "phase", "progress"}).
			AddRow(runnerJobID, runnerDocID, runnerOrgID, model.JobStatusPending, model.JobPhaseInitializing, 0))

	s.mock.ExpectQuery(`SELECT \* FROM "documents"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "organization_id", "vendor_id", "filename", "storage_path", "type", "status"}).
			AddRow(runnerDocID, runnerOrgID, vendorID, "report.pdf", storagePath, model.DocumentTypeSOC2, model.DocumentStatusUploaded))
}

func (s *RunnerSuite) expectUpdate(table string) {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE "` + table + `"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()
}

func (s *RunnerSuite) TestRunCompletesJob() {
	storagePath := filepath.Join(s.T().TempDir(), "report.pdf")
	require.NoError(s.T(), os.WriteFile(storagePath, []byte("%PDF-1.4"), 0o600))

	s.expectJobAndDocument(storagePath, runnerVendorID)
	s.expectUpdate("extraction_jobs") // processing, downloading
	s.expectUpdate("documents")       // analyzing
	s.expectUpdate("extraction_jobs") // extracting
	s.expectUpdate("extraction_jobs") // scoring
	s.expectUpdate("extraction_jobs") // storing

	var articleScores []byte
	insertArgs := make([]driver.Value, 17)
	for i := range insertArgs {
		insertArgs[i] = sqlmock.AnyArg()
	}
	// article_scores is the 15th parsed_soc2 column in field order.
	insertArgs[14] = jsonCapture{&articleScores}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`DELETE FROM "parsed_soc2"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectQuery(`INSERT INTO "parsed_soc2"`).
		WithArgs(insertArgs...).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cccccccc-cccc-cccc-cccc-cccccccccccc"))
	s.mock.ExpectQuery(`INSERT INTO "vendor_assessments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("dddddddd-dddd-dddd-dddd-dddddddddddd"))
	s.mock.ExpectCommit()

	s.expectUpdate("extraction_jobs") // completed
	s.expectUpdate("documents")       // analyzed

	runner := NewRunner(s.db, stubExtractor{payload: soc2Payload()}, nil, nil)
	require.NoError(s.T(), runner.Run(context.Background(), runnerJobID))

	var persisted struct {
		Coverage scoring.Coverage `json:"coverage"`
		Gaps     []scoring.Gap    `json:"gaps"`
	}
	require.NoError(s.T(), json.Unmarshal(articleScores, &persisted))

	assert.GreaterOrEqual(s.T(), persisted.Coverage.ArticlesCovered, 1)
	assert.NotEmpty(s.T(), persisted.Coverage.ByArticle)

	// The stored gaps must be the gaps of the stored coverage.
	assert.Equal(s.T(), scoring.CoverageGaps(persisted.Coverage), persisted.Gaps)
}

func (s *RunnerSuite) TestRunFailsWhenExtractorErrors() {
	storagePath := filepath.Join(s.T().TempDir(), "report.pdf")
	require.NoError(s.T(), os.WriteFile(storagePath, []byte("%PDF-1.4"), 0o600))

	s.expectJobAndDocument(storagePath, nil)
	s.expectUpdate("extraction_jobs") // processing, downloading
	s.expectUpdate("documents")       // analyzing
	s.expectUpdate("extraction_jobs") // extracting
	s.expectUpdate("extraction_jobs") // failed
	s.expectUpdate("documents")       // failed

	runner := NewRunner(s.db, stubExtractor{err: errors.New("sidecar file unreadable")}, nil, nil)
	err := runner.Run(context.Background(), runnerJobID)
	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "extraction failed")
}

func (s *RunnerSuite) TestRunFailsWhenStoredDocumentMissing() {
	s.expectJobAndDocument(filepath.Join(s.T().TempDir(), "gone.pdf"), nil)
	s.expectUpdate("extraction_jobs") // processing, downloading
	s.expectUpdate("documents")       // analyzing
	s.expectUpdate("extraction_jobs") // failed
	s.expectUpdate("documents")       // failed

	runner := NewRunner(s.db, stubExtractor{payload: soc2Payload()}, nil, nil)
	err := runner.Run(context.Background(), runnerJobID)
	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "stored document missing")
}
