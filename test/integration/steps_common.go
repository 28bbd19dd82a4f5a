package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"golang.org/x/crypto/bcrypt"

	"github.com/doracomply/doracomply/pkg/extraction"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	orgIDs       map[string]string
	passwords    map[string]string
	documentID   string
	vendorID     string
	jobID        string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:        tc,
		orgIDs:    make(map[string]string),
		passwords: make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^the compliance server is running$`, s.theComplianceServerIsRunning)
	sc.Step(`^an organization "([^"]*)" exists with admin user "([^"]*)"$`, s.anOrganizationExistsWithAdminUser)
	sc.Step(`^a member user "([^"]*)" exists in organization "([^"]*)"$`, s.aMemberUserExistsInOrganization)
	sc.Step(`^I am logged in as "([^"]*)"$`, s.iAmLoggedInAs)

	// Authentication steps
	sc.Step(`^I log in as "([^"]*)" with the correct password$`, s.iLogInWithCorrectPassword)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogInWithPassword)
	sc.Step(`^I request "([^"]*)" without a token$`, s.iRequestWithoutAToken)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
	sc.Step(`^I should receive a session token$`, s.iShouldReceiveASessionToken)

	// Vendor steps
	sc.Step(`^I create a vendor named "([^"]*)" with risk tier "([^"]*)"$`, s.iCreateAVendor)
	sc.Step(`^vendor "([^"]*)" should exist in the database$`, s.vendorShouldExistInDatabase)

	// Document and analysis steps
	sc.Step(`^I upload a SOC 2 report named "([^"]*)"$`, s.iUploadASOC2Report)
	sc.Step(`^an extraction payload exists for the uploaded document:$`, s.anExtractionPayloadExists)
	sc.Step(`^I request analysis of the uploaded document$`, s.iRequestAnalysis)
	sc.Step(`^the analysis job should complete within (\d+) seconds$`, s.theAnalysisJobShouldComplete)
	sc.Step(`^the document status should be "([^"]*)"$`, s.theDocumentStatusShouldBe)
	sc.Step(`^the coverage report should show at least (\d+) covered articles?$`, s.theCoverageReportShouldShow)

	// Task steps
	sc.Step(`^I create a task titled "([^"]*)" with priority "([^"]*)"$`, s.iCreateATask)
	sc.Step(`^I list the tasks$`, s.iListTheTasks)

	// Dashboard steps
	sc.Step(`^I request the "([^"]*)" widget data$`, s.iRequestWidgetData)
}

// Background steps

func (s *StepsContext) theComplianceServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) anOrganizationExistsWithAdminUser(orgName, email string) error {
	return s.createUser(orgName, email, "admin")
}

func (s *StepsContext) aMemberUserExistsInOrganization(email, orgName string) error {
	return s.createUser(orgName, email, "member")
}

func (s *StepsContext) createUser(orgName, email, role string) error {
	var orgID string
	row := s.tc.RawDB.QueryRow(`
		INSERT INTO organizations (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, orgName)
	if err := row.Scan(&orgID); err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	s.orgIDs[orgName] = orgID

	password := "password-" + email
	s.passwords[email] = password

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}

	return s.tc.DB.Exec(`
		INSERT INTO users (organization_id, email, password_hash, role)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role
	`, orgID, email, hash, role).Error
}

func (s *StepsContext) iAmLoggedInAs(email string) error {
	if err := s.iLogInWithCorrectPassword(email); err != nil {
		return err
	}
	if s.authToken == "" {
		return fmt.Errorf("login failed: status %d: %s", s.response.StatusCode, s.responseBody)
	}
	return nil
}

// Authentication steps

func (s *StepsContext) iLogInWithCorrectPassword(email string) error {
	return s.iLogInWithPassword(email, s.passwords[email])
}

func (s *StepsContext) iLogInWithPassword(email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	if err := s.doRequest("POST", "/authn/login", bytes.NewReader(body), "application/json", false); err != nil {
		return err
	}

	s.authToken = ""
	if s.response.StatusCode == http.StatusOK {
		var login struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(s.responseBody, &login); err == nil {
			s.authToken = login.Token
		}
	}
	return nil
}

func (s *StepsContext) iRequestWithoutAToken(path string) error {
	return s.doRequest("GET", path, nil, "", false)
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("response does not contain %q: %s", expected, s.responseBody)
	}
	return nil
}

func (s *StepsContext) iShouldReceiveASessionToken() error {
	if s.authToken == "" {
		return fmt.Errorf("no session token in response: %s", s.responseBody)
	}
	// Tokens are three dot-separated JWT segments
	if parts := strings.Split(s.authToken, "."); len(parts) != 3 {
		return fmt.Errorf("token is not a JWT: %s", s.authToken)
	}
	return nil
}

// Vendor steps

func (s *StepsContext) iCreateAVendor(name, riskTier string) error {
	body, _ := json.Marshal(map[string]string{"name": name, "riskTier": riskTier})

	if err := s.doRequest("POST", "/api/vendors", bytes.NewReader(body), "application/json", true); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		var vendor struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(s.responseBody, &vendor); err == nil {
			s.vendorID = vendor.ID
		}
	}
	return nil
}

func (s *StepsContext) vendorShouldExistInDatabase(name string) error {
	var count int64
	if err := s.tc.DB.Table("vendors").Where("name = ?", name).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("vendor %q not found in database", name)
	}
	return nil
}

// Document and analysis steps

func (s *StepsContext) iUploadASOC2Report(filename string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write([]byte("%PDF-1.4 test report contents")); err != nil {
		return err
	}
	if err := writer.WriteField("type", "soc2"); err != nil {
		return err
	}
	if s.vendorID != "" {
		if err := writer.WriteField("vendor_id", s.vendorID); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	if err := s.doRequest("POST", "/api/documents", &buf, writer.FormDataContentType(), true); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		var doc struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(s.responseBody, &doc); err == nil {
			s.documentID = doc.ID
		}
	}
	return nil
}

func (s *StepsContext) anExtractionPayloadExists(payload *godog.DocString) error {
	if s.documentID == "" {
		return fmt.Errorf("no document has been uploaded")
	}

	var storagePath string
	row := s.tc.RawDB.QueryRow(`SELECT storage_path FROM documents WHERE id = $1`, s.documentID)
	if err := row.Scan(&storagePath); err != nil {
		return fmt.Errorf("failed to look up document storage path: %w", err)
	}

	return os.WriteFile(extraction.SidecarPath(storagePath), []byte(payload.Content), 0o600)
}

func (s *StepsContext) iRequestAnalysis() error {
	if err := s.doRequest("POST", "/api/documents/"+s.documentID+"/analyze", nil, "", true); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusAccepted {
		var job struct {
			JobID string `json:"jobId"`
		}
		if err := json.Unmarshal(s.responseBody, &job); err == nil {
			s.jobID = job.JobID
		}
	}
	return nil
}

func (s *StepsContext) theAnalysisJobShouldComplete(seconds int) error {
	if s.jobID == "" {
		return fmt.Errorf("no analysis job was started: %s", s.responseBody)
	}

	deadline := time.Now().Add(time.Duration(seconds) * time.Second)
	for time.Now().Before(deadline) {
		if err := s.doRequest("GET", "/api/jobs/"+s.jobID, nil, "", true); err != nil {
			return err
		}

		var job struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		}
		if err := json.Unmarshal(s.responseBody, &job); err != nil {
			return err
		}

		switch job.Status {
		case "completed":
			return nil
		case "failed":
			return fmt.Errorf("analysis job failed: %s", job.Error)
		}

		time.Sleep(200 * time.Millisecond)
	}

	return fmt.Errorf("analysis job did not complete within %d seconds", seconds)
}

func (s *StepsContext) theDocumentStatusShouldBe(status string) error {
	var actual string
	row := s.tc.RawDB.QueryRow(`SELECT status FROM documents WHERE id = $1`, s.documentID)
	if err := row.Scan(&actual); err != nil {
		return err
	}
	if actual != status {
		return fmt.Errorf("expected document status %q, got %q", status, actual)
	}
	return nil
}

func (s *StepsContext) theCoverageReportShouldShow(minArticles int) error {
	if err := s.doRequest("GET", "/api/intelligence/"+s.documentID+"/coverage", nil, "", true); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("coverage request failed: %d: %s", s.response.StatusCode, s.responseBody)
	}

	var coverage struct {
		ArticlesCovered int `json:"articlesCovered"`
	}
	if err := json.Unmarshal(s.responseBody, &coverage); err != nil {
		return err
	}
	if coverage.ArticlesCovered < minArticles {
		return fmt.Errorf("expected at least %d covered articles, got %d", minArticles, coverage.ArticlesCovered)
	}
	return nil
}

// Task steps

func (s *StepsContext) iCreateATask(title, priority string) error {
	body, _ := json.Marshal(map[string]string{"title": title, "priority": priority})
	return s.doRequest("POST", "/api/tasks", bytes.NewReader(body), "application/json", true)
}

func (s *StepsContext) iListTheTasks() error {
	return s.doRequest("GET", "/api/tasks", nil, "", true)
}

// Dashboard steps

func (s *StepsContext) iRequestWidgetData(widgetType string) error {
	return s.doRequest("GET", "/api/dashboard/widgets/"+widgetType+"/data", nil, "", true)
}

// doRequest issues an HTTP request against the server under test and
// captures the response for later assertions.
func (s *StepsContext) doRequest(method, path string, body io.Reader, contentType string, authed bool) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		if s.authToken == "" {
			return fmt.Errorf("no auth token, log in first")
		}
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}
