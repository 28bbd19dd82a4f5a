package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// ExportStepsContext holds state for export scenarios that run against a
// scoped server instance with a restricted configuration.
type ExportStepsContext struct {
	common   *StepsContext
	instance *ServerInstance
}

// NewExportStepsContext creates export steps that share state with the
// common steps.
func NewExportStepsContext(common *StepsContext) *ExportStepsContext {
	return &ExportStepsContext{common: common}
}

// RegisterSteps registers the export step definitions
func (s *ExportStepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a server allowing only "([^"]*)" exports is running$`, s.aServerAllowingOnlyExports)
	sc.Step(`^I export the uploaded document as "([^"]*)"$`, s.iExportTheUploadedDocumentAs)
	sc.Step(`^I export the uploaded document as "([^"]*)" from the restricted server$`, s.iExportFromRestrictedServer)
	sc.Step(`^the export should have content type "([^"]*)"$`, s.theExportShouldHaveContentType)

	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if s.instance != nil {
			s.instance.Stop()
			s.instance = nil
		}
		return ctx, nil
	})
}

func (s *ExportStepsContext) aServerAllowingOnlyExports(formats string) error {
	cfg := DefaultServerConfig()
	cfg.ExportFormats = strings.Split(formats, ",")

	instance, err := StartServer(s.common.tc, s.common.tc.DatabaseURL, cfg)
	if err != nil {
		return err
	}
	s.instance = instance
	return nil
}

func (s *ExportStepsContext) iExportTheUploadedDocumentAs(format string) error {
	return s.common.doRequest("GET", "/api/documents/"+s.common.documentID+"/export?format="+format, nil, "", true)
}

func (s *ExportStepsContext) iExportFromRestrictedServer(format string) error {
	if s.instance == nil {
		return fmt.Errorf("no restricted server is running")
	}
	if s.common.authToken == "" {
		return fmt.Errorf("no auth token, log in first")
	}

	url := s.instance.ServerURL + "/api/documents/" + s.common.documentID + "/export?format=" + format
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.common.authToken)

	s.common.response, err = s.common.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.common.responseBody, err = io.ReadAll(s.common.response.Body)
	_ = s.common.response.Body.Close()
	return err
}

func (s *ExportStepsContext) theExportShouldHaveContentType(contentType string) error {
	got := s.common.response.Header.Get("Content-Type")
	if !strings.HasPrefix(got, contentType) {
		return fmt.Errorf("expected content type %q, got %q", contentType, got)
	}
	return nil
}
