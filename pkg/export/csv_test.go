package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/doracomply/doracomply/pkg/scoring"
)

func TestControlMatrixCSV(t *testing.T) {
	controls := []scoring.Control{
		{
			ControlID:   "CC6.1-01",
			TSCCategory: "CC6.1",
			Description: "Logical access controls restrict access",
			TestResult:  scoring.ControlResultOperatingEffectively,
			PageRef:     42,
			Confidence:  0.9,
		},
		{
			ControlID:   "CC7.2-03",
			TSCCategory: "CC7.2",
			TestResult:  scoring.ControlResultException,
		},
	}

	out, err := ControlMatrixCSV(controls)
	if err != nil {
		t.Fatalf("ControlMatrixCSV() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (header + 2 rows)", len(records))
	}
	if records[0][0] != "Control ID" {
		t.Errorf("header[0] = %q, want 'Control ID'", records[0][0])
	}
	if records[1][2] != "CC6" {
		t.Errorf("normalized category = %q, want 'CC6'", records[1][2])
	}
	if records[1][3] != "operating_effectively" {
		t.Errorf("test result = %q, want 'operating_effectively'", records[1][3])
	}
	if records[1][4] != "42" {
		t.Errorf("page = %q, want '42'", records[1][4])
	}
	if records[2][3] != "exception" {
		t.Errorf("test result = %q, want 'exception'", records[2][3])
	}
	// Unset page and confidence stay empty
	if records[2][4] != "" || records[2][5] != "" {
		t.Errorf("unset page/confidence = %q/%q, want empty", records[2][4], records[2][5])
	}
}

func TestControlMatrixCSVEmpty(t *testing.T) {
	out, err := ControlMatrixCSV(nil)
	if err != nil {
		t.Fatalf("ControlMatrixCSV() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want header only", len(records))
	}
}

func TestCoverageCSVSorted(t *testing.T) {
	coverage := scoring.Coverage{
		ArticlesCovered: 2,
		ArticlesTotal:   3,
		ByArticle: map[string]scoring.ArticleCoverage{
			"Article 17": {Title: "ICT-related incident management process", CoverageLevel: scoring.CoverageFull, Confidence: 0.9, Weight: 10},
			"Article 5":  {Title: "Governance and organisation", CoverageLevel: scoring.CoveragePartial, Confidence: 0.6, Weight: 8},
			"Article 28": {Title: "General principles", CoverageLevel: scoring.CoverageNone, Weight: 9},
		},
	}

	out, err := CoverageCSV(coverage)
	if err != nil {
		t.Fatalf("CoverageCSV() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	wantOrder := []string{"Article 5", "Article 17", "Article 28"}
	for i, want := range wantOrder {
		if records[i+1][0] != want {
			t.Errorf("row %d article = %q, want %q", i+1, records[i+1][0], want)
		}
	}
}
