package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/doracomply/doracomply/pkg/scoring"
)

// ControlMatrixCSV renders the extracted control matrix as CSV.
// Columns: control ID, raw TSC category, normalized category, test
// result, page reference, confidence, description.
func ControlMatrixCSV(controls []scoring.Control) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Control ID", "TSC Category", "Normalized Category", "Test Result", "Page", "Confidence", "Description"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, c := range controls {
		page := ""
		if c.PageRef > 0 {
			page = strconv.Itoa(c.PageRef)
		}
		confidence := ""
		if c.Confidence > 0 {
			confidence = strconv.FormatFloat(c.Confidence, 'f', 2, 64)
		}
		record := []string{
			c.ControlID,
			c.TSCCategory,
			scoring.NormalizeCategory(c.TSCCategory),
			c.TestResult.String(),
			page,
			confidence,
			c.Description,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CoverageCSV renders article coverage as CSV, ordered by article number.
func CoverageCSV(coverage scoring.Coverage) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Article", "Title", "Coverage", "Confidence", "Weight", "Mapped Control"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	articles := make([]string, 0, len(coverage.ByArticle))
	for article := range coverage.ByArticle {
		articles = append(articles, article)
	}
	sort.Slice(articles, func(i, j int) bool {
		return articleNumber(articles[i]) < articleNumber(articles[j])
	})

	for _, article := range articles {
		ac := coverage.ByArticle[article]
		record := []string{
			article,
			ac.Title,
			string(ac.CoverageLevel),
			strconv.FormatFloat(ac.Confidence, 'f', 2, 64),
			strconv.FormatFloat(ac.Weight, 'f', 1, 64),
			ac.SOC2Control,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func articleNumber(article string) int {
	var n int
	_, _ = fmt.Sscanf(article, "Article %d", &n)
	return n
}
