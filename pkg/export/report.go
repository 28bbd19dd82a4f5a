package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/doracomply/doracomply/pkg/scoring"
)

// Report bundles the analysis results that go into a compliance report.
type Report struct {
	DocumentName string
	VendorName   string
	GeneratedAt  time.Time
	Compliance   scoring.Compliance
	Coverage     scoring.Coverage
	Gaps         []scoring.Gap
	Frameworks   []scoring.FrameworkScore
}

var htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 56rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a2e; }
table { border-collapse: collapse; width: 100%%; margin: 1rem 0; }
th, td { border: 1px solid #d0d0dc; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f2f2f7; }
h1, h2 { border-bottom: 1px solid #d0d0dc; padding-bottom: 0.3rem; }
</style>
</head>
<body>
%s</body>
</html>
`

// Markdown renders the report as markdown.
func (r Report) Markdown() string {
	var sb strings.Builder

	title := "Compliance Report"
	if r.DocumentName != "" {
		title += ": " + r.DocumentName
	}
	sb.WriteString("# " + title + "\n\n")

	if r.VendorName != "" {
		fmt.Fprintf(&sb, "Vendor: %s\n\n", r.VendorName)
	}
	generatedAt := r.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}
	fmt.Fprintf(&sb, "Generated: %s\n\n", generatedAt.UTC().Format("2006-01-02 15:04 UTC"))

	fmt.Fprintf(&sb, "## Overall\n\nDORA compliance score: **%.1f / 100**\n\n", r.Compliance.OverallScore)

	sb.WriteString("## Pillar Scores\n\n")
	sb.WriteString("| Pillar | Score | Controls | Effective |\n")
	sb.WriteString("| --- | ---: | ---: | ---: |\n")
	for _, p := range r.Compliance.Pillars {
		fmt.Fprintf(&sb, "| %s | %.1f | %d | %d |\n", p.Title, p.Score, p.Controls, p.Effective)
	}
	sb.WriteString("\n")

	if r.Coverage.ArticlesTotal > 0 {
		fmt.Fprintf(&sb, "## Article Coverage\n\n%d of %d articles covered (weighted score %.1f).\n\n",
			r.Coverage.ArticlesCovered, r.Coverage.ArticlesTotal, r.Coverage.OverallScore)

		articles := make([]string, 0, len(r.Coverage.ByArticle))
		for article := range r.Coverage.ByArticle {
			articles = append(articles, article)
		}
		sort.Slice(articles, func(i, j int) bool {
			return articleNumber(articles[i]) < articleNumber(articles[j])
		})

		sb.WriteString("| Article | Title | Coverage | Confidence |\n")
		sb.WriteString("| --- | --- | --- | ---: |\n")
		for _, article := range articles {
			ac := r.Coverage.ByArticle[article]
			fmt.Fprintf(&sb, "| %s | %s | %s | %.2f |\n", article, ac.Title, ac.CoverageLevel, ac.Confidence)
		}
		sb.WriteString("\n")
	}

	if len(r.Gaps) > 0 {
		sb.WriteString("## Gaps\n\n")
		for _, gap := range r.Gaps {
			fmt.Fprintf(&sb, "### %s: %s\n\nCoverage: %s\n\n%s\n\n", gap.Article, gap.Title, gap.CoverageLevel, gap.Remediation)
		}
	}

	if len(r.Frameworks) > 0 {
		sb.WriteString("## Other Frameworks\n\n")
		sb.WriteString("| Framework | Score | Gaps |\n")
		sb.WriteString("| --- | ---: | ---: |\n")
		for _, fw := range r.Frameworks {
			fmt.Fprintf(&sb, "| %s | %.1f | %d |\n", fw.Name, fw.OverallScore, len(fw.Gaps))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// HTML renders the report as a standalone HTML page.
func (r Report) HTML() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(r.Markdown()), &body); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	title := "Compliance Report"
	if r.DocumentName != "" {
		title += ": " + r.DocumentName
	}
	return []byte(fmt.Sprintf(htmlPage, title, body.String())), nil
}
