package scoring

//go:generate go run github.com/dmarkham/enumer -type ControlResult -trimprefix ControlResult -transform snake -json -output controlresult.gen.go

// ControlResult is the auditor's test result for a single SOC 2 control.
type ControlResult int

const (
	ControlResultOperatingEffectively ControlResult = iota
	ControlResultException
	ControlResultNotTested
)

//go:generate go run github.com/dmarkham/enumer -type Pillar -trimprefix Pillar -transform snake -json -output pillar.gen.go

// Pillar is one of the five DORA pillars scored by the engine.
type Pillar int

const (
	PillarICTRiskManagement Pillar = iota
	PillarIncidentManagement
	PillarResilienceTesting
	PillarThirdPartyRisk
	PillarInformationSharing
)

// Control is a single control extracted from a SOC 2 report.
type Control struct {
	ControlID   string        `json:"controlId"`
	TSCCategory string        `json:"tscCategory"`
	Description string        `json:"description,omitempty"`
	TestResult  ControlResult `json:"testResult"`
	PageRef     int           `json:"pageRef,omitempty"`
	Confidence  float64       `json:"confidence,omitempty"`
}

// PillarScore is the computed score for one DORA pillar.
type PillarScore struct {
	Pillar     Pillar  `json:"pillar"`
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
	Controls   int     `json:"controls"`
	Effective  int     `json:"effective"`
	Categories int     `json:"categories"`
}

// Compliance is the pillar-level DORA compliance result.
type Compliance struct {
	OverallScore float64       `json:"overallScore"`
	Pillars      []PillarScore `json:"pillars"`
	Gaps         []Pillar      `json:"gaps"`
}

// CoverageLevel classifies how well an article is addressed by controls.
type CoverageLevel string

const (
	CoverageFull    CoverageLevel = "full"
	CoveragePartial CoverageLevel = "partial"
	CoverageNone    CoverageLevel = "none"
)

// ArticleMapping maps SOC 2 controls onto a single DORA article.
type ArticleMapping struct {
	Article       string        `json:"article"`
	CoverageLevel CoverageLevel `json:"coverageLevel"`
	Confidence    float64       `json:"confidence"`
	SOC2ControlID string        `json:"soc2ControlId,omitempty"`
}

// ArticleCoverage describes one article's coverage inside a Coverage result.
type ArticleCoverage struct {
	Title         string        `json:"title"`
	CoverageLevel CoverageLevel `json:"coverageLevel"`
	Confidence    float64       `json:"confidence"`
	SOC2Control   string        `json:"soc2Control,omitempty"`
	Weight        float64       `json:"weight"`
}

// Coverage is the article-level DORA coverage result.
type Coverage struct {
	OverallScore    float64                    `json:"overallScore"`
	ArticlesCovered int                        `json:"articlesCovered"`
	ArticlesTotal   int                        `json:"articlesTotal"`
	ByArticle       map[string]ArticleCoverage `json:"byArticle"`
}

// Gap is a DORA article with no or partial coverage, with a remediation hint.
type Gap struct {
	Article       string        `json:"article"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	CoverageLevel CoverageLevel `json:"coverageLevel"`
	RequiredTSC   []string      `json:"requiredTscCategories"`
	Remediation   string        `json:"remediation"`
}
