package scoring

// Requirement is a single requirement inside a compliance framework, scored
// from the controls in its mapped TSC categories.
type Requirement struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	TSCCategories []string `json:"tscCategories" yaml:"tsc_categories"`
}

// Framework is a scoreable compliance framework.
type Framework struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Requirements []Requirement `json:"requirements" yaml:"requirements"`
}

// RequirementScore is the computed score for a single framework requirement.
type RequirementScore struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Score    float64 `json:"score"`
	Controls int     `json:"controls"`
}

// FrameworkScore is the scored result for one framework.
type FrameworkScore struct {
	FrameworkID  string             `json:"frameworkId"`
	Name         string             `json:"name"`
	OverallScore float64            `json:"overallScore"`
	Requirements []RequirementScore `json:"requirements"`
	Gaps         []string           `json:"gaps,omitempty"`
}

// ScoreFramework scores controls against one framework. Each requirement
// averages the effectiveness ratio over its mapped categories that hold
// controls (zero when none do), and the framework score is the unweighted
// mean over requirements. Requirements below the gap threshold are reported.
func ScoreFramework(fw Framework, controls []Control) FrameworkScore {
	buckets := bucketByCategory(controls)

	result := FrameworkScore{
		FrameworkID:  fw.ID,
		Name:         fw.Name,
		Requirements: make([]RequirementScore, 0, len(fw.Requirements)),
	}
	if len(fw.Requirements) == 0 {
		return result
	}

	var sum float64
	for _, req := range fw.Requirements {
		score := RequirementScore{ID: req.ID, Title: req.Title}

		var ratioSum float64
		categories := 0
		for _, category := range req.TSCCategories {
			group := buckets[category]
			if len(group) == 0 {
				continue
			}
			effective := 0
			for _, control := range group {
				if control.TestResult == ControlResultOperatingEffectively {
					effective++
				}
			}
			ratioSum += float64(effective) / float64(len(group)) * 100
			categories++
			score.Controls += len(group)
		}
		if categories > 0 {
			score.Score = ratioSum / float64(categories)
		}

		sum += score.Score
		result.Requirements = append(result.Requirements, score)
		if score.Score < gapThreshold {
			result.Gaps = append(result.Gaps, req.ID)
		}
	}

	result.OverallScore = sum / float64(len(fw.Requirements))
	return result
}

// Built-in framework requirement tables. The DORA pillar calculation has its
// own dedicated path; these tables cover the remaining frameworks surfaced on
// the dashboard. Mappings are product decisions, not derivations.
var builtinFrameworks = []Framework{
	{
		ID:   "nis2",
		Name: "NIS2 Directive",
		Requirements: []Requirement{
			{ID: "nis2-governance", Title: "Governance and risk analysis", TSCCategories: []string{"CC1", "CC3"}},
			{ID: "nis2-incident-handling", Title: "Incident handling", TSCCategories: []string{"CC7"}},
			{ID: "nis2-continuity", Title: "Business continuity and crisis management", TSCCategories: []string{"A", "CC9"}},
			{ID: "nis2-supply-chain", Title: "Supply chain security", TSCCategories: []string{"CC9"}},
			{ID: "nis2-access-control", Title: "Access control and asset management", TSCCategories: []string{"CC5", "CC6"}},
			{ID: "nis2-crypto", Title: "Cryptography and encryption policies", TSCCategories: []string{"C", "CC6"}},
		},
	},
	{
		ID:   "gdpr",
		Name: "GDPR",
		Requirements: []Requirement{
			{ID: "gdpr-security-of-processing", Title: "Security of processing (Art. 32)", TSCCategories: []string{"CC6", "C"}},
			{ID: "gdpr-breach-notification", Title: "Breach notification (Art. 33-34)", TSCCategories: []string{"CC2", "CC7"}},
			{ID: "gdpr-privacy", Title: "Data subject rights and privacy", TSCCategories: []string{"P"}},
			{ID: "gdpr-processors", Title: "Processor obligations (Art. 28)", TSCCategories: []string{"CC9"}},
			{ID: "gdpr-integrity", Title: "Accuracy and integrity of processing", TSCCategories: []string{"PI"}},
		},
	},
	{
		ID:   "iso27001",
		Name: "ISO/IEC 27001",
		Requirements: []Requirement{
			{ID: "iso-a5", Title: "Organizational controls", TSCCategories: []string{"CC1", "CC2", "CC3"}},
			{ID: "iso-a5-monitoring", Title: "Monitoring, review and improvement", TSCCategories: []string{"CC4"}},
			{ID: "iso-a8-access", Title: "Access control", TSCCategories: []string{"CC5", "CC6"}},
			{ID: "iso-a8-ops", Title: "Operations and incident security", TSCCategories: []string{"CC7"}},
			{ID: "iso-a8-change", Title: "Change management", TSCCategories: []string{"CC8"}},
			{ID: "iso-a5-supplier", Title: "Supplier relationships", TSCCategories: []string{"CC9"}},
			{ID: "iso-a8-continuity", Title: "ICT readiness for business continuity", TSCCategories: []string{"A"}},
		},
	},
}
