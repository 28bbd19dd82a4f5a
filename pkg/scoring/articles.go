package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// articleInfo describes one DORA article in the mapping matrix.
type articleInfo struct {
	Title         string
	TSCCategories []string
	Weight        float64
	Description   string
}

// doraArticles is the DORA article to TSC category mapping matrix, covering
// Chapters II (risk management), III (incident reporting), IV (resilience
// testing), V (third-party risk) and VI (information sharing).
var doraArticles = map[string]articleInfo{
	"Article 5": {
		Title:         "ICT risk management framework",
		TSCCategories: []string{"CC1", "CC3", "CC4", "CC9"},
		Weight:        1.0,
		Description:   "Governance and accountability for ICT risk management",
	},
	"Article 6": {
		Title:         "ICT systems, protocols and tools",
		TSCCategories: []string{"CC6", "CC7", "CC8", "A"},
		Weight:        1.0,
		Description:   "ICT systems resilience and protection",
	},
	"Article 7": {
		Title:         "Identification",
		TSCCategories: []string{"CC3", "CC6"},
		Weight:        0.8,
		Description:   "Identification of ICT risks and business functions",
	},
	"Article 8": {
		Title:         "Protection and prevention",
		TSCCategories: []string{"CC5", "CC6", "CC7", "C"},
		Weight:        1.0,
		Description:   "ICT security policies and access controls",
	},
	"Article 9": {
		Title:         "Detection",
		TSCCategories: []string{"CC7", "CC4"},
		Weight:        0.8,
		Description:   "Detection of anomalous activities and incidents",
	},
	"Article 10": {
		Title:         "Response and recovery",
		TSCCategories: []string{"CC7", "CC9", "A"},
		Weight:        1.0,
		Description:   "Incident response and recovery procedures",
	},
	"Article 11": {
		Title:         "Backup policies and procedures",
		TSCCategories: []string{"A", "CC7", "CC9"},
		Weight:        0.9,
		Description:   "Data backup and restoration",
	},
	"Article 12": {
		Title:         "Learning and evolving",
		TSCCategories: []string{"CC4", "CC3"},
		Weight:        0.6,
		Description:   "Lessons learned and continuous improvement",
	},
	"Article 13": {
		Title:         "Communication",
		TSCCategories: []string{"CC2", "CC7"},
		Weight:        0.7,
		Description:   "Crisis communication procedures",
	},
	"Article 17": {
		Title:         "ICT-related incident management process",
		TSCCategories: []string{"CC7", "CC2"},
		Weight:        1.0,
		Description:   "Incident classification and management",
	},
	"Article 18": {
		Title:         "Classification of ICT-related incidents",
		TSCCategories: []string{"CC7"},
		Weight:        0.8,
		Description:   "Incident classification criteria",
	},
	"Article 19": {
		Title:         "Reporting of major ICT-related incidents",
		TSCCategories: []string{"CC7", "CC2"},
		Weight:        1.0,
		Description:   "Regulatory incident reporting",
	},
	"Article 24": {
		Title:         "General requirements for testing",
		TSCCategories: []string{"CC4", "CC7", "A"},
		Weight:        0.9,
		Description:   "Testing program requirements",
	},
	"Article 25": {
		Title:         "Testing of ICT tools and systems",
		TSCCategories: []string{"CC7", "CC8", "A"},
		Weight:        0.8,
		Description:   "Vulnerability assessments and testing",
	},
	"Article 28": {
		Title:         "General principles for third-party risk",
		TSCCategories: []string{"CC9"},
		Weight:        1.0,
		Description:   "Third-party ICT risk management strategy",
	},
	"Article 29": {
		Title:         "Preliminary assessment of ICT concentration risk",
		TSCCategories: []string{"CC3", "CC9"},
		Weight:        0.8,
		Description:   "Concentration risk assessment",
	},
	"Article 30": {
		Title:         "Key contractual provisions",
		TSCCategories: []string{"CC9"},
		Weight:        0.9,
		Description:   "Contract requirements for ICT services",
	},
	"Article 45": {
		Title:         "Information sharing arrangements",
		TSCCategories: []string{"CC2", "CC7"},
		Weight:        0.5,
		Description:   "Threat intelligence sharing",
	},
}

// MapControls maps SOC 2 controls onto the DORA article matrix.
//
// Coverage per article depends on how many of the article's mapped categories
// hold controls: at least twice as many controls as categories is full
// coverage at high confidence, at least one control per category is full at
// nominal confidence, anything above zero is partial, and zero is none.
func MapControls(controls []Control) []ArticleMapping {
	buckets := bucketByCategory(controls)

	mappings := make([]ArticleMapping, 0, len(doraArticles))
	for _, article := range articleOrder() {
		info := doraArticles[article]

		var matched []Control
		for _, category := range info.TSCCategories {
			matched = append(matched, buckets[category]...)
		}

		mapping := ArticleMapping{Article: article}
		switch {
		case len(matched) == 0:
			mapping.CoverageLevel = CoverageNone
		case len(matched) >= len(info.TSCCategories)*2:
			mapping.CoverageLevel = CoverageFull
			mapping.Confidence = 0.95
			mapping.SOC2ControlID = matched[0].ControlID
		case len(matched) >= len(info.TSCCategories):
			mapping.CoverageLevel = CoverageFull
			mapping.Confidence = 0.85
			mapping.SOC2ControlID = matched[0].ControlID
		default:
			mapping.CoverageLevel = CoveragePartial
			mapping.Confidence = 0.6 + float64(len(matched))/float64(len(info.TSCCategories))*0.25
			mapping.SOC2ControlID = matched[0].ControlID
		}

		mappings = append(mappings, mapping)
	}

	return mappings
}

// CalculateCoverage reduces article mappings to an overall weighted score.
// Full coverage contributes its article weight scaled by confidence, partial
// contributes half, none contributes nothing.
func CalculateCoverage(mappings []ArticleMapping) Coverage {
	coverage := Coverage{
		ArticlesTotal: len(doraArticles),
		ByArticle:     make(map[string]ArticleCoverage, len(mappings)),
	}
	if len(mappings) == 0 {
		return coverage
	}

	var weightedScore, totalWeight float64
	for _, mapping := range mappings {
		info := doraArticles[mapping.Article]

		var levelScore float64
		switch mapping.CoverageLevel {
		case CoverageFull:
			levelScore = 1.0
		case CoveragePartial:
			levelScore = 0.5
		}

		weightedScore += levelScore * info.Weight * mapping.Confidence
		totalWeight += info.Weight

		if mapping.CoverageLevel != CoverageNone {
			coverage.ArticlesCovered++
		}

		coverage.ByArticle[mapping.Article] = ArticleCoverage{
			Title:         info.Title,
			CoverageLevel: mapping.CoverageLevel,
			Confidence:    mapping.Confidence,
			SOC2Control:   mapping.SOC2ControlID,
			Weight:        info.Weight,
		}
	}

	if totalWeight > 0 {
		coverage.OverallScore = weightedScore / totalWeight
	}
	return coverage
}

// CoverageGaps lists the articles with none or partial coverage, highest
// weight first, with a remediation suggestion naming the missing categories.
func CoverageGaps(coverage Coverage) []Gap {
	var gaps []Gap
	for article, data := range coverage.ByArticle {
		if data.CoverageLevel == CoverageFull {
			continue
		}

		info := doraArticles[article]
		gaps = append(gaps, Gap{
			Article:       article,
			Title:         info.Title,
			Description:   info.Description,
			CoverageLevel: data.CoverageLevel,
			RequiredTSC:   info.TSCCategories,
			Remediation: fmt.Sprintf(
				"Implement controls addressing %s to meet %s requirements.",
				strings.Join(info.TSCCategories, ", "), article,
			),
		})
	}

	sort.Slice(gaps, func(i, j int) bool {
		wi, wj := doraArticles[gaps[i].Article].Weight, doraArticles[gaps[j].Article].Weight
		if wi != wj {
			return wi > wj
		}
		return gaps[i].Article < gaps[j].Article
	})
	return gaps
}

// articleOrder returns the matrix keys in a stable numeric order.
func articleOrder() []string {
	articles := make([]string, 0, len(doraArticles))
	for article := range doraArticles {
		articles = append(articles, article)
	}
	sort.Slice(articles, func(i, j int) bool {
		var ni, nj int
		fmt.Sscanf(articles[i], "Article %d", &ni)
		fmt.Sscanf(articles[j], "Article %d", &nj)
		return ni < nj
	})
	return articles
}
