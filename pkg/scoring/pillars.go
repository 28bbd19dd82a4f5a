package scoring

import "sort"

// pillarTitles are the display names used in API responses and reports.
var pillarTitles = map[Pillar]string{
	PillarICTRiskManagement:  "ICT Risk Management",
	PillarIncidentManagement: "ICT Incident Management & Reporting",
	PillarResilienceTesting:  "Digital Operational Resilience Testing",
	PillarThirdPartyRisk:     "ICT Third-Party Risk Management",
	PillarInformationSharing: "Information Sharing Arrangements",
}

// pillarCategories maps each DORA pillar to the TSC categories whose controls
// evidence it. Categories may feed more than one pillar.
var pillarCategories = map[Pillar][]string{
	PillarICTRiskManagement:  {"CC1", "CC3", "CC4", "CC5", "C"},
	PillarIncidentManagement: {"CC2", "CC7"},
	PillarResilienceTesting:  {"CC4", "CC8", "A", "PI"},
	PillarThirdPartyRisk:     {"CC9"},
	PillarInformationSharing: {"CC2"},
}

// gapThreshold is the pillar score below which a pillar counts as a gap.
const gapThreshold = 50.0

// Title returns the display name of the pillar.
func (p Pillar) Title() string {
	return pillarTitles[p]
}

// Categories returns the TSC categories mapped to the pillar.
func (p Pillar) Categories() []string {
	return pillarCategories[p]
}

// CalculateDORACompliance computes the per-pillar and overall DORA compliance
// scores for a set of extracted controls.
//
// Controls are bucketed by normalized TSC category. Each category scores
// effective/total*100, a pillar averages the scores of its mapped categories
// that hold at least one control, and a pillar with no controls at all scores
// zero. The overall score is the unweighted mean of the five pillar scores.
func CalculateDORACompliance(controls []Control) Compliance {
	buckets := bucketByCategory(controls)

	result := Compliance{
		Pillars: make([]PillarScore, 0, len(_PillarValues)),
	}

	var sum float64
	for _, pillar := range PillarValues() {
		score := scorePillar(pillar, buckets)
		sum += score.Score
		result.Pillars = append(result.Pillars, score)
		if score.Score < gapThreshold {
			result.Gaps = append(result.Gaps, pillar)
		}
	}

	result.OverallScore = sum / float64(len(_PillarValues))
	return result
}

func scorePillar(pillar Pillar, buckets map[string][]Control) PillarScore {
	score := PillarScore{
		Pillar: pillar,
		Title:  pillar.Title(),
	}

	var ratioSum float64
	for _, category := range pillarCategories[pillar] {
		controls := buckets[category]
		if len(controls) == 0 {
			continue
		}

		effective := 0
		for _, control := range controls {
			if control.TestResult == ControlResultOperatingEffectively {
				effective++
			}
		}

		ratioSum += float64(effective) / float64(len(controls)) * 100
		score.Categories++
		score.Controls += len(controls)
		score.Effective += effective
	}

	if score.Categories > 0 {
		score.Score = ratioSum / float64(score.Categories)
	}
	return score
}

// EffectivenessByCategory returns the per-category effectiveness ratios used
// by the pillar calculation, keyed by canonical category code. Exposed for
// the controls intelligence view.
func EffectivenessByCategory(controls []Control) map[string]float64 {
	buckets := bucketByCategory(controls)

	ratios := make(map[string]float64, len(buckets))
	for category, group := range buckets {
		effective := 0
		for _, control := range group {
			if control.TestResult == ControlResultOperatingEffectively {
				effective++
			}
		}
		ratios[category] = float64(effective) / float64(len(group)) * 100
	}
	return ratios
}

// MappedCategories returns the sorted set of categories that feed at least
// one pillar.
func MappedCategories() []string {
	seen := map[string]bool{}
	for _, categories := range pillarCategories {
		for _, category := range categories {
			seen[category] = true
		}
	}

	out := make([]string, 0, len(seen))
	for category := range seen {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}
