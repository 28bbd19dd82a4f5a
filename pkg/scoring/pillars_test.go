package scoring

import (
	"math"
	"math/rand"
	"testing"
)

func effectiveControl(id, category string) Control {
	return Control{ControlID: id, TSCCategory: category, TestResult: ControlResultOperatingEffectively}
}

func exceptionControl(id, category string) Control {
	return Control{ControlID: id, TSCCategory: category, TestResult: ControlResultException}
}

// controlsForAllCategories returns one effective control per mapped category.
func controlsForAllCategories() []Control {
	var controls []Control
	for _, category := range MappedCategories() {
		controls = append(controls, effectiveControl(category+"-1", category))
	}
	return controls
}

func TestCalculateDORAComplianceEmptyInput(t *testing.T) {
	result := CalculateDORACompliance(nil)

	if result.OverallScore != 0 {
		t.Errorf("expected overall score 0, got %v", result.OverallScore)
	}
	if len(result.Pillars) != 5 {
		t.Fatalf("expected 5 pillar scores, got %d", len(result.Pillars))
	}
	for _, pillar := range result.Pillars {
		if pillar.Score != 0 {
			t.Errorf("pillar %s: expected score 0, got %v", pillar.Pillar, pillar.Score)
		}
	}
	if len(result.Gaps) != 5 {
		t.Errorf("expected all 5 pillars as gaps, got %d", len(result.Gaps))
	}
}

func TestCalculateDORAComplianceAllEffective(t *testing.T) {
	result := CalculateDORACompliance(controlsForAllCategories())

	for _, pillar := range result.Pillars {
		if pillar.Score != 100 {
			t.Errorf("pillar %s: expected 100, got %v", pillar.Pillar, pillar.Score)
		}
	}
	if result.OverallScore != 100 {
		t.Errorf("expected overall 100, got %v", result.OverallScore)
	}
	if len(result.Gaps) != 0 {
		t.Errorf("expected no gaps, got %v", result.Gaps)
	}
}

func TestCalculateDORAComplianceOverallIsMeanOfPillars(t *testing.T) {
	controls := []Control{
		effectiveControl("CC1.1", "CC1"),
		exceptionControl("CC1.2", "CC1"),
		effectiveControl("CC7.1", "CC7"),
		effectiveControl("CC9.1", "CC9"),
		exceptionControl("A1.1", "A"),
	}

	result := CalculateDORACompliance(controls)

	var sum float64
	for _, pillar := range result.Pillars {
		sum += pillar.Score
	}
	if got, want := result.OverallScore, sum/5; math.Abs(got-want) > 1e-9 {
		t.Errorf("overall score %v != mean of pillars %v", got, want)
	}
}

func TestCalculateDORAComplianceGapsArePillarsBelowFifty(t *testing.T) {
	// Third-party risk maps only CC9: all exceptions drives it to 0.
	// Incident management gets fully effective CC7 controls.
	controls := []Control{
		exceptionControl("CC9.1", "CC9"),
		exceptionControl("CC9.2", "CC9"),
		effectiveControl("CC7.1", "CC7"),
		effectiveControl("CC2.1", "CC2"),
	}

	result := CalculateDORACompliance(controls)

	gaps := map[Pillar]bool{}
	for _, gap := range result.Gaps {
		gaps[gap] = true
	}
	for _, pillar := range result.Pillars {
		if (pillar.Score < 50) != gaps[pillar.Pillar] {
			t.Errorf("pillar %s score %v: gap membership mismatch", pillar.Pillar, pillar.Score)
		}
	}
	if !gaps[PillarThirdPartyRisk] {
		t.Error("expected third_party_risk to be a gap")
	}
	if gaps[PillarIncidentManagement] {
		t.Error("did not expect incident_management to be a gap")
	}
}

func TestCalculateDORAComplianceOrderIndependent(t *testing.T) {
	controls := []Control{
		effectiveControl("CC1.1", "CC1"),
		exceptionControl("CC3.1", "CC3"),
		effectiveControl("CC7.1", "CC7"),
		exceptionControl("CC7.2", "CC7"),
		effectiveControl("CC9.1", "CC9"),
		effectiveControl("A1.1", "A"),
		exceptionControl("C1.1", "C"),
	}

	want := CalculateDORACompliance(controls)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]Control, len(controls))
		copy(shuffled, controls)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := CalculateDORACompliance(shuffled)
		if got.OverallScore != want.OverallScore {
			t.Fatalf("overall score changed with input order: %v != %v", got.OverallScore, want.OverallScore)
		}
		for j := range got.Pillars {
			if got.Pillars[j].Score != want.Pillars[j].Score {
				t.Fatalf("pillar %s score changed with input order", got.Pillars[j].Pillar)
			}
		}
	}
}

func TestScorePillarAveragesAcrossCategoriesWithControls(t *testing.T) {
	// ICT risk management maps CC1, CC3, CC4, CC5, C. Only CC1 (50%) and
	// CC4 (100%) hold controls, so the pillar averages those two ratios.
	controls := []Control{
		effectiveControl("CC1.1", "CC1"),
		exceptionControl("CC1.2", "CC1"),
		effectiveControl("CC4.1", "CC4"),
	}

	result := CalculateDORACompliance(controls)

	var ictRisk PillarScore
	for _, pillar := range result.Pillars {
		if pillar.Pillar == PillarICTRiskManagement {
			ictRisk = pillar
		}
	}

	if ictRisk.Score != 75 {
		t.Errorf("expected ict_risk_management score 75, got %v", ictRisk.Score)
	}
	if ictRisk.Categories != 2 {
		t.Errorf("expected 2 populated categories, got %d", ictRisk.Categories)
	}
	if ictRisk.Controls != 3 || ictRisk.Effective != 2 {
		t.Errorf("unexpected control counts: %+v", ictRisk)
	}
}

func TestEffectivenessByCategory(t *testing.T) {
	controls := []Control{
		effectiveControl("CC6.1", "CC6.1"),
		exceptionControl("CC6.2", "CC6.2"),
		effectiveControl("A1.1", "A1.1"),
	}

	ratios := EffectivenessByCategory(controls)

	if ratios["CC6"] != 50 {
		t.Errorf("expected CC6 ratio 50, got %v", ratios["CC6"])
	}
	if ratios["A"] != 100 {
		t.Errorf("expected A ratio 100, got %v", ratios["A"])
	}
}
