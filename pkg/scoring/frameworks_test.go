package scoring

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScoreFrameworkAllEffective(t *testing.T) {
	fw, ok := NewRegistry().Get("iso27001")
	if !ok {
		t.Fatal("iso27001 not registered")
	}

	var controls []Control
	for _, req := range fw.Requirements {
		for _, category := range req.TSCCategories {
			controls = append(controls, effectiveControl(category+"-1", category))
		}
	}

	score := ScoreFramework(fw, controls)

	if score.OverallScore != 100 {
		t.Errorf("expected overall 100, got %v", score.OverallScore)
	}
	if len(score.Gaps) != 0 {
		t.Errorf("expected no gaps, got %v", score.Gaps)
	}
}

func TestScoreFrameworkUnevidencedRequirementScoresZero(t *testing.T) {
	fw, ok := NewRegistry().Get("gdpr")
	if !ok {
		t.Fatal("gdpr not registered")
	}

	// No privacy controls at all: gdpr-privacy must score 0 and be a gap.
	score := ScoreFramework(fw, []Control{
		effectiveControl("CC6.1", "CC6"),
		effectiveControl("CC9.1", "CC9"),
	})

	var privacy *RequirementScore
	for i := range score.Requirements {
		if score.Requirements[i].ID == "gdpr-privacy" {
			privacy = &score.Requirements[i]
		}
	}
	if privacy == nil {
		t.Fatal("gdpr-privacy requirement missing from score")
	}
	if privacy.Score != 0 {
		t.Errorf("expected gdpr-privacy score 0, got %v", privacy.Score)
	}

	found := false
	for _, gap := range score.Gaps {
		if gap == "gdpr-privacy" {
			found = true
		}
	}
	if !found {
		t.Error("expected gdpr-privacy in gaps")
	}
}

func TestRegistryListAndGet(t *testing.T) {
	registry := NewRegistry()

	frameworks := registry.List()
	if len(frameworks) != 3 {
		t.Fatalf("expected 3 built-in frameworks, got %d", len(frameworks))
	}
	for i := 1; i < len(frameworks); i++ {
		if frameworks[i-1].ID >= frameworks[i].ID {
			t.Error("frameworks not sorted by ID")
		}
	}

	if _, ok := registry.Get("nis2"); !ok {
		t.Error("nis2 not registered")
	}
	if _, ok := registry.Get("unknown"); ok {
		t.Error("unexpected framework registered")
	}
}

func TestRegistryRegisterValidation(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(Framework{Name: "no id"}); err == nil {
		t.Error("expected error for missing framework id")
	}
	if err := registry.Register(Framework{ID: "empty", Name: "empty"}); err == nil {
		t.Error("expected error for framework without requirements")
	}
}

func TestRegistryLoadOverrides(t *testing.T) {
	overrides := `frameworks:
  - id: nis2
    name: NIS2 (custom)
    requirements:
      - id: only-one
        title: Single requirement
        tsc_categories: [CC7]
  - id: internal
    name: Internal policy
    requirements:
      - id: int-1
        title: Internal control baseline
        tsc_categories: [CC1, CC5]
`
	path := filepath.Join(t.TempDir(), "frameworks.yml")
	if err := os.WriteFile(path, []byte(overrides), 0o600); err != nil {
		t.Fatal(err)
	}

	registry := NewRegistry()
	if err := registry.LoadOverrides(path); err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}

	nis2, _ := registry.Get("nis2")
	if nis2.Name != "NIS2 (custom)" || len(nis2.Requirements) != 1 {
		t.Errorf("nis2 override not applied: %+v", nis2)
	}
	if _, ok := registry.Get("internal"); !ok {
		t.Error("internal framework not registered")
	}
	if len(registry.List()) != 4 {
		t.Errorf("expected 4 frameworks after overrides, got %d", len(registry.List()))
	}

	score := ScoreFramework(nis2, []Control{effectiveControl("CC7.1", "CC7")})
	if score.OverallScore != 100 {
		t.Errorf("expected overridden nis2 to score 100, got %v", score.OverallScore)
	}
}

func TestRegistryLoadOverridesMissingFile(t *testing.T) {
	registry := NewRegistry()
	if err := registry.LoadOverrides(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}
