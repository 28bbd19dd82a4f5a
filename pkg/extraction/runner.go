package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/audit"
	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/scoring"
)

// Runner executes extraction jobs against the database.
type Runner struct {
	db        *gorm.DB
	extractor Extractor
	registry  *scoring.Registry
	log       *logrus.Logger
}

// NewRunner creates a runner. A nil extractor defaults to the sidecar
// extractor and a nil registry to the built-in frameworks.
func NewRunner(db *gorm.DB, extractor Extractor, registry *scoring.Registry, log *logrus.Logger) *Runner {
	if extractor == nil {
		extractor = SidecarExtractor{}
	}
	if registry == nil {
		registry = scoring.DefaultRegistry
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{db: db, extractor: extractor, registry: registry, log: log}
}

// Enqueue runs a job in a new goroutine. Panics are recovered and
// recorded as job failures.
func (r *Runner) Enqueue(jobID string) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.log.WithField("job_id", jobID).Errorf("extraction panic: %v", rec)
				r.fail(jobID, fmt.Sprintf("internal error: %v", rec))
			}
		}()

		if err := r.Run(context.Background(), jobID); err != nil {
			r.log.WithField("job_id", jobID).WithError(err).Error("extraction failed")
		}
	}()
}

// Run executes the pipeline for one job synchronously.
func (r *Runner) Run(ctx context.Context, jobID string) error {
	log := r.log.WithField("job_id", jobID)

	var job model.ExtractionJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		return fmt.Errorf("job %s not found: %w", jobID, err)
	}

	var doc model.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", job.DocumentID).Error; err != nil {
		r.fail(jobID, "document not found")
		return fmt.Errorf("document %s not found: %w", job.DocumentID, err)
	}

	now := time.Now().UTC()
	r.db.WithContext(ctx).Model(&job).Updates(map[string]any{
		"status":     model.JobStatusProcessing,
		"phase":      model.JobPhaseDownloading,
		"progress":   10,
		"message":    "reading document from storage",
		"started_at": &now,
	})
	r.db.WithContext(ctx).Model(&doc).Update("status", model.DocumentStatusAnalyzing)

	if _, err := os.Stat(doc.StoragePath); err != nil {
		r.failWithDocument(jobID, doc.ID, "stored document is missing")
		return fmt.Errorf("stored document missing at %s: %w", doc.StoragePath, err)
	}

	r.progress(ctx, jobID, model.JobPhaseExtracting, 40, "extracting controls")
	payload, err := r.extractor.Extract(ctx, doc.StoragePath)
	if err != nil {
		r.failWithDocument(jobID, doc.ID, err.Error())
		return fmt.Errorf("extraction failed: %w", err)
	}
	log.WithField("controls", len(payload.Controls)).Info("extracted controls")

	r.progress(ctx, jobID, model.JobPhaseScoring, 70, "scoring controls")
	compliance := scoring.CalculateDORACompliance(payload.Controls)
	mappings := scoring.MapControls(payload.Controls)
	coverage := scoring.CalculateCoverage(mappings)
	gaps := scoring.CoverageGaps(coverage)
	frameworks := r.registry.ScoreAll(payload.Controls)

	r.progress(ctx, jobID, model.JobPhaseStoring, 90, "storing results")
	if err := r.store(ctx, &job, &doc, payload, compliance, coverage, gaps, frameworks); err != nil {
		r.failWithDocument(jobID, doc.ID, "failed to store results")
		return fmt.Errorf("failed to store results: %w", err)
	}

	finished := time.Now().UTC()
	r.db.WithContext(ctx).Model(&job).Updates(map[string]any{
		"status":      model.JobStatusCompleted,
		"phase":       model.JobPhaseDone,
		"progress":    100,
		"message":     "analysis complete",
		"finished_at": &finished,
	})
	r.db.WithContext(ctx).Model(&doc).Update("status", model.DocumentStatusAnalyzed)

	vendorID := ""
	if doc.VendorID != nil {
		vendorID = *doc.VendorID
	}
	audit.Log(audit.ScoreEvent{
		DocumentID:   doc.ID,
		VendorID:     vendorID,
		OverallScore: compliance.OverallScore,
		GapCount:     len(compliance.Gaps),
	})
	log.WithField("overall_score", compliance.OverallScore).Info("extraction complete")

	return nil
}

func (r *Runner) store(
	ctx context.Context,
	job *model.ExtractionJob,
	doc *model.Document,
	payload *Payload,
	compliance scoring.Compliance,
	coverage scoring.Coverage,
	gaps []scoring.Gap,
	frameworks []scoring.FrameworkScore,
) error {
	controls, err := json.Marshal(payload.Controls)
	if err != nil {
		return err
	}
	exceptions, err := json.Marshal(payload.Exceptions)
	if err != nil {
		return err
	}
	subserviceOrgs, err := json.Marshal(payload.SubserviceOrgs)
	if err != nil {
		return err
	}
	cuecs, err := json.Marshal(payload.CUECs)
	if err != nil {
		return err
	}
	pillarScores, err := json.Marshal(compliance)
	if err != nil {
		return err
	}
	articleScores, err := json.Marshal(struct {
		Coverage scoring.Coverage `json:"coverage"`
		Gaps     []scoring.Gap    `json:"gaps"`
	}{coverage, gaps})
	if err != nil {
		return err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	periodStart, periodEnd := payload.PeriodDates()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-analysis replaces the previous result for the document.
		if err := tx.Where("document_id = ?", doc.ID).Delete(&model.ParsedSOC2{}).Error; err != nil {
			return err
		}

		parsed := model.ParsedSOC2{
			DocumentID:     doc.ID,
			OrganizationID: doc.OrganizationID,
			ReportType:     payload.ReportType,
			AuditFirm:      payload.AuditFirm,
			Opinion:        payload.Opinion,
			PeriodStart:    periodStart,
			PeriodEnd:      periodEnd,
			ServiceOrgName: payload.ServiceOrgName,
			Controls:       controls,
			Exceptions:     exceptions,
			SubserviceOrgs: subserviceOrgs,
			CUECs:          cuecs,
			OverallScore:   compliance.OverallScore,
			PillarScores:   pillarScores,
			ArticleScores:  articleScores,
			RawExtraction:  raw,
		}
		if err := tx.Create(&parsed).Error; err != nil {
			return err
		}

		if doc.VendorID == nil {
			return nil
		}

		summary, err := json.Marshal(struct {
			Pillars    []scoring.PillarScore    `json:"pillars"`
			Gaps       []scoring.Pillar         `json:"gaps"`
			Frameworks []scoring.FrameworkScore `json:"frameworks,omitempty"`
		}{compliance.Pillars, compliance.Gaps, frameworks})
		if err != nil {
			return err
		}

		assessment := model.VendorAssessment{
			VendorID:       *doc.VendorID,
			OrganizationID: doc.OrganizationID,
			DocumentID:     doc.ID,
			OverallScore:   compliance.OverallScore,
			Summary:        summary,
		}
		return tx.Create(&assessment).Error
	})
}

func (r *Runner) progress(ctx context.Context, jobID, phase string, progress int, message string) {
	r.db.WithContext(ctx).Model(&model.ExtractionJob{}).Where("id = ?", jobID).Updates(map[string]any{
		"phase":    phase,
		"progress": progress,
		"message":  message,
	})
}

func (r *Runner) fail(jobID, errMsg string) {
	finished := time.Now().UTC()
	r.db.Model(&model.ExtractionJob{}).Where("id = ?", jobID).Updates(map[string]any{
		"status":      model.JobStatusFailed,
		"error":       errMsg,
		"finished_at": &finished,
	})
}

func (r *Runner) failWithDocument(jobID, documentID, errMsg string) {
	r.fail(jobID, errMsg)
	r.db.Model(&model.Document{}).Where("id = ?", documentID).Update("status", model.DocumentStatusFailed)
}
