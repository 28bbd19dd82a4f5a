package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/doracomply/doracomply/pkg/audit"
	"github.com/doracomply/doracomply/pkg/config"
	"github.com/doracomply/doracomply/pkg/export"
	"github.com/doracomply/doracomply/pkg/extraction"
	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/scoring"
	"github.com/doracomply/doracomply/pkg/server"
	"github.com/doracomply/doracomply/pkg/server/middleware"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// Uploads are capped at 50 MiB.
const maxUploadBytes = 50 << 20

// DocumentResponse is the public view of a document
type DocumentResponse struct {
	ID        string     `json:"id"`
	VendorID  *string    `json:"vendorId,omitempty"`
	Filename  string     `json:"filename"`
	MimeType  string     `json:"mimeType,omitempty"`
	SizeBytes int64      `json:"sizeBytes"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// AnalysisResponse is the public view of a stored analysis
type AnalysisResponse struct {
	DocumentID     string      `json:"documentId"`
	ReportType     string      `json:"reportType,omitempty"`
	AuditFirm      string      `json:"auditFirm,omitempty"`
	Opinion        string      `json:"opinion,omitempty"`
	PeriodStart    *time.Time  `json:"periodStart,omitempty"`
	PeriodEnd      *time.Time  `json:"periodEnd,omitempty"`
	ServiceOrgName string      `json:"serviceOrganization,omitempty"`
	Controls       model.JSONB `json:"controls"`
	Exceptions     model.JSONB `json:"exceptions"`
	SubserviceOrgs model.JSONB `json:"subserviceOrganizations"`
	CUECs          model.JSONB `json:"cuecs"`
	OverallScore   float64     `json:"overallScore"`
	PillarScores   model.JSONB `json:"pillarScores"`
	ArticleScores  model.JSONB `json:"articleScores"`
	AnalyzedAt     time.Time   `json:"analyzedAt"`
}

func documentResponse(doc *model.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID,
		VendorID:  doc.VendorID,
		Filename:  doc.Filename,
		MimeType:  doc.MimeType,
		SizeBytes: doc.SizeBytes,
		Type:      doc.Type,
		Status:    doc.Status,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

// RegisterDocumentsEndpoints registers the document endpoints
func RegisterDocumentsEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api/documents").Subrouter()
	r.Use(s.Session.Middleware)

	r.HandleFunc("", handleListDocuments(s.DocumentsStore, s.Config)).Methods("GET")
	r.HandleFunc("", handleUploadDocument(s.DocumentsStore, s.Config)).Methods("POST")
	r.HandleFunc("/{id}", handleGetDocument(s.DocumentsStore)).Methods("GET")
	r.HandleFunc("/{id}", handleDeleteDocument(s.DocumentsStore, s.Config)).Methods("DELETE")
	r.HandleFunc("/{id}/analyze", handleAnalyzeDocument(s.DocumentsStore, s.JobsStore, s.Runner, s.Config)).Methods("POST")
	r.HandleFunc("/{id}/analysis", handleGetAnalysis(s.DocumentsStore, s.AnalysesStore)).Methods("GET")
	r.HandleFunc("/{id}/export", handleExportDocument(s.DocumentsStore, s.AnalysesStore, s.Config)).Methods("GET")
}

func handleListDocuments(documentsStore store.DocumentsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		limit, offset := listParams(r, cfg)

		filter := store.DocumentFilter{
			VendorID: r.URL.Query().Get("vendor_id"),
			Type:     r.URL.Query().Get("type"),
			Status:   r.URL.Query().Get("status"),
			Limit:    limit,
			Offset:   offset,
		}

		if r.URL.Query().Get("count") == "true" {
			count, err := documentsStore.CountDocuments(orgID, filter)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to count documents")
				return
			}
			respondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
			return
		}

		docs, err := documentsStore.ListDocuments(orgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list documents")
			return
		}

		responses := make([]DocumentResponse, 0, len(docs))
		for i := range docs {
			responses = append(responses, documentResponse(&docs[i]))
		}
		respondWithJSON(w, http.StatusOK, responses)
	}
}

func handleUploadDocument(documentsStore store.DocumentsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		userID := middleware.UserID(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "file field is required")
			return
		}
		defer file.Close()

		docType := r.FormValue("type")
		if docType == "" {
			docType = model.DocumentTypeSOC2
		}
		switch docType {
		case model.DocumentTypeSOC2, model.DocumentTypeQuestionnaire, model.DocumentTypeContract, model.DocumentTypeOther:
		default:
			respondWithError(w, http.StatusBadRequest, "unknown document type")
			return
		}

		var vendorID *string
		if v := r.FormValue("vendor_id"); v != "" {
			vendorID = &v
		}

		if err := os.MkdirAll(cfg.UploadsDir, 0o750); err != nil {
			respondWithError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}

		storagePath := filepath.Join(cfg.UploadsDir, uuid.NewString()+filepath.Ext(header.Filename))
		dst, err := os.OpenFile(storagePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}

		written, err := io.Copy(dst, file)
		closeErr := dst.Close()
		if err != nil || closeErr != nil {
			_ = os.Remove(storagePath)
			respondWithError(w, http.StatusInternalServerError, "failed to store file")
			return
		}

		doc := model.Document{
			OrganizationID: orgID,
			VendorID:       vendorID,
			Filename:       header.Filename,
			StoragePath:    storagePath,
			MimeType:       header.Header.Get("Content-Type"),
			SizeBytes:      written,
			Type:           docType,
			Status:         model.DocumentStatusUploaded,
			UploadedBy:     userID,
		}
		if err := documentsStore.CreateDocument(&doc); err != nil {
			_ = os.Remove(storagePath)
			respondWithError(w, http.StatusInternalServerError, "failed to create document")
			return
		}

		audit.Log(audit.DocumentEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			DocumentID: doc.ID,
			Operation:  "upload",
			Detail:     doc.Filename,
			Success:    true,
		})
		respondWithJSON(w, http.StatusCreated, documentResponse(&doc))
	}
}

func handleGetDocument(documentsStore store.DocumentsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		id := mux.Vars(r)["id"]

		doc, err := documentsStore.GetDocument(orgID, id)
		if err != nil {
			if errors.Is(err, store.ErrDocumentNotFound) {
				respondWithError(w, http.StatusNotFound, "document not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		respondWithJSON(w, http.StatusOK, documentResponse(doc))
	}
}

func handleDeleteDocument(documentsStore store.DocumentsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		if middleware.UserRole(ctx) != model.UserRoleAdmin {
			respondWithError(w, http.StatusForbidden, "admin role required")
			return
		}

		if err := documentsStore.DeleteDocument(orgID, id); err != nil {
			if errors.Is(err, store.ErrDocumentNotFound) {
				respondWithError(w, http.StatusNotFound, "document not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "delete failed")
			return
		}

		audit.Log(audit.DocumentEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			DocumentID: id,
			Operation:  "delete",
			Success:    true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAnalyzeDocument(documentsStore store.DocumentsStore, jobsStore store.JobsStore, runner *extraction.Runner, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		doc, err := documentsStore.GetDocument(orgID, id)
		if err != nil {
			if errors.Is(err, store.ErrDocumentNotFound) {
				respondWithError(w, http.StatusNotFound, "document not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		if doc.Status == model.DocumentStatusAnalyzing {
			respondWithError(w, http.StatusConflict, "analysis already in progress")
			return
		}

		job := model.ExtractionJob{
			DocumentID:     doc.ID,
			OrganizationID: orgID,
			Status:         model.JobStatusPending,
			Phase:          model.JobPhaseInitializing,
		}
		if err := jobsStore.CreateJob(&job); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to create job")
			return
		}

		runner.Enqueue(job.ID)

		audit.Log(audit.DocumentEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			DocumentID: doc.ID,
			Operation:  "analyze",
			Success:    true,
		})
		respondWithJSON(w, http.StatusAccepted, map[string]string{
			"jobId":  job.ID,
			"status": model.JobStatusPending,
		})
	}
}

func handleGetAnalysis(documentsStore store.DocumentsStore, analysesStore store.AnalysesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		id := mux.Vars(r)["id"]

		if _, err := documentsStore.GetDocument(orgID, id); err != nil {
			if errors.Is(err, store.ErrDocumentNotFound) {
				respondWithError(w, http.StatusNotFound, "document not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		parsed, err := analysesStore.GetAnalysisByDocument(orgID, id)
		if err != nil {
			if errors.Is(err, store.ErrAnalysisNotFound) {
				respondWithError(w, http.StatusNotFound, "document has not been analyzed")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		respondWithJSON(w, http.StatusOK, AnalysisResponse{
			DocumentID:     parsed.DocumentID,
			ReportType:     parsed.ReportType,
			AuditFirm:      parsed.AuditFirm,
			Opinion:        parsed.Opinion,
			PeriodStart:    parsed.PeriodStart,
			PeriodEnd:      parsed.PeriodEnd,
			ServiceOrgName: parsed.ServiceOrgName,
			Controls:       parsed.Controls,
			Exceptions:     parsed.Exceptions,
			SubserviceOrgs: parsed.SubserviceOrgs,
			CUECs:          parsed.CUECs,
			OverallScore:   parsed.OverallScore,
			PillarScores:   parsed.PillarScores,
			ArticleScores:  parsed.ArticleScores,
			AnalyzedAt:     parsed.CreatedAt,
		})
	}
}

func handleExportDocument(documentsStore store.DocumentsStore, analysesStore store.AnalysesStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		format := r.URL.Query().Get("format")
		if format == "" {
			format = "csv"
		}
		if !cfg.IsExportFormatEnabled(format) {
			respondWithError(w, http.StatusBadRequest, "unsupported export format")
			return
		}

		doc, err := documentsStore.GetDocument(orgID, id)
		if err != nil {
			if errors.Is(err, store.ErrDocumentNotFound) {
				respondWithError(w, http.StatusNotFound, "document not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		parsed, err := analysesStore.GetAnalysisByDocument(orgID, id)
		if err != nil {
			if errors.Is(err, store.ErrAnalysisNotFound) {
				respondWithError(w, http.StatusNotFound, "document has not been analyzed")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		var controls []scoring.Control
		if len(parsed.Controls) > 0 {
			if err := json.Unmarshal(parsed.Controls, &controls); err != nil {
				respondWithError(w, http.StatusInternalServerError, "stored analysis is corrupt")
				return
			}
		}

		var body []byte
		switch format {
		case "csv":
			body, err = export.ControlMatrixCSV(controls)
		case "html":
			body, err = exportHTMLReport(doc, parsed, controls)
		default:
			respondWithError(w, http.StatusBadRequest, "unsupported export format")
			return
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "export failed")
			return
		}

		audit.Log(audit.DocumentEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			DocumentID: doc.ID,
			Operation:  "export",
			Detail:     format,
			Success:    true,
		})

		w.Header().Set("Content-Type", export.ContentType(format))
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(doc.Filename, format)+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func exportHTMLReport(doc *model.Document, parsed *model.ParsedSOC2, controls []scoring.Control) ([]byte, error) {
	var compliance scoring.Compliance
	if len(parsed.PillarScores) > 0 {
		if err := json.Unmarshal(parsed.PillarScores, &compliance); err != nil {
			return nil, err
		}
	}

	var articles struct {
		Coverage scoring.Coverage `json:"coverage"`
		Gaps     []scoring.Gap    `json:"gaps"`
	}
	if len(parsed.ArticleScores) > 0 {
		if err := json.Unmarshal(parsed.ArticleScores, &articles); err != nil {
			return nil, err
		}
	}

	report := export.Report{
		DocumentName: doc.Filename,
		GeneratedAt:  time.Now().UTC(),
		Compliance:   compliance,
		Coverage:     articles.Coverage,
		Gaps:         articles.Gaps,
	}
	return report.HTML()
}
