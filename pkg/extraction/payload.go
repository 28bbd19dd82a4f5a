package extraction

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/doracomply/doracomply/pkg/scoring"
)

// Exception is a control exception noted by the auditor.
type Exception struct {
	ControlID          string `json:"controlId"`
	Description        string `json:"description"`
	Severity           string `json:"severity,omitempty"`
	ManagementResponse string `json:"managementResponse,omitempty"`
}

// SubserviceOrg is a subservice organization referenced by the report.
type SubserviceOrg struct {
	Name     string `json:"name"`
	Services string `json:"services,omitempty"`
	CarveOut bool   `json:"carveOut"`
}

// CUEC is a complementary user entity control.
type CUEC struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description"`
}

// Payload is the structured result of parsing a SOC 2 report.
type Payload struct {
	ReportType     string            `json:"reportType,omitempty"`
	AuditFirm      string            `json:"auditFirm,omitempty"`
	Opinion        string            `json:"opinion,omitempty"`
	PeriodStart    string            `json:"periodStart,omitempty"`
	PeriodEnd      string            `json:"periodEnd,omitempty"`
	ServiceOrgName string            `json:"serviceOrganization,omitempty"`
	Controls       []scoring.Control `json:"controls"`
	Exceptions     []Exception       `json:"exceptions,omitempty"`
	SubserviceOrgs []SubserviceOrg   `json:"subserviceOrganizations,omitempty"`
	CUECs          []CUEC            `json:"cuecs,omitempty"`
}

// ParsePayload decodes and validates an extraction payload.
func ParsePayload(data []byte) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid extraction payload: %w", err)
	}

	for i, c := range payload.Controls {
		if c.ControlID == "" {
			return nil, fmt.Errorf("invalid extraction payload: control %d has no controlId", i)
		}
		if c.TSCCategory == "" {
			return nil, fmt.Errorf("invalid extraction payload: control %q has no tscCategory", c.ControlID)
		}
	}

	return &payload, nil
}

// PeriodDates parses the audit period boundaries. A missing or
// malformed date yields nil for that boundary.
func (p *Payload) PeriodDates() (start, end *time.Time) {
	if t, err := time.Parse("2006-01-02", p.PeriodStart); err == nil {
		start = &t
	}
	if t, err := time.Parse("2006-01-02", p.PeriodEnd); err == nil {
		end = &t
	}
	return start, end
}
