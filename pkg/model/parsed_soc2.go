package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ParsedSOC2 is the extracted analysis of a SOC 2 document. The structured
// fields are stored as jsonb for the API to serve directly; the raw parser
// payload is encrypted at rest with the document ID as AAD.
type ParsedSOC2 struct {
	ID             string  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentID     string  `gorm:"column:document_id;type:uuid;not null;uniqueIndex"`
	OrganizationID string  `gorm:"column:organization_id;type:uuid;not null;index"`
	ReportType     string  `gorm:"column:report_type"`
	AuditFirm      string  `gorm:"column:audit_firm"`
	Opinion        string  `gorm:"column:opinion"`
	PeriodStart    *time.Time `gorm:"column:period_start"`
	PeriodEnd      *time.Time `gorm:"column:period_end"`
	ServiceOrgName string  `gorm:"column:service_org_name"`

	Controls       JSONB `gorm:"column:controls;type:jsonb"`
	Exceptions     JSONB `gorm:"column:exceptions;type:jsonb"`
	SubserviceOrgs JSONB `gorm:"column:subservice_orgs;type:jsonb"`
	CUECs          JSONB `gorm:"column:cuecs;type:jsonb"`

	OverallScore  float64 `gorm:"column:overall_score"`
	PillarScores  JSONB   `gorm:"column:pillar_scores;type:jsonb"`
	ArticleScores JSONB   `gorm:"column:article_scores;type:jsonb"`

	RawExtraction []byte `gorm:"column:raw_extraction;type:bytea"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ParsedSOC2) TableName() string {
	return "parsed_soc2"
}

// BeforeCreate encrypts the raw extraction payload under the document ID.
func (p *ParsedSOC2) BeforeCreate(tx *gorm.DB) error {
	if len(p.RawExtraction) == 0 {
		return nil
	}

	var err error
	p.RawExtraction, err = getCipherForDb(tx).Encrypt([]byte(p.DocumentID), p.RawExtraction)
	if err != nil {
		return fmt.Errorf("raw extraction encryption failed for document_id=%q", p.DocumentID)
	}
	return nil
}

// AfterFind decrypts the raw extraction payload.
func (p *ParsedSOC2) AfterFind(tx *gorm.DB) error {
	if len(p.RawExtraction) == 0 {
		return nil
	}

	var err error
	p.RawExtraction, err = getCipherForDb(tx).Decrypt([]byte(p.DocumentID), p.RawExtraction)
	if err != nil {
		return fmt.Errorf("raw extraction decryption failed for document_id=%q", p.DocumentID)
	}
	return nil
}
