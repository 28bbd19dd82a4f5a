// Package model defines the database models for the compliance dashboard.
//
// This package contains GORM models that map to the PostgreSQL schema in
// db/migrations. All entities are scoped to an organization and use UUID
// primary keys generated by the database (gen_random_uuid()).
//
// # Core Models
//
//   - Organization, User: tenancy and authentication
//   - Document: an uploaded vendor document (SOC 2 report plus sidecar)
//   - ExtractionJob: progress tracking for document analysis
//   - ParsedSOC2: the extracted analysis (controls, exceptions, subservice
//     organizations, CUECs) with the raw payload encrypted at rest
//   - Vendor, VendorAssessment: third-party tracking
//   - Task, TaskComment: remediation task management
//   - Incident: ICT incident tracking
//   - DashboardWidget: per-user dashboard layout rows
package model
