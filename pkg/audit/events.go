package audit

import "fmt"

// AuthenticateEvent represents a login audit event
type AuthenticateEvent struct {
	UserEmail    string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated", e.UserEmail)
	}
	msg := fmt.Sprintf("%s failed to authenticate", e.UserEmail)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserEmail,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "login",
			"result":    result,
		},
	}
}

// WhoamiEvent represents an identity check audit event
type WhoamiEvent struct {
	UserID   string
	ClientIP string
	Success  bool
}

func (e WhoamiEvent) MessageID() string {
	return "identity-check"
}

func (e WhoamiEvent) Message() string {
	return fmt.Sprintf("%s checked its identity", e.UserID)
}

func (e WhoamiEvent) Severity() Severity {
	return SeverityInfo
}

func (e WhoamiEvent) Facility() int {
	return FacilityAuth
}

func (e WhoamiEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// DocumentEvent represents a document lifecycle audit event.
// Operation is one of "upload", "delete", "analyze", "export".
type DocumentEvent struct {
	UserID       string
	ClientIP     string
	DocumentID   string
	Operation    string
	Detail       string
	Success      bool
	ErrorMessage string
}

func (e DocumentEvent) MessageID() string {
	return "document"
}

func (e DocumentEvent) Message() string {
	subject := "document " + e.DocumentID
	if e.Detail != "" {
		subject += " (" + e.Detail + ")"
	}
	if e.Success {
		switch e.Operation {
		case "upload":
			return fmt.Sprintf("%s uploaded %s", e.UserID, subject)
		case "delete":
			return fmt.Sprintf("%s deleted %s", e.UserID, subject)
		case "analyze":
			return fmt.Sprintf("%s started analysis of %s", e.UserID, subject)
		case "export":
			return fmt.Sprintf("%s exported %s", e.UserID, subject)
		}
		return fmt.Sprintf("%s performed %s on %s", e.UserID, e.Operation, subject)
	}
	msg := fmt.Sprintf("%s failed to %s %s", e.UserID, e.Operation, subject)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e DocumentEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e DocumentEvent) Facility() int {
	return FacilityAuthPriv
}

func (e DocumentEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"document": e.DocumentID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
	if e.Detail != "" {
		sd[SDIDSubject]["detail"] = e.Detail
	}
	return sd
}

// ResourceEvent represents a CRUD audit event on a tracked resource.
// Kind is one of "vendor", "task", "incident", "widget".
// Operation is one of "create", "update", "delete".
type ResourceEvent struct {
	UserID       string
	ClientIP     string
	Kind         string
	ResourceID   string
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e ResourceEvent) MessageID() string {
	return "resource"
}

func (e ResourceEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %sd %s %s", e.UserID, e.Operation, e.Kind, e.ResourceID)
	}
	msg := fmt.Sprintf("%s tried to %s %s %s", e.UserID, e.Operation, e.Kind, e.ResourceID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ResourceEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ResourceEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ResourceEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"kind":     e.Kind,
			"resource": e.ResourceID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
}

// ScoreEvent represents a completed scoring run audit event
type ScoreEvent struct {
	DocumentID   string
	VendorID     string
	OverallScore float64
	GapCount     int
}

func (e ScoreEvent) MessageID() string {
	return "score"
}

func (e ScoreEvent) Message() string {
	msg := fmt.Sprintf("scored document %s: overall %.1f with %d gaps", e.DocumentID, e.OverallScore, e.GapCount)
	if e.VendorID != "" {
		msg += " (vendor " + e.VendorID + ")"
	}
	return msg
}

func (e ScoreEvent) Severity() Severity {
	return SeverityInfo
}

func (e ScoreEvent) Facility() int {
	return FacilityAuth
}

func (e ScoreEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDSubject: {
			"document": e.DocumentID,
			"overall":  fmt.Sprintf("%.1f", e.OverallScore),
			"gaps":     fmt.Sprintf("%d", e.GapCount),
		},
		SDIDAction: {
			"operation": "score",
			"result":    "success",
		},
	}
	if e.VendorID != "" {
		sd[SDIDSubject]["vendor"] = e.VendorID
	}
	return sd
}

// PasswordEvent represents a password change audit event
type PasswordEvent struct {
	UserEmail    string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e PasswordEvent) MessageID() string {
	return "password"
}

func (e PasswordEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s changed their password", e.UserEmail)
	}
	msg := fmt.Sprintf("%s failed to change their password", e.UserEmail)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e PasswordEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e PasswordEvent) Facility() int {
	return FacilityAuthPriv
}

func (e PasswordEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserEmail,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "change-password",
			"result":    result,
		},
	}
}
