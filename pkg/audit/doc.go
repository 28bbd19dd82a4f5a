// Package audit provides audit logging in RFC5424 syslog format.
//
// Events cover authentication, document lifecycle (upload, delete,
// analyze, export), CRUD on tracked resources (vendors, tasks,
// incidents, widgets) and completed scoring runs. Events are written
// to stdout and, when AUDIT_DATABASE_URL is set, persisted to the
// audit_messages table.
//
// Audit logging defaults to enabled and can be turned off with
// COMPLY_AUDIT_ENABLED=false.
package audit
