package model

import (
	"time"

	"gorm.io/gorm"
)

// Task statuses. Transitions are open -> in_progress -> done, with blocked
// reachable from open and in_progress.
const (
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in_progress"
	TaskStatusBlocked    = "blocked"
	TaskStatusDone       = "done"
)

// Task priorities.
const (
	TaskPriorityCritical = "critical"
	TaskPriorityHigh     = "high"
	TaskPriorityMedium   = "medium"
	TaskPriorityLow      = "low"
)

// Task is a remediation or compliance task, optionally linked to a vendor,
// document, or framework gap.
type Task struct {
	ID             string         `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID string         `gorm:"column:organization_id;type:uuid;not null;index"`
	Title          string         `gorm:"column:title;not null"`
	Description    string         `gorm:"column:description"`
	Status         string         `gorm:"column:status;not null;default:open"`
	Priority       string         `gorm:"column:priority;not null;default:medium"`
	AssigneeID     *string        `gorm:"column:assignee_id;type:uuid"`
	VendorID       *string        `gorm:"column:vendor_id;type:uuid;index"`
	DocumentID     *string        `gorm:"column:document_id;type:uuid"`
	FrameworkRef   string         `gorm:"column:framework_ref"`
	DueDate        *time.Time     `gorm:"column:due_date"`
	CreatedBy      string         `gorm:"column:created_by;type:uuid"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Task) TableName() string {
	return "tasks"
}

// Overdue reports whether the task has a due date in the past and is not done.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && now.After(*t.DueDate) && t.Status != TaskStatusDone
}

// TaskComment is a user comment on a task.
type TaskComment struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TaskID    string    `gorm:"column:task_id;type:uuid;not null;index"`
	AuthorID  string    `gorm:"column:author_id;type:uuid;not null"`
	Body      string    `gorm:"column:body;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (TaskComment) TableName() string {
	return "task_comments"
}
