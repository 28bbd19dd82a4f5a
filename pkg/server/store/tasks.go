package store

import (
	"errors"

	"github.com/doracomply/doracomply/pkg/model"
)

// ErrTaskNotFound is returned when a task doesn't exist
var ErrTaskNotFound = errors.New("task not found")

// TaskFilter narrows task listings.
type TaskFilter struct {
	Status     string
	Priority   string
	AssigneeID string
	Limit      int
	Offset     int
}

// TasksStore abstracts task storage operations
type TasksStore interface {
	// ListTasks returns tasks for an organization, due date ascending.
	ListTasks(orgID string, filter TaskFilter) ([]model.Task, error)

	// CountTasks returns the count of tasks matching the filter.
	CountTasks(orgID string, filter TaskFilter) (int64, error)

	// GetTask retrieves a task scoped to an organization.
	// Returns ErrTaskNotFound if the task doesn't exist.
	GetTask(orgID, id string) (*model.Task, error)

	// CreateTask creates a new task.
	CreateTask(task *model.Task) error

	// UpdateTask applies updates to an existing task.
	// Returns ErrTaskNotFound if the task doesn't exist.
	UpdateTask(orgID, id string, updates map[string]any) (*model.Task, error)

	// DeleteTask soft-deletes a task.
	// Returns ErrTaskNotFound if the task doesn't exist.
	DeleteTask(orgID, id string) error

	// ListComments returns comments on a task, oldest first.
	ListComments(orgID, taskID string) ([]model.TaskComment, error)

	// AddComment appends a comment to a task.
	// Returns ErrTaskNotFound if the task doesn't exist.
	AddComment(comment *model.TaskComment) error
}
