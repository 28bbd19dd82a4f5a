package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// Ensure TasksStore implements store.TasksStore
var _ store.TasksStore = (*TasksStore)(nil)

// TasksStore implements store.TasksStore using GORM
type TasksStore struct {
	db *gorm.DB
}

// NewTasksStore creates a new TasksStore
func NewTasksStore(db *gorm.DB) *TasksStore {
	return &TasksStore{db: db}
}

func (s *TasksStore) filtered(orgID string, filter store.TaskFilter) *gorm.DB {
	query := s.db.Model(&model.Task{}).Where("organization_id = ?", orgID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.AssigneeID != "" {
		query = query.Where("assignee_id = ?", filter.AssigneeID)
	}
	return query
}

// ListTasks returns tasks for an organization, due date ascending with
// undated tasks last.
func (s *TasksStore) ListTasks(orgID string, filter store.TaskFilter) ([]model.Task, error) {
	query := s.filtered(orgID, filter).Order("due_date asc NULLS LAST, created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var tasks []model.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountTasks returns the count of tasks matching the filter.
func (s *TasksStore) CountTasks(orgID string, filter store.TaskFilter) (int64, error) {
	var count int64
	err := s.filtered(orgID, filter).Count(&count).Error
	return count, err
}

// GetTask retrieves a task scoped to an organization.
func (s *TasksStore) GetTask(orgID, id string) (*model.Task, error) {
	var task model.Task
	tx := s.db.First(&task, "id = ? AND organization_id = ?", id, orgID)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrTaskNotFound
		}
		return nil, tx.Error
	}
	return &task, nil
}

// CreateTask creates a new task.
func (s *TasksStore) CreateTask(task *model.Task) error {
	return s.db.Create(task).Error
}

// UpdateTask applies updates to an existing task.
func (s *TasksStore) UpdateTask(orgID, id string, updates map[string]any) (*model.Task, error) {
	tx := s.db.Model(&model.Task{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrTaskNotFound
	}
	return s.GetTask(orgID, id)
}

// DeleteTask soft-deletes a task.
func (s *TasksStore) DeleteTask(orgID, id string) error {
	tx := s.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&model.Task{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// ListComments returns comments on a task, oldest first.
func (s *TasksStore) ListComments(orgID, taskID string) ([]model.TaskComment, error) {
	if _, err := s.GetTask(orgID, taskID); err != nil {
		return nil, err
	}

	var comments []model.TaskComment
	err := s.db.Where("task_id = ?", taskID).
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment appends a comment to a task and touches its updated_at.
func (s *TasksStore) AddComment(comment *model.TaskComment) error {
	if err := s.db.Create(comment).Error; err != nil {
		return err
	}
	return s.db.Model(&model.Task{}).
		Where("id = ?", comment.TaskID).
		Update("updated_at", time.Now().UTC()).Error
}
