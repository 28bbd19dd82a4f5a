package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/doracomply/doracomply/pkg/audit"
	"github.com/doracomply/doracomply/pkg/config"
	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server"
	"github.com/doracomply/doracomply/pkg/server/middleware"
	"github.com/doracomply/doracomply/pkg/server/store"
)

// TaskRequest carries the mutable task attributes
type TaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	Priority     *string    `json:"priority"`
	AssigneeID   *string    `json:"assigneeId"`
	VendorID     *string    `json:"vendorId"`
	DocumentID   *string    `json:"documentId"`
	FrameworkRef *string    `json:"frameworkRef"`
	DueDate      *time.Time `json:"dueDate"`
}

// TaskResponse is the public view of a task
type TaskResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	AssigneeID   *string    `json:"assigneeId,omitempty"`
	VendorID     *string    `json:"vendorId,omitempty"`
	DocumentID   *string    `json:"documentId,omitempty"`
	FrameworkRef string     `json:"frameworkRef,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	Overdue      bool       `json:"overdue"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CommentRequest carries a new task comment
type CommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse is the public view of a task comment
type CommentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func taskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		AssigneeID:   t.AssigneeID,
		VendorID:     t.VendorID,
		DocumentID:   t.DocumentID,
		FrameworkRef: t.FrameworkRef,
		DueDate:      t.DueDate,
		Overdue:      t.Overdue(time.Now()),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func validTaskStatus(status string) bool {
	switch status {
	case model.TaskStatusOpen, model.TaskStatusInProgress, model.TaskStatusBlocked, model.TaskStatusDone:
		return true
	}
	return false
}

func validTaskPriority(priority string) bool {
	switch priority {
	case model.TaskPriorityCritical, model.TaskPriorityHigh, model.TaskPriorityMedium, model.TaskPriorityLow:
		return true
	}
	return false
}

// RegisterTasksEndpoints registers the task management endpoints
func RegisterTasksEndpoints(s *server.Server) {
	r := s.Router.PathPrefix("/api/tasks").Subrouter()
	r.Use(s.Session.Middleware)

	r.HandleFunc("", handleListTasks(s.TasksStore, s.Config)).Methods("GET")
	r.HandleFunc("", handleCreateTask(s.TasksStore, s.Config)).Methods("POST")
	r.HandleFunc("/{id}", handleGetTask(s.TasksStore)).Methods("GET")
	r.HandleFunc("/{id}", handleUpdateTask(s.TasksStore, s.Config)).Methods("PATCH")
	r.HandleFunc("/{id}", handleDeleteTask(s.TasksStore, s.Config)).Methods("DELETE")
	r.HandleFunc("/{id}/comments", handleListComments(s.TasksStore)).Methods("GET")
	r.HandleFunc("/{id}/comments", handleAddComment(s.TasksStore)).Methods("POST")
}

func handleListTasks(tasksStore store.TasksStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		limit, offset := listParams(r, cfg)

		filter := store.TaskFilter{
			Status:     r.URL.Query().Get("status"),
			Priority:   r.URL.Query().Get("priority"),
			AssigneeID: r.URL.Query().Get("assignee_id"),
			Limit:      limit,
			Offset:     offset,
		}

		if r.URL.Query().Get("count") == "true" {
			count, err := tasksStore.CountTasks(orgID, filter)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "failed to count tasks")
				return
			}
			respondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
			return
		}

		tasks, err := tasksStore.ListTasks(orgID, filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list tasks")
			return
		}

		responses := make([]TaskResponse, 0, len(tasks))
		for i := range tasks {
			responses = append(responses, taskResponse(&tasks[i]))
		}
		respondWithJSON(w, http.StatusOK, responses)
	}
}

func handleCreateTask(tasksStore store.TasksStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)

		var req TaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		if req.Title == nil || *req.Title == "" {
			respondWithError(w, http.StatusBadRequest, "title is required")
			return
		}

		task := model.Task{
			OrganizationID: orgID,
			Title:          *req.Title,
			Status:         model.TaskStatusOpen,
			Priority:       model.TaskPriorityMedium,
			AssigneeID:     req.AssigneeID,
			VendorID:       req.VendorID,
			DocumentID:     req.DocumentID,
			DueDate:        req.DueDate,
			CreatedBy:      userID,
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.FrameworkRef != nil {
			task.FrameworkRef = *req.FrameworkRef
		}
		if req.Status != nil {
			if !validTaskStatus(*req.Status) {
				respondWithError(w, http.StatusBadRequest, "unknown task status")
				return
			}
			task.Status = *req.Status
		}
		if req.Priority != nil {
			if !validTaskPriority(*req.Priority) {
				respondWithError(w, http.StatusBadRequest, "unknown task priority")
				return
			}
			task.Priority = *req.Priority
		}

		if err := tasksStore.CreateTask(&task); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to create task")
			return
		}

		audit.Log(audit.ResourceEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			Kind:       "task",
			ResourceID: task.ID,
			Operation:  "create",
			Success:    true,
		})
		respondWithJSON(w, http.StatusCreated, taskResponse(&task))
	}
}

func handleGetTask(tasksStore store.TasksStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		id := mux.Vars(r)["id"]

		task, err := tasksStore.GetTask(orgID, id)
		if err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				respondWithError(w, http.StatusNotFound, "task not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		respondWithJSON(w, http.StatusOK, taskResponse(task))
	}
}

func handleUpdateTask(tasksStore store.TasksStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		var req TaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}

		updates := map[string]any{}
		if req.Title != nil {
			if *req.Title == "" {
				respondWithError(w, http.StatusBadRequest, "title cannot be empty")
				return
			}
			updates["title"] = *req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Status != nil {
			if !validTaskStatus(*req.Status) {
				respondWithError(w, http.StatusBadRequest, "unknown task status")
				return
			}
			updates["status"] = *req.Status
		}
		if req.Priority != nil {
			if !validTaskPriority(*req.Priority) {
				respondWithError(w, http.StatusBadRequest, "unknown task priority")
				return
			}
			updates["priority"] = *req.Priority
		}
		if req.AssigneeID != nil {
			updates["assignee_id"] = *req.AssigneeID
		}
		if req.VendorID != nil {
			updates["vendor_id"] = *req.VendorID
		}
		if req.DocumentID != nil {
			updates["document_id"] = *req.DocumentID
		}
		if req.FrameworkRef != nil {
			updates["framework_ref"] = *req.FrameworkRef
		}
		if req.DueDate != nil {
			updates["due_date"] = *req.DueDate
		}
		if len(updates) == 0 {
			respondWithError(w, http.StatusBadRequest, "no updates provided")
			return
		}

		task, err := tasksStore.UpdateTask(orgID, id, updates)
		if err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				respondWithError(w, http.StatusNotFound, "task not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "update failed")
			return
		}

		audit.Log(audit.ResourceEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			Kind:       "task",
			ResourceID: task.ID,
			Operation:  "update",
			Success:    true,
		})
		respondWithJSON(w, http.StatusOK, taskResponse(task))
	}
}

func handleDeleteTask(tasksStore store.TasksStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		if middleware.UserRole(ctx) != model.UserRoleAdmin {
			respondWithError(w, http.StatusForbidden, "admin role required")
			return
		}

		if err := tasksStore.DeleteTask(orgID, id); err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				respondWithError(w, http.StatusNotFound, "task not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "delete failed")
			return
		}

		audit.Log(audit.ResourceEvent{
			UserID:     userID,
			ClientIP:   clientIP(r, cfg),
			Kind:       "task",
			ResourceID: id,
			Operation:  "delete",
			Success:    true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleListComments(tasksStore store.TasksStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := middleware.OrganizationID(r.Context())
		id := mux.Vars(r)["id"]

		comments, err := tasksStore.ListComments(orgID, id)
		if err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				respondWithError(w, http.StatusNotFound, "task not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		responses := make([]CommentResponse, 0, len(comments))
		for _, c := range comments {
			responses = append(responses, CommentResponse{
				ID:        c.ID,
				TaskID:    c.TaskID,
				AuthorID:  c.AuthorID,
				Body:      c.Body,
				CreatedAt: c.CreatedAt,
			})
		}
		respondWithJSON(w, http.StatusOK, responses)
	}
}

func handleAddComment(tasksStore store.TasksStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		orgID := middleware.OrganizationID(ctx)
		userID := middleware.UserID(ctx)
		id := mux.Vars(r)["id"]

		var req CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		if req.Body == "" {
			respondWithError(w, http.StatusBadRequest, "body is required")
			return
		}

		// Task lookup runs first so a missing task is reported as 404 rather
		// than a foreign key violation.
		if _, err := tasksStore.GetTask(orgID, id); err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				respondWithError(w, http.StatusNotFound, "task not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		comment := model.TaskComment{
			TaskID:   id,
			AuthorID: userID,
			Body:     req.Body,
		}
		if err := tasksStore.AddComment(&comment); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to add comment")
			return
		}

		respondWithJSON(w, http.StatusCreated, CommentResponse{
			ID:        comment.ID,
			TaskID:    comment.TaskID,
			AuthorID:  comment.AuthorID,
			Body:      comment.Body,
			CreatedAt: comment.CreatedAt,
		})
	}
}
