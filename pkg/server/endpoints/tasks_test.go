package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/doracomply/doracomply/pkg/model"
	"github.com/doracomply/doracomply/pkg/server/store"
)

const testTaskID = "66666666-6666-6666-6666-666666666666"

func TestCreateTask(t *testing.T) {
	t.Run("defaults status and priority", func(t *testing.T) {
		tasksStore := NewMockTasksStore()
		tasksStore.On("CreateTask", mock.MatchedBy(func(task *model.Task) bool {
			return task.Title == "Remediate CC6.1 exception" &&
				task.Status == model.TaskStatusOpen &&
				task.Priority == model.TaskPriorityMedium &&
				task.CreatedBy == testUserID
		})).Return(nil)

		handler := handleCreateTask(tasksStore, testConfig())

		req := authedRequest("POST", "/api/tasks", `{"title":"Remediate CC6.1 exception"}`, testUserID, testOrgID, model.UserRoleMember)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		tasksStore.AssertExpectations(t)
	})

	t.Run("missing title is rejected", func(t *testing.T) {
		handler := handleCreateTask(NewMockTasksStore(), testConfig())

		req := authedRequest("POST", "/api/tasks", `{"priority":"high"}`, testUserID, testOrgID, model.UserRoleMember)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown priority is rejected", func(t *testing.T) {
		handler := handleCreateTask(NewMockTasksStore(), testConfig())

		req := authedRequest("POST", "/api/tasks", `{"title":"x","priority":"urgent"}`, testUserID, testOrgID, model.UserRoleMember)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListTasks(t *testing.T) {
	due := time.Now().Add(-24 * time.Hour).UTC()
	tasksStore := NewMockTasksStore()
	tasksStore.On("ListTasks", testOrgID, store.TaskFilter{Status: "open", Limit: 1000}).
		Return([]model.Task{
			{
				ID:             testTaskID,
				OrganizationID: testOrgID,
				Title:          "Review vendor contract",
				Status:         model.TaskStatusOpen,
				Priority:       model.TaskPriorityHigh,
				DueDate:        &due,
			},
		}, nil)

	handler := handleListTasks(tasksStore, testConfig())

	req := authedRequest("GET", "/api/tasks?status=open", "", testUserID, testOrgID, model.UserRoleMember)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var tasks []TaskResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 1)
	assert.True(t, tasks[0].Overdue)
}

func TestUpdateTask(t *testing.T) {
	t.Run("status change", func(t *testing.T) {
		tasksStore := NewMockTasksStore()
		tasksStore.On("UpdateTask", testOrgID, testTaskID, map[string]any{
			"status": model.TaskStatusDone,
		}).Return(&model.Task{
			ID:             testTaskID,
			OrganizationID: testOrgID,
			Title:          "Review vendor contract",
			Status:         model.TaskStatusDone,
			Priority:       model.TaskPriorityHigh,
		}, nil)

		handler := handleUpdateTask(tasksStore, testConfig())

		req := authedRequest("PATCH", "/api/tasks/"+testTaskID, `{"status":"done"}`, testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testTaskID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp TaskResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.TaskStatusDone, resp.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		handler := handleUpdateTask(NewMockTasksStore(), testConfig())

		req := authedRequest("PATCH", "/api/tasks/"+testTaskID, `{"status":"cancelled"}`, testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testTaskID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTaskComments(t *testing.T) {
	t.Run("comment on missing task is 404", func(t *testing.T) {
		tasksStore := NewMockTasksStore()
		tasksStore.On("GetTask", testOrgID, testTaskID).Return(nil, store.ErrTaskNotFound)

		handler := handleAddComment(tasksStore)

		req := authedRequest("POST", "/api/tasks/"+testTaskID+"/comments", `{"body":"done?"}`, testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testTaskID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		tasksStore.AssertNotCalled(t, "AddComment")
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		handler := handleAddComment(NewMockTasksStore())

		req := authedRequest("POST", "/api/tasks/"+testTaskID+"/comments", `{"body":""}`, testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testTaskID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("comment is attributed to the session user", func(t *testing.T) {
		tasksStore := NewMockTasksStore()
		tasksStore.On("GetTask", testOrgID, testTaskID).Return(&model.Task{ID: testTaskID}, nil)
		tasksStore.On("AddComment", mock.MatchedBy(func(c *model.TaskComment) bool {
			return c.TaskID == testTaskID && c.AuthorID == testUserID && c.Body == "blocked on vendor response"
		})).Return(nil)

		handler := handleAddComment(tasksStore)

		req := authedRequest("POST", "/api/tasks/"+testTaskID+"/comments",
			`{"body":"blocked on vendor response"}`, testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testTaskID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		tasksStore.AssertExpectations(t)
	})

	t.Run("lists comments oldest first", func(t *testing.T) {
		tasksStore := NewMockTasksStore()
		tasksStore.On("ListComments", testOrgID, testTaskID).Return([]model.TaskComment{
			{ID: "c1", TaskID: testTaskID, AuthorID: testUserID, Body: "first"},
			{ID: "c2", TaskID: testTaskID, AuthorID: testUserID, Body: "second"},
		}, nil)

		handler := handleListComments(tasksStore)

		req := authedRequest("GET", "/api/tasks/"+testTaskID+"/comments", "", testUserID, testOrgID, model.UserRoleMember)
		req = withMuxVars(req, map[string]string{"id": testTaskID})
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var comments []CommentResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
		assert.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Body)
	})
}
