package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todo/internal/handler"
	"todo/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTaskRepository mocks the task store for handler tests
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, title, description string, userID uint) (*model.Task, error) {
	args := m.Called(ctx, title, description, userID)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByUser(ctx context.Context, userID uint, completed *bool) ([]model.Task, error) {
	args := m.Called(ctx, userID, completed)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id uint, patch model.TaskUpdate) (*model.Task, error) {
	args := m.Called(ctx, id, patch)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Toggle(ctx context.Context, id uint) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func setupTaskTest() (*gin.Engine, *MockTaskRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockRepo := new(MockTaskRepository)

	defaultUser := &model.User{ID: 1, Name: "Default User", Email: "default@todo.app", IsActive: true, CreatedAt: time.Now().UTC()}
	taskHandler := handler.NewTaskHandler(mockRepo, defaultUser)

	r.POST("/tasks", taskHandler.Create)
	r.GET("/tasks", taskHandler.List)
	r.GET("/tasks/:id", taskHandler.GetByID)
	r.PUT("/tasks/:id", taskHandler.Update)
	r.POST("/tasks/:id/toggle", taskHandler.Toggle)
	r.DELETE("/tasks/:id", taskHandler.Delete)

	return r, mockRepo
}

func TestTaskCreate_DefaultOwnerFallback(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	created := &model.Task{ID: 1, Title: "Buy groceries", UserID: 1, CreatedAt: time.Now().UTC()}
	// No user_id in the request body, so the bootstrapped default user owns the task
	mockRepo.On("Create", mock.Anything, "Buy groceries", "", uint(1)).Return(created, nil)

	reqBody := handler.CreateTaskRequest{Title: "Buy groceries"}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.TaskResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), response.ID)
	assert.Equal(t, "Buy groceries", response.Title)
	assert.Equal(t, uint(1), response.UserID)
	assert.False(t, response.Completed)
	assert.Nil(t, response.UpdatedAt)

	mockRepo.AssertExpectations(t)
}

func TestTaskCreate_MissingOwner(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	mockRepo.On("Create", mock.Anything, "Orphan task", "", uint(999)).Return(nil, nil)

	ownerID := uint(999)
	reqBody := handler.CreateTaskRequest{Title: "Orphan task", UserID: &ownerID}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockRepo.AssertExpectations(t)
}

func TestTaskCreate_EmptyTitle(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBufferString(`{"title": ""}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert - the empty title never reaches the store
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestTaskList_CompletedFilter(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	tasks := []model.Task{
		{ID: 2, Title: "Done task", Completed: true, UserID: 1, CreatedAt: time.Now().UTC()},
	}
	mockRepo.On("ListByUser", mock.Anything, uint(1), mock.MatchedBy(func(completed *bool) bool {
		return completed != nil && *completed
	})).Return(tasks, nil)

	req, _ := http.NewRequest("GET", "/tasks?completed=true", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response []handler.TaskResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.True(t, response[0].Completed)

	mockRepo.AssertExpectations(t)
}

func TestTaskList_NoFilter(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	tasks := []model.Task{
		{ID: 2, Title: "Task 2", UserID: 1, CreatedAt: time.Now().UTC()},
		{ID: 1, Title: "Task 1", UserID: 1, CreatedAt: time.Now().UTC().Add(-time.Hour)},
	}
	mockRepo.On("ListByUser", mock.Anything, uint(1), (*bool)(nil)).Return(tasks, nil)

	req, _ := http.NewRequest("GET", "/tasks", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response []handler.TaskResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)
	assert.Equal(t, "Task 2", response[0].Title)
	assert.Equal(t, "Task 1", response[1].Title)

	mockRepo.AssertExpectations(t)
}

func TestTaskList_ExplicitUser(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	mockRepo.On("ListByUser", mock.Anything, uint(42), (*bool)(nil)).Return([]model.Task{}, nil)

	req, _ := http.NewRequest("GET", "/tasks?user_id=42", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())
	mockRepo.AssertExpectations(t)
}

func TestTaskGetByID_NotFound(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	mockRepo.On("GetByID", mock.Anything, uint(999)).Return(nil, nil)

	req, _ := http.NewRequest("GET", "/tasks/999", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockRepo.AssertExpectations(t)
}

func TestTaskUpdate_PartialPatch(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	now := time.Now().UTC()
	updated := &model.Task{ID: 1, Title: "New title", Description: "Keep me", UserID: 1, CreatedAt: now.Add(-time.Hour), UpdatedAt: &now}
	mockRepo.On("Update", mock.Anything, uint(1), mock.MatchedBy(func(patch model.TaskUpdate) bool {
		// Only title is supplied; the other fields stay unset
		return patch.Title != nil && *patch.Title == "New title" &&
			patch.Description == nil && patch.Completed == nil
	})).Return(updated, nil)

	req, _ := http.NewRequest("PUT", "/tasks/1", bytes.NewBufferString(`{"title": "New title"}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.TaskResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "New title", response.Title)
	assert.Equal(t, "Keep me", response.Description)
	assert.NotNil(t, response.UpdatedAt)

	mockRepo.AssertExpectations(t)
}

func TestTaskUpdate_NotFound(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	mockRepo.On("Update", mock.Anything, uint(999), mock.AnythingOfType("model.TaskUpdate")).Return(nil, nil)

	req, _ := http.NewRequest("PUT", "/tasks/999", bytes.NewBufferString(`{"title": "New title"}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockRepo.AssertExpectations(t)
}

func TestTaskToggle_Success(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	now := time.Now().UTC()
	toggled := &model.Task{ID: 1, Title: "Task", Completed: true, UserID: 1, CreatedAt: now.Add(-time.Hour), UpdatedAt: &now}
	mockRepo.On("Toggle", mock.Anything, uint(1)).Return(toggled, nil)

	req, _ := http.NewRequest("POST", "/tasks/1/toggle", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.TaskResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.Completed)
	assert.NotNil(t, response.UpdatedAt)

	mockRepo.AssertExpectations(t)
}

func TestTaskDelete_Success(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	mockRepo.On("Delete", mock.Anything, uint(1)).Return(true, nil)

	req, _ := http.NewRequest("DELETE", "/tasks/1", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Task deleted successfully", response["message"])

	mockRepo.AssertExpectations(t)
}

func TestTaskDelete_NotFound(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	mockRepo.On("Delete", mock.Anything, uint(999)).Return(false, nil)

	req, _ := http.NewRequest("DELETE", "/tasks/999", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockRepo.AssertExpectations(t)
}

func TestTaskDelete_InvalidID(t *testing.T) {
	// Arrange
	router, mockRepo := setupTaskTest()

	req, _ := http.NewRequest("DELETE", "/tasks/not-a-number", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockRepo.AssertNotCalled(t, "Delete")
}
