package handler

import (
	"net/http"
	"strconv"
	"time"

	"todo/internal/model"
	"todo/internal/repository"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task-related HTTP requests. The default user is
// bootstrapped once at startup and passed in explicitly; requests that
// do not name an owner fall back to it.
type TaskHandler struct {
	taskRepo    repository.TaskRepositoryInterface
	defaultUser *model.User
}

func NewTaskHandler(taskRepo repository.TaskRepositoryInterface, defaultUser *model.User) *TaskHandler {
	return &TaskHandler{
		taskRepo:    taskRepo,
		defaultUser: defaultUser,
	}
}

// CreateTaskRequest defines the expected request body for creating a task
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
	UserID      *uint  `json:"user_id"`
}

// UpdateTaskRequest defines the expected request body for a partial
// task update; omitted fields are left untouched
type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Completed   *bool   `json:"completed"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	UserID      uint    `json:"user_id"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   *string `json:"updated_at,omitempty"`
}

func toTaskResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
	}
	if task.UpdatedAt != nil {
		updated := task.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &updated
	}
	return resp
}

// Create creates a new task
func (h *TaskHandler) Create(c *gin.Context) {
	// Parse request body
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ownerID := h.defaultUser.ID
	if req.UserID != nil {
		ownerID = *req.UserID
	}

	task, err := h.taskRepo.Create(c.Request.Context(), req.Title, req.Description, ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// List returns the tasks of one user, newest first, optionally filtered
// by completion status
func (h *TaskHandler) List(c *gin.Context) {
	ownerID := h.defaultUser.ID
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		parsed, err := strconv.ParseUint(userIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
			return
		}
		ownerID = uint(parsed)
	}

	var completed *bool
	if completedStr := c.Query("completed"); completedStr != "" {
		parsed, err := strconv.ParseBool(completedStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid completed filter"})
			return
		}
		completed = &parsed
	}

	tasks, err := h.taskRepo.ListByUser(c.Request.Context(), ownerID, completed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, toTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetByID retrieves a task by its ID
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update applies a partial update to a task
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	// Parse request body
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	patch := model.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	task, err := h.taskRepo.Update(c.Request.Context(), id, patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Toggle flips the completion status of a task
func (h *TaskHandler) Toggle(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskRepo.Toggle(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete removes a task
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	deleted, err := h.taskRepo.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func parseTaskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return 0, false
	}
	return uint(id), true
}
