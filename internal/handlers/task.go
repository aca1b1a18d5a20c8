package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/focusflow/focusflow-api/internal/dto"
	apierrors "github.com/focusflow/focusflow-api/internal/errors"
	"github.com/focusflow/focusflow-api/internal/middleware"
	"github.com/focusflow/focusflow-api/internal/models"
	"github.com/focusflow/focusflow-api/internal/repository"
	"github.com/focusflow/focusflow-api/internal/services"
	"github.com/focusflow/focusflow-api/internal/utils"
)

// dueDateLayout is the date-only format accepted for due dates.
const dueDateLayout = "2006-01-02"

// TaskHandler serves the task workflow endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask validates and creates a task for the authenticated user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title           string  `json:"title"`
		Description     string  `json:"description"`
		LongDescription string  `json:"long_description"`
		DueDate         string  `json:"due_date"`
		Priority        string  `json:"priority"`
		Status          string  `json:"status"`
		AssigneeEmail   string  `json:"assignee_email"`
		TeamID          *uint64 `json:"team_id"`

		// Test-only flag; there is no real notification integration.
		SimulateNotificationFailure bool `json:"simulate_notification_failure"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := parseDueDate(req.DueDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_date, expected YYYY-MM-DD")
			return
		}
		dueDate = &parsed
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:           req.Title,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		DueDate:         dueDate,
		Priority:        models.TaskPriority(req.Priority),
		Status:          models.TaskStatus(req.Status),
		AssigneeEmail:   req.AssigneeEmail,
		TeamID:          req.TeamID,
		CreatorID:       userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	response := gin.H{
		"task":    dto.ToTaskDTO(*task),
		"message": "Task created successfully",
	}
	if req.SimulateNotificationFailure && task.AssigneeID != nil {
		response["warning"] = "Task created, but notification failed"
		slog.Warn("task created, assignee notification simulated as failed",
			"task_id", task.ID, "assignee_id", *task.AssigneeID)
	}

	c.JSON(http.StatusCreated, response)
}

// GetTask returns a task by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListTasks returns tasks matching the query filters, paginated.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.TaskFilter{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if v := c.Query("team_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team_id")
			return
		}
		filter.TeamID = &id
	}
	if v := c.Query("assignee_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id")
			return
		}
		filter.AssigneeID = &id
	}
	if v := c.Query("creator_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid creator_id")
			return
		}
		filter.CreatorID = &id
	}
	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		filter.Status = &status
	}
	if c.Query("due_today") == "true" {
		// Due dates are stored as UTC midnights of their calendar date.
		y, m, d := time.Now().Date()
		from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		to := from.Add(24 * time.Hour)
		filter.DueDateFrom = &from
		filter.DueDateTo = &to
	}
	filter.SortByDueDate = c.Query("sort") == "due_date"

	tasks, total, err := h.taskService.ListTasks(filter)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// ListTasksForUser returns all tasks assigned to a user.
func (h *TaskHandler) ListTasksForUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user_id")
		return
	}

	tasks, err := h.taskService.ListTasksForUser(userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
	})
}

// ListTasksForTeam returns all tasks belonging to a team.
func (h *TaskHandler) ListTasksForTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Query("team_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team_id")
		return
	}

	tasks, err := h.taskService.ListTasksForTeam(teamID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
	})
}

// UpdateTask applies a partial update to a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title           *string `json:"title"`
		Description     *string `json:"description"`
		LongDescription *string `json:"long_description"`
		DueDate         *string `json:"due_date"`
		AssigneeID      *uint64 `json:"assignee_id"`
		TeamID          *uint64 `json:"team_id"`
		Priority        *string `json:"priority"`
		Status          *string `json:"status"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:           req.Title,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		AssigneeID:      req.AssigneeID,
		TeamID:          req.TeamID,
	}

	if req.DueDate != nil {
		parsed, err := parseDueDate(*req.DueDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_date, expected YYYY-MM-DD")
			return
		}
		input.DueDate = &parsed
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}

	task, err := h.taskService.UpdateTask(id, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task by ID.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// GenerateTasks produces AI task suggestions from free text.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	generated, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		Text:      req.Text,
		CreatorID: userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": generated,
	})
}

// parseDueDate accepts a date-only value, falling back to RFC 3339 for
// clients that send full timestamps.
func parseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse(dueDateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleTooShort),
		errors.Is(err, services.ErrDueDateRequired),
		errors.Is(err, services.ErrDueDateInPast),
		errors.Is(err, services.ErrAssigneeOutsideTeams),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrAssigneeNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
