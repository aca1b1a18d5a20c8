package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/focusflow/focusflow-api/internal/constants"
	"github.com/focusflow/focusflow-api/internal/models"
	"github.com/focusflow/focusflow-api/internal/repository"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleTooShort          = errors.New("task title must be at least 3 characters long")
	ErrDueDateRequired        = errors.New("due date is required")
	ErrDueDateInPast          = errors.New("due date cannot be in the past")
	ErrAssigneeNotFound       = errors.New("assignee not found")
	ErrAssigneeOutsideTeams   = errors.New("cannot assign task to a user outside your teams")
	ErrInvalidTaskStatus      = errors.New("invalid task status")
	ErrInvalidTaskPriority    = errors.New("invalid task priority")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// taskPreloads are the relations loaded when returning a single task.
var taskPreloads = []string{"Creator", "Assignee", "Team"}

// TaskService handles the task workflow: validation, reference resolution
// and persistence.
type TaskService struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	teamRepo  repository.TeamRepository
	aiService *AIService
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, teamRepo repository.TeamRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		teamRepo:  teamRepo,
		aiService: aiService,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title           string
	Description     string
	LongDescription string
	DueDate         *time.Time
	Priority        models.TaskPriority
	Status          models.TaskStatus
	AssigneeEmail   string
	TeamID          *uint64
	CreatorID       uint64
}

// CreateTask validates the request, resolves assignee and team references,
// enforces the shared-team rule and persists the task.
//
// When no team is given and the assignee is someone other than the creator,
// the two must share at least one team.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if len(strings.TrimSpace(input.Title)) < constants.MinTaskTitleLength {
		return nil, ErrTitleTooShort
	}

	if input.DueDate == nil {
		return nil, ErrDueDateRequired
	}

	if dateBefore(*input.DueDate, time.Now()) {
		return nil, ErrDueDateInPast
	}
	dueDate := startOfDay(*input.DueDate)

	var assignee *models.User
	if email := strings.TrimSpace(input.AssigneeEmail); email != "" {
		found, err := s.userRepo.FindByEmail(email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
		assignee = found
	}

	if input.TeamID != nil {
		if _, err := s.teamRepo.FindByID(*input.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to find team: %w", err)
		}
	} else if assignee != nil && assignee.ID != input.CreatorID {
		shared, err := s.teamRepo.CountSharedTeams(input.CreatorID, assignee.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to verify shared teams: %w", err)
		}
		if shared == 0 {
			return nil, ErrAssigneeOutsideTeams
		}
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusOpen
	}
	if !status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	task := &models.Task{
		Title:           input.Title,
		Description:     input.Description,
		LongDescription: input.LongDescription,
		DueDate:         &dueDate,
		Priority:        input.Priority,
		Status:          status,
		CreatorID:       input.CreatorID,
		TeamID:          input.TeamID,
	}
	if assignee != nil {
		task.AssigneeID = &assignee.ID
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// UpdateTaskInput represents a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title           *string
	Description     *string
	LongDescription *string
	DueDate         *time.Time
	AssigneeID      *uint64
	TeamID          *uint64
	Priority        *models.TaskPriority
	Status          *models.TaskStatus
}

// UpdateTask overwrites every field present in the patch. Create-time checks
// on title length and past due dates are not re-run here.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.LongDescription != nil {
		task.LongDescription = *input.LongDescription
	}
	if input.DueDate != nil {
		dueDate := startOfDay(*input.DueDate)
		task.DueDate = &dueDate
	}
	if input.AssigneeID != nil {
		if _, err := s.userRepo.FindByID(*input.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
		task.AssigneeID = input.AssigneeID
	}
	if input.TeamID != nil {
		if _, err := s.teamRepo.FindByID(*input.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to find team: %w", err)
		}
		task.TeamID = input.TeamID
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// GetTask returns a task with related data.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ListTasks returns tasks matching the filter.
func (s *TaskService) ListTasks(filter repository.TaskFilter) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// ListTasksForUser returns the tasks assigned to a user.
func (s *TaskService) ListTasksForUser(userID uint64) ([]models.Task, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	tasks, err := s.taskRepo.ListByAssignee(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksForTeam returns the tasks belonging to a team.
func (s *TaskService) ListTasksForTeam(teamID uint64) ([]models.Task, error) {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	tasks, err := s.taskRepo.ListByTeam(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// DeleteTask deletes a task by ID.
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// GenerateTasksInput represents input for AI task generation.
type GenerateTasksInput struct {
	Text      string
	CreatorID uint64
}

// GenerateTasks uses AI to extract task suggestions from free text.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	now := time.Now()
	for _, aiTask := range aiTasks {
		if strings.TrimSpace(aiTask.Title) == "" {
			continue
		}

		if aiTask.DueDate != nil && dateBefore(*aiTask.DueDate, now) {
			aiTask.DueDate = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// startOfDay returns the UTC midnight of t's calendar date, read in
// t's own location. Stored due dates are canonicalized this way so the
// due-today window can be computed without knowing the client's zone.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dateBefore reports whether a's calendar date precedes b's, each read
// in its own location. Due dates arrive as UTC midnights while the
// server clock may run in another zone, so comparing instants would
// shift the day boundary.
func dateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
