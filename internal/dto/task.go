package dto

import (
	"time"

	"github.com/focusflow/focusflow-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID              uint64              `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	LongDescription string              `json:"long_description"`
	DueDate         *time.Time          `json:"due_date"`
	Priority        models.TaskPriority `json:"priority"`
	Status          models.TaskStatus   `json:"status"`
	CreatorID       uint64              `json:"creator_id"`
	AssigneeID      *uint64             `json:"assignee_id"`
	TeamID          *uint64             `json:"team_id"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Creator         *UserDTO            `json:"creator,omitempty"`
	Assignee        *UserDTO            `json:"assignee,omitempty"`
	Team            *TeamDTO            `json:"team,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		LongDescription: task.LongDescription,
		DueDate:         task.DueDate,
		Priority:        task.Priority,
		Status:          task.Status,
		CreatorID:       task.CreatorID,
		AssigneeID:      task.AssigneeID,
		TeamID:          task.TeamID,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}

	// Include relations only when preloaded
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}
	if task.Team != nil && task.Team.ID != 0 {
		team := ToTeamDTO(*task.Team)
		dto.Team = &team
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks.
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
	}

	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks),
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
