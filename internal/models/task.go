package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusInReview   TaskStatus = "IN_REVIEW"
	TaskStatusClosed     TaskStatus = "CLOSED"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// Valid reports whether the status is one of the known states.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusInReview, TaskStatusClosed:
		return true
	}
	return false
}

// Valid reports whether the priority is one of the known levels.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID              uint64         `gorm:"primarykey" json:"id"`
	Title           string         `gorm:"not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	LongDescription string         `gorm:"type:text" json:"long_description"`
	DueDate         *time.Time     `json:"due_date"`
	Priority        TaskPriority   `gorm:"type:varchar(20)" json:"priority"`
	Status          TaskStatus     `gorm:"type:varchar(20);not null;default:'OPEN'" json:"status"`
	CreatorID       uint64         `gorm:"not null" json:"creator_id"`
	AssigneeID      *uint64        `json:"assignee_id"`
	TeamID          *uint64        `json:"team_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator  User  `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Assignee *User `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Team     *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}
