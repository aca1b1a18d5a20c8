package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultRole is assigned to every user at registration.
const DefaultRole = "USER"

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         string         `gorm:"type:varchar(50);not null;default:'USER'" json:"role"`
	FirstName    string         `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string         `gorm:"type:varchar(100)" json:"last_name"`
	LastLogin    *time.Time     `json:"last_login"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations. Team membership is owned by the team_members table and is
	// recomputed via query, never mirrored here.
	AssignedTasks []Task `gorm:"foreignKey:AssigneeID" json:"-"`
	CreatedTasks  []Task `gorm:"foreignKey:CreatorID" json:"-"`
}
