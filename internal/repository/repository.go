package repository

import (
	"time"

	"github.com/focusflow/focusflow-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// Update persists changes to a user
	Update(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// ListByRole lists users with the given role
	ListByRole(role string) ([]models.User, error)

	// ListByTeamID lists users that are members of the given team
	ListByTeamID(teamID uint64) ([]models.User, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// CreateWithMembers creates a team and its initial member set atomically
	CreateWithMembers(team *models.Team, memberIDs []uint64) error

	// FindByID finds a team by ID
	FindByID(id uint64) (*models.Team, error)

	// FindByName finds a team by its unique name
	FindByName(name string) (*models.Team, error)

	// List lists all teams
	List() ([]models.Team, error)

	// ListForUser lists the teams a user is a member of
	ListForUser(userID uint64) ([]models.Team, error)

	// ListMembers lists all members of a team
	ListMembers(teamID uint64) ([]models.TeamMember, error)

	// FindMember finds a specific team membership
	FindMember(teamID, userID uint64) (*models.TeamMember, error)

	// AddMember adds a member to a team; adding an existing member is a no-op
	AddMember(member *models.TeamMember) error

	// RemoveMember removes a member from a team
	RemoveMember(teamID, userID uint64) error

	// CountSharedTeams counts teams that both users are members of
	CountSharedTeams(userA, userB uint64) (int64, error)

	// Delete deletes a team, its memberships, and detaches its tasks
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListByAssignee lists tasks assigned to a user
	ListByAssignee(userID uint64) ([]models.Task, error)

	// ListByTeam lists tasks belonging to a team
	ListByTeam(teamID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task by ID
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	TeamID        *uint64
	AssigneeID    *uint64
	CreatorID     *uint64
	Status        *models.TaskStatus
	DueDateFrom   *time.Time
	DueDateTo     *time.Time
	SortByDueDate bool
	Page          int
	PageSize      int
}
