package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/focusflow/focusflow-api/internal/models"
	"github.com/focusflow/focusflow-api/internal/repository"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrTeamNameTaken      = errors.New("team name already exists")
	ErrTeamMemberNotFound = errors.New("team member not found")
)

// TeamService provides business logic for team and membership operations.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// CreateTeamInput represents parameters to create a new team.
type CreateTeamInput struct {
	Name         string
	Description  string
	MemberEmails []string
	CreatorEmail string
}

// CreateTeam creates a team with its initial member set. The creator is
// always a member, whether or not their email appears in MemberEmails.
func (s *TeamService) CreateTeam(input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	if _, err := s.teamRepo.FindByName(name); err == nil {
		return nil, ErrTeamNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check team name: %w", err)
	}

	creator, err := s.userRepo.FindByEmail(strings.TrimSpace(input.CreatorEmail))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find creator: %w", err)
	}

	memberIDs := []uint64{creator.ID}
	seen := map[uint64]struct{}{creator.ID: {}}

	for _, email := range input.MemberEmails {
		member, err := s.userRepo.FindByEmail(strings.TrimSpace(email))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to find member: %w", err)
		}
		if _, ok := seen[member.ID]; ok {
			continue
		}
		seen[member.ID] = struct{}{}
		memberIDs = append(memberIDs, member.ID)
	}

	team := &models.Team{
		Name:        name,
		Description: input.Description,
	}

	if err := s.teamRepo.CreateWithMembers(team, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// GetTeam returns a team by ID.
func (s *TeamService) GetTeam(id uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// GetTeamWithMembers returns a team and all of its members.
func (s *TeamService) GetTeamWithMembers(id uint64) (*models.Team, []models.TeamMember, error) {
	team, err := s.GetTeam(id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.teamRepo.ListMembers(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list team members: %w", err)
	}

	return team, members, nil
}

// ListTeams returns all teams.
func (s *TeamService) ListTeams() ([]models.Team, error) {
	teams, err := s.teamRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// ListTeamsForUser returns the teams a user belongs to.
func (s *TeamService) ListTeamsForUser(userID uint64) ([]models.Team, error) {
	teams, err := s.teamRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// AddMembers resolves each email to a user and adds them to the team.
// Adding a user who is already a member is a no-op.
func (s *TeamService) AddMembers(teamID uint64, emails []string) (*models.Team, []models.TeamMember, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, nil, err
	}

	for _, email := range emails {
		user, err := s.userRepo.FindByEmail(strings.TrimSpace(email))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrUserNotFound
			}
			return nil, nil, fmt.Errorf("failed to find member: %w", err)
		}

		member := &models.TeamMember{
			TeamID:   team.ID,
			UserID:   user.ID,
			JoinedAt: time.Now(),
		}
		if err := s.teamRepo.AddMember(member); err != nil {
			return nil, nil, fmt.Errorf("failed to add member: %w", err)
		}
	}

	members, err := s.teamRepo.ListMembers(team.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list team members: %w", err)
	}

	return team, members, nil
}

// ListTeamUsers returns the users belonging to a team.
func (s *TeamService) ListTeamUsers(teamID uint64) ([]models.User, error) {
	if _, err := s.GetTeam(teamID); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListByTeamID(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team users: %w", err)
	}
	return users, nil
}

// AddUserToTeam adds a single user to a team. Both sides of the
// relationship are served by the one membership row.
func (s *TeamService) AddUserToTeam(userID, teamID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.GetTeam(teamID); err != nil {
		return err
	}

	member := &models.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	if err := s.teamRepo.AddMember(member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// RemoveUserFromTeam removes a single user from a team.
func (s *TeamService) RemoveUserFromTeam(userID, teamID uint64) error {
	if _, err := s.GetTeam(teamID); err != nil {
		return err
	}

	if _, err := s.teamRepo.FindMember(teamID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamMemberNotFound
		}
		return fmt.Errorf("failed to find team member: %w", err)
	}

	if err := s.teamRepo.RemoveMember(teamID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// DeleteTeam removes a team, its memberships, and detaches its tasks.
func (s *TeamService) DeleteTeam(id uint64) error {
	if _, err := s.GetTeam(id); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	return nil
}
