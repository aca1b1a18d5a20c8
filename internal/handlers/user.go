package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/focusflow/focusflow-api/internal/dto"
	apierrors "github.com/focusflow/focusflow-api/internal/errors"
	"github.com/focusflow/focusflow-api/internal/services"
)

// UserHandler serves user lookup, profile and team-membership endpoints.
type UserHandler struct {
	authService *services.AuthService
	teamService *services.TeamService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, teamService *services.TeamService) *UserHandler {
	return &UserHandler{
		authService: authService,
		teamService: teamService,
	}
}

// GetUser returns a user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.authService.GetUser(id)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ListUsers returns users filtered by role or team membership.
func (h *UserHandler) ListUsers(c *gin.Context) {
	if role := c.Query("role"); role != "" {
		users, err := h.authService.ListUsersByRole(role)
		if err != nil {
			respondAuthError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
		return
	}

	if teamIDStr := c.Query("team_id"); teamIDStr != "" {
		teamID, err := strconv.ParseUint(teamIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team_id")
			return
		}
		users, err := h.teamService.ListTeamUsers(teamID)
		if err != nil {
			respondTeamError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
		return
	}

	apierrors.BadRequest(c, "role or team_id query parameter is required")
}

// GetUserByEmail returns a user by email.
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		apierrors.BadRequest(c, "email query parameter is required")
		return
	}

	user, err := h.authService.GetUserByEmail(email)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile applies a partial update to a user's profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateProfileRequest struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateProfile(id, services.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateRole sets a user's role.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.AssignRole(id, req.Role)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// AddUserToTeam adds the user to a team.
func (h *UserHandler) AddUserToTeam(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}

	if err := h.teamService.AddUserToTeam(userID, teamID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User added to team",
	})
}

// RemoveUserFromTeam removes the user from a team.
func (h *UserHandler) RemoveUserFromTeam(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}

	if err := h.teamService.RemoveUserFromTeam(userID, teamID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User removed from team",
	})
}

// parseIDParam parses a numeric URL parameter, responding with 400 on failure.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTeamNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTeamNameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrTeamMemberNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
