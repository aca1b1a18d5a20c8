package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/focusflow/focusflow-api/internal/dto"
	apierrors "github.com/focusflow/focusflow-api/internal/errors"
	"github.com/focusflow/focusflow-api/internal/services"
)

// TeamHandler serves team CRUD and membership endpoints.
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// CreateTeam creates a team with an initial member set.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	type CreateTeamRequest struct {
		Name         string   `json:"name" binding:"required"`
		Description  string   `json:"description"`
		MemberEmails []string `json:"member_emails"`
		CreatorEmail string   `json:"creator_email" binding:"required"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(services.CreateTeamInput{
		Name:         req.Name,
		Description:  req.Description,
		MemberEmails: req.MemberEmails,
		CreatorEmail: req.CreatorEmail,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// ListTeams returns all teams.
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.ListTeams()
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": dto.ToTeamDTOs(teams),
	})
}

// GetTeam returns a team with its members.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	team, members, err := h.teamService.GetTeamWithMembers(id)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDetailDTO(*team, members))
}

// ListMembers returns the members of a team.
func (h *TeamHandler) ListMembers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	_, members, err := h.teamService.GetTeamWithMembers(id)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	memberDTOs := make([]dto.TeamMemberDTO, len(members))
	for i, m := range members {
		memberDTOs[i] = dto.ToTeamMemberDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"members": memberDTOs,
	})
}

// AddMembers adds users to a team by email. Re-adding a member is a no-op.
func (h *TeamHandler) AddMembers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddMembersRequest struct {
		MemberEmails []string `json:"member_emails" binding:"required"`
	}

	var req AddMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, members, err := h.teamService.AddMembers(id, req.MemberEmails)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Members added",
		"team_id":      team.ID,
		"member_count": len(members),
	})
}

// ListTeamsForUser returns the teams a user belongs to.
func (h *TeamHandler) ListTeamsForUser(c *gin.Context) {
	userIDStr := c.Query("user_id")
	userID, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user_id")
		return
	}

	teams, err := h.teamService.ListTeamsForUser(userID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": dto.ToTeamDTOs(teams),
	})
}

// DeleteTeam deletes a team by ID.
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(id); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team deleted successfully",
	})
}
