package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SmelhausJosef/Kokot-AI/config"
	"github.com/SmelhausJosef/Kokot-AI/internal/middleware"
	"github.com/SmelhausJosef/Kokot-AI/models"
)

const invitationLifetime = 7 * 24 * time.Hour

// CreateInvitationHandler issues an invitation token for a new member of the
// caller's organization.
func CreateInvitationHandler(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inviterID := currentUserID(c)
	invitation := models.Invitation{
		OrganizationID: currentOrgID(c),
		Email:          body.Email,
		Role:           body.Role,
		InvitedByID:    &inviterID,
		Token:          uuid.New(),
		ExpiresAt:      time.Now().UTC().Add(invitationLifetime),
	}
	if err := config.DB.Create(&invitation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}
	c.JSON(http.StatusCreated, invitation)
}

// ListMembersHandler lists the memberships of the caller's organization.
func ListMembersHandler(c *gin.Context) {
	var memberships []models.OrganizationMembership
	err := config.DB.Preload("User").
		Where("organization_id = ?", currentOrgID(c)).
		Order("id asc").
		Find(&memberships).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": memberships})
}

// UpdateMemberRoleHandler changes a member's role and drops their cached
// membership so the change takes effect immediately.
func UpdateMemberRoleHandler(c *gin.Context) {
	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var membership models.OrganizationMembership
	err := config.DB.Where("id = ? AND organization_id = ?", c.Param("id"), currentOrgID(c)).
		First(&membership).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
		return
	}

	if err := config.DB.Model(&membership).Update("role", body.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	middleware.InvalidateMembershipCache(membership.UserID)
	c.JSON(http.StatusOK, membership)
}

// ListSubcontractorsHandler lists organizations invited under the caller's.
func ListSubcontractorsHandler(c *gin.Context) {
	var orgs []models.Organization
	err := config.DB.Where("parent_id = ?", currentOrgID(c)).Order("name asc").Find(&orgs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subcontractors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orgs})
}
