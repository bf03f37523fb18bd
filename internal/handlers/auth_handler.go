package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SmelhausJosef/Kokot-AI/config"
	"github.com/SmelhausJosef/Kokot-AI/models"
)

const tokenLifetime = 24 * time.Hour

func issueToken(c *gin.Context, user *models.User) error {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(config.JwtKey)
	if err != nil {
		return err
	}
	c.SetCookie("auth_token", signed, int(tokenLifetime.Seconds()), "/", "", false, true)
	return nil
}

// LoginHandler checks credentials and sets the auth cookie.
func LoginHandler(c *gin.Context) {
	var body struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Login and password are required"})
		return
	}

	var user models.User
	if err := config.DB.Where("login = ?", body.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login or password"})
		return
	}

	if err := issueToken(c, &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
}

// LogoutHandler clears the auth cookie.
func LogoutHandler(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// RegisterOrganizationHandler is the public signup: it creates the user, the
// organization and the CEO membership in one transaction.
func RegisterOrganizationHandler(c *gin.Context) {
	var body struct {
		Login            string `json:"login" binding:"required"`
		Password         string `json:"password" binding:"required,min=8"`
		FullName         string `json:"fullName"`
		OrganizationName string `json:"organizationName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	var user models.User
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		user = models.User{Login: body.Login, PasswordHash: string(hash), FullName: body.FullName}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		org := models.Organization{Name: body.OrganizationName}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		membership := models.OrganizationMembership{
			UserID:         user.ID,
			OrganizationID: org.ID,
			Role:           models.RoleCEO,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration failed: " + err.Error()})
		return
	}

	if err := issueToken(c, &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Organization registered"})
}

// AcceptInvitationHandler registers a user through an invitation token and
// enrolls them in the inviting organization with the invited role.
func AcceptInvitationHandler(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invitation token"})
		return
	}

	var body struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
		FullName string `json:"fullName"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	var user models.User
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var invitation models.Invitation
		if err := tx.Where("token = ?", token).First(&invitation).Error; err != nil {
			return err
		}
		if invitation.IsAccepted() || invitation.IsExpired(time.Now().UTC()) {
			return errors.New("invitation is no longer valid")
		}

		user = models.User{Login: body.Login, PasswordHash: string(hash), FullName: body.FullName}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		membership := models.OrganizationMembership{
			UserID:         user.ID,
			OrganizationID: invitation.OrganizationID,
			Role:           invitation.Role,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		return tx.Model(&invitation).Update("accepted_at", now).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := issueToken(c, &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Invitation accepted"})
}

// GetProfileHandler returns the authenticated user with their membership.
func GetProfileHandler(c *gin.Context) {
	var membership models.OrganizationMembership
	err := config.DB.Preload("User").Preload("Organization").
		Where("user_id = ?", currentUserID(c)).
		First(&membership).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"login":        membership.User.Login,
		"fullName":     membership.User.FullName,
		"organization": membership.Organization.Name,
		"role":         membership.Role,
	})
}
