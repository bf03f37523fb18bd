package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SmelhausJosef/Kokot-AI/internal/handlers"
)

// RegisterAuthRoutes registers the public routes that do not require a
// token: login, logout, organization signup and invitation acceptance.
func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/login", handlers.LoginHandler)
	r.GET("/logout", handlers.LogoutHandler)
	r.POST("/register", handlers.RegisterOrganizationHandler)
	r.POST("/invitations/:token/accept", handlers.AcceptInvitationHandler)
}
