package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SmelhausJosef/Kokot-AI/internal/middleware"
)

// SetupRouter builds the gin engine: public auth routes plus the
// authenticated API group.
func SetupRouter() *gin.Engine {
	r := gin.Default()

	RegisterAuthRoutes(r)

	authenticated := r.Group("/")
	authenticated.Use(middleware.AuthMiddleware())
	RegisterAPIRoutes(authenticated)

	return r
}
