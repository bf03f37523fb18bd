package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SmelhausJosef/Kokot-AI/internal/handlers"
	"github.com/SmelhausJosef/Kokot-AI/internal/middleware"
	"github.com/SmelhausJosef/Kokot-AI/models"
)

// RegisterAPIRoutes registers every route that requires authentication.
// Each mutating route carries its role allow-list; CEOs pass every check.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		profile := apiGroup.Group("/profile")
		{
			profile.GET("", handlers.GetProfileHandler)
		}

		organization := apiGroup.Group("/organization")
		{
			organization.GET("/members", handlers.ListMembersHandler)
			organization.GET("/subcontractors", handlers.ListSubcontractorsHandler)
			organization.POST("/invitations", middleware.RequireRoles(), handlers.CreateInvitationHandler)
			organization.PUT("/members/:id/role", middleware.RequireRoles(), handlers.UpdateMemberRoleHandler)
		}

		constructions := apiGroup.Group("/constructions")
		{
			constructions.GET("", handlers.ListConstructionsHandler)
			constructions.POST("", middleware.RequireRoles(models.RoleConstructionManager), handlers.CreateConstructionHandler)
		}

		orders := apiGroup.Group("/orders")
		{
			orders.GET("", handlers.ListOrdersHandler)
			orders.POST("", middleware.RequireRoles(models.RoleConstructionManager), handlers.CreateOrderHandler)
		}

		budgets := apiGroup.Group("/budgets")
		{
			budgets.GET("", handlers.ListBudgetsHandler)
			budgets.GET("/:id", handlers.GetBudgetHandler)
			budgets.GET("/:id/export", handlers.ExportBudgetHandler)
			budgets.POST("", middleware.RequireRoles(models.RoleBudgetManager), handlers.CreateBudgetHandler)
			budgets.GET("/:id/periods", handlers.ListPeriodsHandler)
			budgets.POST("/:id/periods", middleware.RequireRoles(models.RoleBudgetManager), handlers.CreatePeriodHandler)
		}

		periods := apiGroup.Group("/periods")
		{
			periods.GET("/:id", handlers.GetPeriodHandler)
			periods.POST("/:id/submit", middleware.RequireRoles(models.RoleBudgetManager), handlers.SubmitPeriodHandler)
			periods.POST("/:id/accept", middleware.RequireRoles(), handlers.AcceptPeriodHandler)
			periods.POST("/:id/decline", middleware.RequireRoles(), handlers.DeclinePeriodHandler)
			periods.POST("/:id/close", middleware.RequireRoles(), handlers.ClosePeriodHandler)
			periods.PUT("/:id/items/:itemId/amount", middleware.RequireRoles(models.RoleBudgetManager), handlers.SetItemAmountHandler)
		}
	}
}
