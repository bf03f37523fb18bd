package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SmelhausJosef/Kokot-AI/config"
	"github.com/SmelhausJosef/Kokot-AI/models"
)

// CreateConstructionHandler creates a building site in the caller's
// organization.
func CreateConstructionHandler(c *gin.Context) {
	var body struct {
		Name     string `json:"name" binding:"required"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	construction := models.Construction{
		OrganizationID: currentOrgID(c),
		Name:           body.Name,
		Location:       body.Location,
	}
	if err := config.DB.Create(&construction).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create construction"})
		return
	}
	c.JSON(http.StatusCreated, construction)
}

// ListConstructionsHandler lists the caller's organization sites with their
// orders preloaded.
func ListConstructionsHandler(c *gin.Context) {
	var constructions []models.Construction
	err := config.DB.Preload("Orders").
		Where("organization_id = ?", currentOrgID(c)).
		Order("name asc").
		Find(&constructions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch constructions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": constructions})
}

// CreateOrderHandler creates an order under a construction of the caller's
// organization.
func CreateOrderHandler(c *gin.Context) {
	var body struct {
		ConstructionID uint   `json:"constructionId" binding:"required"`
		Name           string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var construction models.Construction
	err := config.DB.Where("id = ? AND organization_id = ?", body.ConstructionID, currentOrgID(c)).
		First(&construction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Construction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	order := models.Order{ConstructionID: construction.ID, Name: body.Name}
	if err := config.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrdersHandler lists orders across the organization's constructions.
func ListOrdersHandler(c *gin.Context) {
	var orders []models.Order
	err := scopeOrders(config.DB.Model(&models.Order{}), currentOrgID(c)).
		Order("orders.name asc").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}
