package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/SmelhausJosef/Kokot-AI/config"
	"github.com/SmelhausJosef/Kokot-AI/internal/importer"
	"github.com/SmelhausJosef/Kokot-AI/models"
)

// CreateBudgetHandler creates a budget for an order and, when a workbook is
// attached, imports its header tree and items in the same transaction. If
// the import fails the stored file is removed again so no orphaned upload
// remains without data.
func CreateBudgetHandler(c *gin.Context) {
	var form struct {
		OrderID uint   `form:"orderId" binding:"required"`
		Name    string `form:"name" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order
	err := scopeOrders(config.DB.Model(&models.Order{}), currentOrgID(c)).
		Where("orders.id = ?", form.OrderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	excelPath := ""
	if file, err := c.FormFile("excelFile"); err == nil {
		uploadDir := budgetsBaseDir()
		if err := ensureDir(uploadDir); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload directory"})
			return
		}
		name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
		excelPath = filepath.Join(uploadDir, name)
		if err := c.SaveUploadedFile(file, excelPath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
			return
		}
	}

	budget := models.Budget{OrderID: order.ID, Name: form.Name, ExcelFile: excelPath}
	created := 0
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&budget).Error; err != nil {
			return err
		}
		if budget.ExcelFile == "" {
			return nil
		}
		count, err := importer.ImportBudget(tx, &budget)
		if err != nil {
			return err
		}
		created = count
		return nil
	})
	if err != nil {
		// import failed: the file must not outlive the rolled-back rows
		if excelPath != "" {
			os.Remove(excelPath)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": budget, "importedItems": created})
}

// ListBudgetsHandler returns the organization's budgets, paginated, with an
// optional name search.
func ListBudgetsHandler(c *gin.Context) {
	var budgets []models.Budget
	var totalRows int64

	query := scopeBudgets(config.DB.Model(&models.Budget{}), currentOrgID(c))
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(budgets.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count budgets"})
		return
	}
	if err := query.Scopes(Paginate(c)).Order("budgets.name asc").Find(&budgets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budgets"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, budgets, totalRows))
}

func findScopedBudget(c *gin.Context) (*models.Budget, bool) {
	var budget models.Budget
	err := scopeBudgets(config.DB.Model(&models.Budget{}), currentOrgID(c)).
		Where("budgets.id = ?", c.Param("id")).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return nil, false
	}
	return &budget, true
}

// GetBudgetHandler returns one budget with its full header tree and items.
func GetBudgetHandler(c *gin.Context) {
	budget, ok := findScopedBudget(c)
	if !ok {
		return
	}

	var headers []models.BudgetHeader
	err := config.DB.Preload("Items").
		Where("budget_id = ?", budget.ID).
		Order("id asc").
		Find(&headers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budget structure"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget, "headers": headers})
}

// ExportBudgetHandler renders the budget tree back into an xlsx attachment.
func ExportBudgetHandler(c *gin.Context) {
	budget, ok := findScopedBudget(c)
	if !ok {
		return
	}

	var headers []models.BudgetHeader
	err := config.DB.Preload("Items").
		Where("budget_id = ?", budget.ID).
		Order("id asc").
		Find(&headers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budget structure"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Rozpočet"
	index, err := f.NewSheet(sheet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	columns := []string{"Kód", "Popis", "MJ", "Jedn. Cena"}
	for i, column := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, column)
	}

	row := 2
	depths := headerDepths(headers)
	for _, header := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), strings.Repeat("    ", depths[header.ID])+header.Title)
		row++
		for _, item := range header.Items {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.Code)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Description)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.MeasureUnit)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.PriceForUnit.StringFixed(2))
			row++
		}
	}

	fileName := fmt.Sprintf("budget_%d_%s.xlsx", budget.ID, time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}

// headerDepths computes each header's depth from the parent chain; headers
// arrive ordered by id, parents before children.
func headerDepths(headers []models.BudgetHeader) map[uint]int {
	depths := make(map[uint]int, len(headers))
	for _, header := range headers {
		if header.ParentID == nil {
			depths[header.ID] = 0
			continue
		}
		depths[header.ID] = depths[*header.ParentID] + 1
	}
	return depths
}
