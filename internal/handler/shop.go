package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fieldtrack/internal/model"
	"fieldtrack/internal/service"
)

// ShopHandler exposes the shop registry: CRUD for admins, the filtered
// listing, bulk operations and the spreadsheet import.
type ShopHandler struct {
	shops   *service.ShopService
	imports *service.ShopImportService
}

// NewShopHandler creates a shop handler
func NewShopHandler(shops *service.ShopService, imports *service.ShopImportService) *ShopHandler {
	return &ShopHandler{shops: shops, imports: imports}
}

// RegisterRoutes registers routes reps can use (listing their own shops).
func (h *ShopHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/shops", h.List)
	r.GET("/shops/:id", h.Get)
}

// RegisterAdminRoutes registers the admin-only registry operations.
func (h *ShopHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	shops := r.Group("/shops")
	{
		shops.POST("", h.Create)
		shops.PUT("/:id", h.Update)
		shops.POST("/bulk-delete", h.BulkDelete)
		shops.POST("/bulk-unassign", h.BulkUnassign)
		shops.POST("/import", h.Import)
		shops.GET("/import/template", h.ImportTemplate)
	}
}

// List godoc
// @Summary List shops with rep and search filters
// @Tags shops
// @Produce json
// @Param rep query string false "rep id, or 'unassigned'"
// @Param search query string false "matches name, bp_code or town"
// @Router /shops [get]
func (h *ShopHandler) List(c *gin.Context) {
	var query model.ShopListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shops, total, err := h.shops.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"list":      shops,
		"total":     total,
		"page":      query.Page,
		"page_size": query.PageSize,
	})
}

// Get godoc
// @Summary Shop detail
// @Tags shops
// @Produce json
// @Success 200 {object} model.Shop
// @Router /shops/{id} [get]
func (h *ShopHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop id"})
		return
	}

	shop, err := h.shops.Get(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, shop)
}

// Create godoc
// @Summary Create a shop
// @Tags shops
// @Accept json
// @Produce json
// @Param body body model.SaveShopRequest true "shop"
// @Success 201 {object} model.Shop
// @Router /shops [post]
func (h *ShopHandler) Create(c *gin.Context) {
	var req model.SaveShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shop, err := h.shops.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, shop)
}

// Update godoc
// @Summary Update a shop
// @Tags shops
// @Accept json
// @Produce json
// @Param body body model.SaveShopRequest true "shop"
// @Success 200 {object} model.Shop
// @Router /shops/{id} [put]
func (h *ShopHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop id"})
		return
	}

	var req model.SaveShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shop, err := h.shops.Update(c.Request.Context(), uint(id), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, shop)
}

// BulkDelete godoc
// @Summary Delete shops in chunks
// @Tags shops
// @Accept json
// @Produce json
// @Param body body model.BulkShopRequest true "shop ids"
// @Success 200 {object} model.BulkResult
// @Router /shops/bulk-delete [post]
func (h *ShopHandler) BulkDelete(c *gin.Context) {
	var req model.BulkShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.shops.BulkDelete(c.Request.Context(), req.IDs))
}

// BulkUnassign godoc
// @Summary Clear rep assignments in chunks
// @Tags shops
// @Accept json
// @Produce json
// @Param body body model.BulkShopRequest true "shop ids"
// @Success 200 {object} model.BulkResult
// @Router /shops/bulk-unassign [post]
func (h *ShopHandler) BulkUnassign(c *gin.Context) {
	var req model.BulkShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.shops.BulkUnassign(c.Request.Context(), req.IDs))
}

// Import godoc
// @Summary Import shops from an uploaded spreadsheet (.xlsx or .csv)
// @Tags shops
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "spreadsheet"
// @Success 200 {object} model.ShopImportResult
// @Router /shops/import [post]
func (h *ShopHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
		return
	}
	defer file.Close()

	var rows []model.ShopImportRow
	name := strings.ToLower(fileHeader.Filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		rows, err = h.imports.ParseCSV(file)
	case strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls"):
		rows, err = h.imports.ParseExcel(file)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type; upload .xlsx or .csv"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.imports.Import(c.Request.Context(), rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportTemplate godoc
// @Summary Download the blank import spreadsheet
// @Tags shops
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /shops/import/template [get]
func (h *ShopHandler) ImportTemplate(c *gin.Context) {
	buf, err := h.imports.GenerateImportTemplate()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shop_import_template.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
