package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fieldtrack/internal/model"
	"fieldtrack/internal/service"
)

// UserHandler is the admin account management surface.
type UserHandler struct {
	db   *gorm.DB
	auth *service.AuthService
}

// NewUserHandler creates a user handler
func NewUserHandler(db *gorm.DB, auth *service.AuthService) *UserHandler {
	return &UserHandler{db: db, auth: auth}
}

// RegisterRoutes registers self-service profile routes.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.PUT("/profile", h.UpdateProfile)
}

// RegisterAdminRoutes registers admin-only account management.
func (h *UserHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}
}

// List godoc
// @Summary List user accounts
// @Tags users
// @Produce json
// @Param role query string false "filter by role"
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	db := h.db.Model(&model.User{})
	if role := c.Query("role"); role != "" {
		db = db.Where("role = ?", role)
	}

	var users []model.User
	if err := db.Order("full_name").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": users})
}

// Create godoc
// @Summary Create a user account
// @Tags users
// @Accept json
// @Produce json
// @Param body body model.CreateUserRequest true "account"
// @Success 201 {object} model.User
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64
	h.db.Model(&model.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists"})
		return
	}

	user := model.User{
		Username:      req.Username,
		Password:      req.Password,
		FullName:      req.FullName,
		VehicleNumber: req.VehicleNumber,
		Phone:         req.Phone,
		Role:          req.Role,
		Status:        model.UserStatusActive,
	}
	if err := h.auth.CreateUser(c.Request.Context(), &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary Update a user account
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} model.User
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req struct {
		FullName      string `json:"full_name"`
		VehicleNumber string `json:"vehicle_number"`
		Phone         string `json:"phone"`
		Role          string `json:"role" binding:"omitempty,oneof=admin rep manager"`
		Status        *int   `json:"status"`
		Password      string `json:"password" binding:"omitempty,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.VehicleNumber != "" {
		updates["vehicle_number"] = req.VehicleNumber
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		updates["password"] = string(hashed)
	}

	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Delete a user account and its field data
// @Tags users
// @Produce json
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if uint(id) == currentUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	// Dependents first so a failure partway leaves no orphaned rows
	// pointing at a missing user.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Visit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.DailyLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.FuelLog{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Shop{}).Where("assigned_rep_id = ?", id).Update("assigned_rep_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// UpdateProfile godoc
// @Summary Update the caller's own profile
// @Tags users
// @Accept json
// @Produce json
// @Param body body model.UpdateProfileRequest true "profile"
// @Success 200 {object} model.User
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user model.User
	if err := h.db.First(&user, currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.VehicleNumber != "" {
		updates["vehicle_number"] = req.VehicleNumber
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, user)
}
