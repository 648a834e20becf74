package model

import (
	"time"

	"gorm.io/gorm"
)

// Roles known to the system.
const (
	RoleAdmin   = "admin"
	RoleRep     = "rep"
	RoleManager = "manager"
)

// Account states stored in the integer status column.
const (
	UserStatusInactive = 0
	UserStatusActive   = 1
)

// User represents a system user. Reps carry their vehicle profile here;
// admins and managers only use the identity fields.
type User struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Username      string         `json:"username" gorm:"uniqueIndex;size:50"`
	Password      string         `json:"-" gorm:"size:255"` // hashed password
	FullName      string         `json:"full_name" gorm:"size:100"`
	VehicleNumber string         `json:"vehicle_number,omitempty" gorm:"size:20"`
	Phone         string         `json:"phone,omitempty" gorm:"size:20"`
	Role          string         `json:"role" gorm:"size:20;default:'rep'"` // admin, rep, manager
	Status        int            `json:"status" gorm:"default:1"`           // 0: inactive, 1: active
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateUserRequest creates a rep/manager/admin account
type CreateUserRequest struct {
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required,min=6"`
	FullName      string `json:"full_name" binding:"required"`
	VehicleNumber string `json:"vehicle_number"`
	Phone         string `json:"phone"`
	Role          string `json:"role" binding:"required,oneof=admin rep manager"`
}

// UpdateProfileRequest updates the caller's own profile metadata
type UpdateProfileRequest struct {
	FullName      string `json:"full_name"`
	VehicleNumber string `json:"vehicle_number"`
	Phone         string `json:"phone"`
}
