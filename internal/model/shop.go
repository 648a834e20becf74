package model

import (
	"time"
)

// Shop is a customer outlet. BpCode, when present, is the natural key used
// to match spreadsheet import rows against existing shops.
type Shop struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	BpCode        *string   `json:"bp_code,omitempty" gorm:"column:bp_code;size:50;index"`
	DslCode       *string   `json:"dsl_code,omitempty" gorm:"column:dsl_code;size:50"`
	Address       string    `json:"address,omitempty" gorm:"size:255"`
	Phone         string    `json:"phone,omitempty" gorm:"size:30"`
	Town          string    `json:"town,omitempty" gorm:"size:100"`
	District      string    `json:"district,omitempty" gorm:"size:100"`
	ContactPerson string    `json:"contact_person,omitempty" gorm:"column:contact_person;size:100"`
	AssignedRepID *uint     `json:"assigned_rep_id,omitempty" gorm:"column:assigned_rep_id;index"`
	IsSuspended   bool      `json:"is_suspended" gorm:"column:is_suspended;default:false"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;default:now()"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"not null;default:now()"`

	// Decorated on list responses, not stored.
	RepName string `json:"rep_name,omitempty" gorm:"-"`
}

func (Shop) TableName() string {
	return "shops"
}

// SaveShopRequest creates or updates a shop from the admin form
type SaveShopRequest struct {
	Name          string `json:"name" binding:"required"`
	BpCode        string `json:"bp_code"`
	DslCode       string `json:"dsl_code"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Town          string `json:"town"`
	District      string `json:"district"`
	ContactPerson string `json:"contact_person"`
	AssignedRepID *uint  `json:"assigned_rep_id"`
	IsSuspended   *bool  `json:"is_suspended"`
}

// ShopListQuery filters the shop listing
type ShopListQuery struct {
	Rep      string `form:"rep"` // "", "unassigned", or a rep user id
	Search   string `form:"search"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=50"`
}

// BulkShopRequest names the shops a chunked bulk operation applies to
type BulkShopRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// BulkResult reports the aggregate outcome of a chunked operation. Chunks are
// best-effort: a failed chunk counts all of its rows as failed and the
// operation continues with the next chunk.
type BulkResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}
