package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"fieldtrack/internal/model"
)

// Chunk sizes for the bulk operations. Deletes touch dependent visit rows so
// they run in smaller batches than assignment clears.
const (
	bulkDeleteChunkSize   = 20
	bulkUnassignChunkSize = 50
)

// ShopService owns the shop registry: CRUD, the filtered admin listing and
// the chunked bulk operations.
type ShopService struct {
	db *gorm.DB
}

// NewShopService creates a new shop service
func NewShopService(db *gorm.DB) *ShopService {
	return &ShopService{db: db}
}

// ChunkIDs splits ids into batches of at most size. Exported for the bulk
// handlers' progress estimates.
func ChunkIDs(ids []uint, size int) [][]uint {
	if size <= 0 {
		size = 1
	}
	var chunks [][]uint
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// Create inserts a shop from the admin form.
func (s *ShopService) Create(ctx context.Context, req *model.SaveShopRequest) (*model.Shop, error) {
	shop := &model.Shop{}
	applyShopRequest(shop, req)
	if err := s.db.WithContext(ctx).Create(shop).Error; err != nil {
		return nil, err
	}
	return shop, nil
}

// Update rewrites a shop's editable fields.
func (s *ShopService) Update(ctx context.Context, id uint, req *model.SaveShopRequest) (*model.Shop, error) {
	var shop model.Shop
	if err := s.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shop %d not found", id)
		}
		return nil, err
	}

	applyShopRequest(&shop, req)
	if err := s.db.WithContext(ctx).Save(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func applyShopRequest(shop *model.Shop, req *model.SaveShopRequest) {
	shop.Name = req.Name
	shop.Address = req.Address
	shop.Phone = req.Phone
	shop.Town = req.Town
	shop.District = req.District
	shop.ContactPerson = req.ContactPerson
	shop.AssignedRepID = req.AssignedRepID
	if req.BpCode != "" {
		code := req.BpCode
		shop.BpCode = &code
	} else {
		shop.BpCode = nil
	}
	if req.DslCode != "" {
		code := req.DslCode
		shop.DslCode = &code
	} else {
		shop.DslCode = nil
	}
	if req.IsSuspended != nil {
		shop.IsSuspended = *req.IsSuspended
	}
}

// Get loads one shop by id.
func (s *ShopService) Get(ctx context.Context, id uint) (*model.Shop, error) {
	var shop model.Shop
	if err := s.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shop %d not found", id)
		}
		return nil, err
	}
	return &shop, nil
}

// List returns shops matching the admin filters, rep names decorated,
// newest first.
func (s *ShopService) List(ctx context.Context, query model.ShopListQuery) ([]model.Shop, int64, error) {
	db := s.db.WithContext(ctx).Model(&model.Shop{})

	switch query.Rep {
	case "":
	case "unassigned":
		db = db.Where("assigned_rep_id IS NULL")
	default:
		db = db.Where("assigned_rep_id = ?", query.Rep)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR bp_code ILIKE ? OR town ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	db.Count(&total)

	var shops []model.Shop
	offset := (query.Page - 1) * query.PageSize
	err := db.Order("created_at DESC").Offset(offset).Limit(query.PageSize).Find(&shops).Error
	if err != nil {
		return nil, 0, err
	}

	if err := s.decorateRepNames(ctx, shops); err != nil {
		return nil, 0, err
	}
	return shops, total, nil
}

// decorateRepNames fills the transient RepName field from one users query.
func (s *ShopService) decorateRepNames(ctx context.Context, shops []model.Shop) error {
	repIDs := make(map[uint]bool)
	for _, shop := range shops {
		if shop.AssignedRepID != nil {
			repIDs[*shop.AssignedRepID] = true
		}
	}
	if len(repIDs) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(repIDs))
	for id := range repIDs {
		ids = append(ids, id)
	}
	var reps []model.User
	if err := s.db.WithContext(ctx).Select("id", "full_name").Where("id IN ?", ids).Find(&reps).Error; err != nil {
		return err
	}

	names := make(map[uint]string, len(reps))
	for _, rep := range reps {
		names[rep.ID] = rep.FullName
	}
	for i := range shops {
		if shops[i].AssignedRepID != nil {
			shops[i].RepName = names[*shops[i].AssignedRepID]
		}
	}
	return nil
}

// BulkDelete removes shops in chunks. A failed chunk counts its whole batch
// as failed and the operation moves on.
func (s *ShopService) BulkDelete(ctx context.Context, ids []uint) model.BulkResult {
	var result model.BulkResult
	for _, chunk := range ChunkIDs(ids, bulkDeleteChunkSize) {
		err := s.db.WithContext(ctx).Where("id IN ?", chunk).Delete(&model.Shop{}).Error
		if err != nil {
			log.Printf("[Shop] Bulk delete chunk of %d failed: %v", len(chunk), err)
			result.Failed += len(chunk)
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Succeeded += len(chunk)
	}
	return result
}

// BulkUnassign clears the rep assignment on shops in chunks.
func (s *ShopService) BulkUnassign(ctx context.Context, ids []uint) model.BulkResult {
	var result model.BulkResult
	for _, chunk := range ChunkIDs(ids, bulkUnassignChunkSize) {
		err := s.db.WithContext(ctx).Model(&model.Shop{}).
			Where("id IN ?", chunk).
			Update("assigned_rep_id", nil).Error
		if err != nil {
			log.Printf("[Shop] Bulk unassign chunk of %d failed: %v", len(chunk), err)
			result.Failed += len(chunk)
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Succeeded += len(chunk)
	}
	return result
}
