package repository

import (
	"context"

	"gorm.io/gorm"

	"example.com/ferramentas/internal/models"
)

// ToolPatch is a partial update: nil fields keep their stored value
type ToolPatch struct {
	Name          *string
	TotalQuantity *int
}

// IsEmpty reports whether no field is set
func (p ToolPatch) IsEmpty() bool {
	return p.Name == nil && p.TotalQuantity == nil
}

// ToolRepository defines data access for tools
type ToolRepository interface {
	Create(ctx context.Context, tool *models.Tool) error
	List(ctx context.Context) ([]models.Tool, error)
	GetByID(ctx context.Context, id uint) (*models.Tool, error)
	Update(ctx context.Context, id uint, patch ToolPatch) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// toolRepository implements ToolRepository
type toolRepository struct {
	db *gorm.DB
}

// NewToolRepository creates a new tool repository
func NewToolRepository(db *gorm.DB) ToolRepository {
	return &toolRepository{db: db}
}

// Create inserts a new tool with all units available
func (r *toolRepository) Create(ctx context.Context, tool *models.Tool) error {
	tool.AvailableQuantity = tool.TotalQuantity
	if err := r.db.WithContext(ctx).Create(tool).Error; err != nil {
		return storageErr("create tool", err)
	}
	return nil
}

// List returns all tools ordered by name
func (r *toolRepository) List(ctx context.Context) ([]models.Tool, error) {
	var tools []models.Tool
	err := r.db.WithContext(ctx).Order("nome").Find(&tools).Error
	if err != nil {
		return nil, storageErr("list tools", err)
	}
	return tools, nil
}

// GetByID fetches a tool by id
func (r *toolRepository) GetByID(ctx context.Context, id uint) (*models.Tool, error) {
	var tool models.Tool
	err := r.db.WithContext(ctx).First(&tool, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, storageErr("get tool", err)
	}
	return &tool, nil
}

// Update applies the patch. Changing the total quantity keeps the
// availability ledger consistent: the available count moves by the same
// delta, and lowering the total below the number of units on loan is
// rejected with ErrTotalBelowLoaned.
func (r *toolRepository) Update(ctx context.Context, id uint, patch ToolPatch) (bool, error) {
	if patch.IsEmpty() {
		return false, nil
	}

	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tool models.Tool
		if err := tx.First(&tool, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		found = true

		updates := map[string]interface{}{}
		if patch.Name != nil {
			updates["nome"] = *patch.Name
		}
		if patch.TotalQuantity != nil {
			loaned := tool.TotalQuantity - tool.AvailableQuantity
			if *patch.TotalQuantity < loaned {
				return ErrTotalBelowLoaned
			}
			updates["quantidade_total"] = *patch.TotalQuantity
			updates["quantidade_disponivel"] = *patch.TotalQuantity - loaned
		}

		return tx.Model(&models.Tool{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		if err == ErrTotalBelowLoaned {
			return true, err
		}
		return false, storageErr("update tool", err)
	}
	return found, nil
}

// Delete removes a tool by id. Deleting a tool still referenced by
// movements fails at the backend foreign key.
func (r *toolRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Tool{}, id)
	if res.Error != nil {
		return false, storageErr("delete tool", res.Error)
	}
	return res.RowsAffected > 0, nil
}
