package repository

import (
	"context"

	"gorm.io/gorm"

	"example.com/ferramentas/internal/models"
)

// RequesterPatch is a partial update: nil fields keep their stored value
type RequesterPatch struct {
	Name       *string
	Email      *string
	Phone      *string
	Department *string
}

// IsEmpty reports whether no field is set
func (p RequesterPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Department == nil
}

// RequesterRepository defines data access for requesters
type RequesterRepository interface {
	Create(ctx context.Context, requester *models.Requester) error
	List(ctx context.Context) ([]models.Requester, error)
	GetByID(ctx context.Context, id uint) (*models.Requester, error)
	Update(ctx context.Context, id uint, patch RequesterPatch) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// requesterRepository implements RequesterRepository
type requesterRepository struct {
	db *gorm.DB
}

// NewRequesterRepository creates a new requester repository
func NewRequesterRepository(db *gorm.DB) RequesterRepository {
	return &requesterRepository{db: db}
}

// Create inserts a new requester
func (r *requesterRepository) Create(ctx context.Context, requester *models.Requester) error {
	if err := r.db.WithContext(ctx).Create(requester).Error; err != nil {
		return storageErr("create requester", err)
	}
	return nil
}

// List returns all requesters ordered by name
func (r *requesterRepository) List(ctx context.Context) ([]models.Requester, error) {
	var requesters []models.Requester
	err := r.db.WithContext(ctx).Order("nome").Find(&requesters).Error
	if err != nil {
		return nil, storageErr("list requesters", err)
	}
	return requesters, nil
}

// GetByID fetches a requester by id
func (r *requesterRepository) GetByID(ctx context.Context, id uint) (*models.Requester, error) {
	var requester models.Requester
	err := r.db.WithContext(ctx).First(&requester, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, storageErr("get requester", err)
	}
	return &requester, nil
}

// Update applies the patch. Omitted fields retain their previous value.
// Returns false when the patch is empty or no row matched.
func (r *requesterRepository) Update(ctx context.Context, id uint, patch RequesterPatch) (bool, error) {
	if patch.IsEmpty() {
		return false, nil
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["nome"] = *patch.Name
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Phone != nil {
		updates["telefone"] = *patch.Phone
	}
	if patch.Department != nil {
		updates["departamento"] = *patch.Department
	}

	res := r.db.WithContext(ctx).Model(&models.Requester{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return false, storageErr("update requester", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a requester by id. Deleting a requester still
// referenced by movements fails at the backend foreign key.
func (r *requesterRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Requester{}, id)
	if res.Error != nil {
		return false, storageErr("delete requester", res.Error)
	}
	return res.RowsAffected > 0, nil
}
