package repository

import (
	"context"

	"gorm.io/gorm"

	"example.com/ferramentas/internal/models"
)

// MovementPatch is an allow-listed partial update for movements.
// Nil fields keep their stored value.
type MovementPatch struct {
	Type               *string
	RequesterID        *uint
	ToolID             *uint
	ProjectID          *uint
	CheckoutDate       *string
	ExpectedReturnDate *string
	ReturnTime         *string
	HasReturn          *bool
	Notes              *string
	Status             *string
	NotificationEmail  *string
}

// IsEmpty reports whether no field is set
func (p MovementPatch) IsEmpty() bool {
	return p.Type == nil && p.RequesterID == nil && p.ToolID == nil &&
		p.ProjectID == nil && p.CheckoutDate == nil && p.ExpectedReturnDate == nil &&
		p.ReturnTime == nil && p.HasReturn == nil && p.Notes == nil &&
		p.Status == nil && p.NotificationEmail == nil
}

// MovementRepository owns the loan ledger: every change to a tool's
// available quantity happens through these methods.
type MovementRepository interface {
	Create(ctx context.Context, movement *models.Movement) error
	List(ctx context.Context, status models.MovementStatus) ([]models.MovementRow, error)
	GetByID(ctx context.Context, id uint) (*models.Movement, error)
	Update(ctx context.Context, id uint, patch MovementPatch) (bool, error)
	Complete(ctx context.Context, id uint) (bool, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	CountOpenCheckouts(ctx context.Context, toolID uint) (int64, error)
}

// movementRepository implements MovementRepository
type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepository{db: db}
}

// Create inserts a movement in status "ativo". For checkouts the tool's
// available quantity is decremented first with the availability check in
// the UPDATE itself, so two concurrent checkouts can never both consume
// the last unit. Decrement and insert commit or roll back as one unit.
func (r *movementRepository) Create(ctx context.Context, movement *models.Movement) error {
	movement.Status = models.StatusActive

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if movement.Type.IsCheckout() {
			res := tx.Model(&models.Tool{}).
				Where("id = ? AND quantidade_disponivel > 0", movement.ToolID).
				Update("quantidade_disponivel", gorm.Expr("quantidade_disponivel - 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrToolUnavailable
			}
		}

		return tx.Omit("Requester", "Tool", "Project").Create(movement).Error
	})
	if err != nil {
		if err == ErrToolUnavailable {
			return err
		}
		return storageErr("create movement", err)
	}
	return nil
}

// List returns movements joined with requester and tool names, newest
// first. An empty status returns all movements.
func (r *movementRepository) List(ctx context.Context, status models.MovementStatus) ([]models.MovementRow, error) {
	var rows []models.MovementRow
	query := r.db.WithContext(ctx).
		Table("movimentacoes m").
		Select("m.*, s.nome as solicitante_nome, f.nome as ferramenta_nome").
		Joins("JOIN solicitantes s ON m.solicitante_id = s.id").
		Joins("JOIN ferramentas f ON m.ferramenta_id = f.id").
		Order("m.criado_em DESC")

	if status != "" {
		query = query.Where("m.status = ?", status)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, storageErr("list movements", err)
	}
	return rows, nil
}

// GetByID fetches a movement by id
func (r *movementRepository) GetByID(ctx context.Context, id uint) (*models.Movement, error) {
	var movement models.Movement
	err := r.db.WithContext(ctx).First(&movement, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, storageErr("get movement", err)
	}
	return &movement, nil
}

// Update applies the allow-listed patch. Returns false when the patch
// is empty or no row matched.
func (r *movementRepository) Update(ctx context.Context, id uint, patch MovementPatch) (bool, error) {
	if patch.IsEmpty() {
		return false, nil
	}

	updates := map[string]interface{}{}
	if patch.Type != nil {
		updates["tipo"] = string(models.NormalizeType(*patch.Type))
	}
	if patch.RequesterID != nil {
		updates["solicitante_id"] = *patch.RequesterID
	}
	if patch.ToolID != nil {
		updates["ferramenta_id"] = *patch.ToolID
	}
	if patch.ProjectID != nil {
		updates["projeto_id"] = *patch.ProjectID
	}
	if patch.CheckoutDate != nil {
		updates["data_saida"] = *patch.CheckoutDate
	}
	if patch.ExpectedReturnDate != nil {
		updates["data_retorno"] = *patch.ExpectedReturnDate
	}
	if patch.ReturnTime != nil {
		updates["hora_devolucao"] = *patch.ReturnTime
	}
	if patch.HasReturn != nil {
		updates["tem_retorno"] = *patch.HasReturn
	}
	if patch.Notes != nil {
		updates["observacoes"] = *patch.Notes
	}
	if patch.Status != nil {
		updates["status"] = string(models.NormalizeStatus(*patch.Status))
	}
	if patch.NotificationEmail != nil {
		updates["email_notificacao"] = *patch.NotificationEmail
	}

	res := r.db.WithContext(ctx).Model(&models.Movement{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return false, storageErr("update movement", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Complete flips a movement to "concluido" and, for checkouts, returns
// the unit to the tool's available count. The status flip is guarded on
// status = 'ativo': completing a movement twice returns false and never
// increments availability a second time.
func (r *movementRepository) Complete(ctx context.Context, id uint) (bool, error) {
	completed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var movement models.Movement
		if err := tx.First(&movement, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}

		res := tx.Model(&models.Movement{}).
			Where("id = ? AND status = ?", id, models.StatusActive).
			Update("status", models.StatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if movement.Type.IsCheckout() {
			if err := tx.Model(&models.Tool{}).
				Where("id = ?", movement.ToolID).
				Update("quantidade_disponivel", gorm.Expr("quantidade_disponivel + 1")).Error; err != nil {
				return err
			}
		}

		completed = true
		return nil
	})
	if err != nil {
		return false, storageErr("complete movement", err)
	}
	return completed, nil
}

// Statistics computes the aggregate counters served by the API
func (r *movementRepository) Statistics(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Tool{}).Count(&stats.TotalTools).Error; err != nil {
		return nil, storageErr("count tools", err)
	}
	if err := db.Model(&models.Tool{}).
		Where("quantidade_disponivel > 0").
		Count(&stats.AvailableTools).Error; err != nil {
		return nil, storageErr("count available tools", err)
	}
	if err := db.Model(&models.Movement{}).
		Where("status = ?", models.StatusActive).
		Count(&stats.ActiveMovements).Error; err != nil {
		return nil, storageErr("count active movements", err)
	}
	if err := db.Model(&models.Requester{}).Count(&stats.TotalRequesters).Error; err != nil {
		return nil, storageErr("count requesters", err)
	}

	return &stats, nil
}

// CountOpenCheckouts counts open checkout movements for a tool. Used to
// reconcile the incremental availability bookkeeping against a full
// recount.
func (r *movementRepository) CountOpenCheckouts(ctx context.Context, toolID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Movement{}).
		Where("ferramenta_id = ? AND tipo = ? AND status = ?",
			toolID, models.TypeCheckout, models.StatusActive).
		Count(&count).Error
	if err != nil {
		return 0, storageErr("count open checkouts", err)
	}
	return count, nil
}
