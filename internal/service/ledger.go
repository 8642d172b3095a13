package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"example.com/ferramentas/internal/cache"
	"example.com/ferramentas/internal/export"
	"example.com/ferramentas/internal/metrics"
	"example.com/ferramentas/internal/models"
	"example.com/ferramentas/internal/notify"
	"example.com/ferramentas/internal/repository"
	"example.com/ferramentas/internal/search"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Validation errors surfaced to the API as HTTP 400
var (
	ErrNameRequired    = errors.New("nome é obrigatório")
	ErrInvalidQuantity = errors.New("quantidade_total deve ser maior ou igual a 1")
)

const statisticsTTL = 30 * time.Second

// LedgerService owns all reads and writes of the lending ledger.
// Notification, cache invalidation and search indexing happen strictly
// after the ledger transaction commits.
type LedgerService struct {
	db             *gorm.DB
	requesterRepo  repository.RequesterRepository
	toolRepo       repository.ToolRepository
	movementRepo   repository.MovementRepository
	introspectRepo repository.IntrospectRepository
	cache          *cache.RedisCache
	elasticClient  *search.ElasticClient
	metrics        *metrics.Metrics
	notifier       notify.Sender
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	db *gorm.DB,
	redisCache *cache.RedisCache,
	elasticClient *search.ElasticClient,
	metricsCollector *metrics.Metrics,
	notifier notify.Sender,
) *LedgerService {
	return &LedgerService{
		db:             db,
		requesterRepo:  repository.NewRequesterRepository(db),
		toolRepo:       repository.NewToolRepository(db),
		movementRepo:   repository.NewMovementRepository(db),
		introspectRepo: repository.NewIntrospectRepository(db),
		cache:          redisCache,
		elasticClient:  elasticClient,
		metrics:        metricsCollector,
		notifier:       notifier,
	}
}

// CreateRequester inserts a new requester and returns its id
func (s *LedgerService) CreateRequester(ctx context.Context, requester *models.Requester) (uint, error) {
	if strings.TrimSpace(requester.Name) == "" {
		return 0, ErrNameRequired
	}

	if err := s.requesterRepo.Create(ctx, requester); err != nil {
		return 0, err
	}

	s.invalidateStatistics(ctx)
	return requester.ID, nil
}

// ListRequesters returns all requesters ordered by name
func (s *LedgerService) ListRequesters(ctx context.Context) ([]models.Requester, error) {
	return s.requesterRepo.List(ctx)
}

// UpdateRequester applies a partial update; false means not found or empty patch
func (s *LedgerService) UpdateRequester(ctx context.Context, id uint, patch repository.RequesterPatch) (bool, error) {
	return s.requesterRepo.Update(ctx, id, patch)
}

// DeleteRequester removes a requester; false means not found
func (s *LedgerService) DeleteRequester(ctx context.Context, id uint) (bool, error) {
	found, err := s.requesterRepo.Delete(ctx, id)
	if err == nil && found {
		s.invalidateStatistics(ctx)
	}
	return found, err
}

// CreateTool inserts a new tool with all units available
func (s *LedgerService) CreateTool(ctx context.Context, name string, totalQuantity int) (uint, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrNameRequired
	}
	if totalQuantity < 1 {
		return 0, ErrInvalidQuantity
	}

	tool := &models.Tool{Name: name, TotalQuantity: totalQuantity}
	if err := s.toolRepo.Create(ctx, tool); err != nil {
		return 0, err
	}

	s.invalidateStatistics(ctx)
	return tool.ID, nil
}

// ListTools returns all tools ordered by name
func (s *LedgerService) ListTools(ctx context.Context) ([]models.Tool, error) {
	return s.toolRepo.List(ctx)
}

// UpdateTool applies a partial update; false means not found or empty patch
func (s *LedgerService) UpdateTool(ctx context.Context, id uint, patch repository.ToolPatch) (bool, error) {
	if patch.TotalQuantity != nil && *patch.TotalQuantity < 1 {
		return false, ErrInvalidQuantity
	}
	found, err := s.toolRepo.Update(ctx, id, patch)
	if err == nil && found {
		s.invalidateStatistics(ctx)
	}
	return found, err
}

// DeleteTool removes a tool; false means not found
func (s *LedgerService) DeleteTool(ctx context.Context, id uint) (bool, error) {
	found, err := s.toolRepo.Delete(ctx, id)
	if err == nil && found {
		s.invalidateStatistics(ctx)
	}
	return found, err
}

// CreateMovementInput carries the fields accepted when registering a movement
type CreateMovementInput struct {
	Type               string
	RequesterID        uint
	ToolID             uint
	ProjectID          *uint
	CheckoutDate       *string
	ExpectedReturnDate *string
	ReturnTime         *string
	HasReturn          *bool
	Notes              *string
	NotificationEmail  *string
}

// CreateMovement registers a checkout or return. Checkouts atomically
// consume one available unit or fail with ErrToolUnavailable. When a
// notification email is supplied the notice goes out after the commit;
// delivery failure is logged and never affects the ledger.
func (s *LedgerService) CreateMovement(ctx context.Context, input CreateMovementInput) (uint, error) {
	hasReturn := true
	if input.HasReturn != nil {
		hasReturn = *input.HasReturn
	}

	movement := &models.Movement{
		Type:               models.NormalizeType(input.Type),
		RequesterID:        input.RequesterID,
		ToolID:             input.ToolID,
		ProjectID:          input.ProjectID,
		CheckoutDate:       input.CheckoutDate,
		ExpectedReturnDate: input.ExpectedReturnDate,
		ReturnTime:         input.ReturnTime,
		HasReturn:          hasReturn,
		Notes:              input.Notes,
		NotificationEmail:  input.NotificationEmail,
	}

	if err := s.movementRepo.Create(ctx, movement); err != nil {
		if errors.Is(err, repository.ErrToolUnavailable) {
			s.metrics.IncrementCounter(metrics.CheckoutsRejected)
		}
		return 0, err
	}

	if movement.Type.IsCheckout() {
		s.metrics.IncrementCounter(metrics.CheckoutsCreated)
	}
	s.invalidateStatistics(ctx)

	log.Info().
		Uint("movement_id", movement.ID).
		Str("tipo", string(movement.Type)).
		Uint("ferramenta_id", movement.ToolID).
		Msg("Movement registered")

	s.afterMovementCommit(ctx, movement)

	return movement.ID, nil
}

// afterMovementCommit runs the registration side effects: notification
// email and search indexing. The email goes out only here; completion
// re-indexes without notifying again.
func (s *LedgerService) afterMovementCommit(ctx context.Context, movement *models.Movement) {
	toolName, requesterName := s.movementNames(ctx, movement)

	if s.notifier != nil && movement.NotificationEmail != nil && *movement.NotificationEmail != "" {
		if err := s.notifier.SendMovementNotice(*movement.NotificationEmail, movement, toolName, requesterName); err != nil {
			log.Warn().Err(err).Uint("movement_id", movement.ID).Msg("Failed to send notification email")
		} else {
			s.metrics.IncrementCounter(metrics.NotificationsSent)
		}
	}

	s.indexMovement(ctx, movement, toolName, requesterName)
}

// movementNames resolves the joined display names, best effort
func (s *LedgerService) movementNames(ctx context.Context, movement *models.Movement) (toolName, requesterName string) {
	if tool, err := s.toolRepo.GetByID(ctx, movement.ToolID); err == nil {
		toolName = tool.Name
	}
	if requester, err := s.requesterRepo.GetByID(ctx, movement.RequesterID); err == nil {
		requesterName = requester.Name
	}
	return toolName, requesterName
}

// indexMovement pushes the movement into the search index, best effort
func (s *LedgerService) indexMovement(ctx context.Context, movement *models.Movement, toolName, requesterName string) {
	if !s.elasticClient.Enabled() {
		return
	}

	row := &models.MovementRow{
		Movement:      *movement,
		RequesterName: requesterName,
		ToolName:      toolName,
	}
	if err := s.elasticClient.IndexMovement(ctx, row); err != nil {
		log.Warn().Err(err).Uint("movement_id", movement.ID).Msg("Failed to index movement")
	}
}

// ListMovements returns movements joined with names, newest first.
// The status filter is normalized case-insensitively; empty means all.
func (s *LedgerService) ListMovements(ctx context.Context, status string) ([]models.MovementRow, error) {
	var filter models.MovementStatus
	if status != "" {
		filter = models.NormalizeStatus(status)
	}
	return s.movementRepo.List(ctx, filter)
}

// UpdateMovement applies the allow-listed patch; false means not found
// or empty patch
func (s *LedgerService) UpdateMovement(ctx context.Context, id uint, patch repository.MovementPatch) (bool, error) {
	return s.movementRepo.Update(ctx, id, patch)
}

// CompleteMovement flips a movement to "concluido" and returns the
// loaned unit to availability. Completing an already-completed or
// missing movement returns false.
func (s *LedgerService) CompleteMovement(ctx context.Context, id uint) (bool, error) {
	completed, err := s.movementRepo.Complete(ctx, id)
	if err != nil || !completed {
		return completed, err
	}

	s.metrics.IncrementCounter(metrics.MovementsCompleted)
	s.invalidateStatistics(ctx)

	log.Info().Uint("movement_id", id).Msg("Movement completed")

	if s.elasticClient.Enabled() {
		if movement, err := s.movementRepo.GetByID(ctx, id); err == nil {
			toolName, requesterName := s.movementNames(ctx, movement)
			s.indexMovement(ctx, movement, toolName, requesterName)
		}
	}

	return true, nil
}

// Statistics returns the aggregate snapshot, cached for a short TTL
func (s *LedgerService) Statistics(ctx context.Context) (*models.Statistics, error) {
	if s.cache.Enabled() {
		var cached models.Statistics
		if err := s.cache.Get(ctx, cache.StatisticsKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.movementRepo.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cache.StatisticsKey, stats, statisticsTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to cache statistics")
		}
	}

	return stats, nil
}

// invalidateStatistics drops the cached statistics after any mutation
func (s *LedgerService) invalidateStatistics(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.StatisticsKey); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate statistics cache")
	}
}

// ListTables returns the db-viewer table list
func (s *LedgerService) ListTables(ctx context.Context) ([]repository.TableInfo, error) {
	return s.introspectRepo.ListTables(ctx)
}

// TableDump returns rows, columns and total count of one table
func (s *LedgerService) TableDump(ctx context.Context, table string) ([]map[string]interface{}, []string, int64, error) {
	rows, err := s.introspectRepo.TableData(ctx, table, 0)
	if err != nil {
		return nil, nil, 0, err
	}
	columns, err := s.introspectRepo.TableColumns(ctx, table)
	if err != nil {
		return nil, nil, 0, err
	}
	total, err := s.introspectRepo.CountRows(ctx, table)
	if err != nil {
		return nil, nil, 0, err
	}
	return rows, columns, total, nil
}

// ExportSnapshot reads a consistent copy of the ledger tables for the
// export adapters. Exports never mutate ledger state.
func (s *LedgerService) ExportSnapshot(ctx context.Context) (*export.Snapshot, error) {
	movements, err := s.movementRepo.List(ctx, "")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to snapshot movements")
	}
	tools, err := s.toolRepo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to snapshot tools")
	}
	requesters, err := s.requesterRepo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to snapshot requesters")
	}

	return &export.Snapshot{
		Movements:  movements,
		Tools:      tools,
		Requesters: requesters,
	}, nil
}

// RunExport snapshots the ledger and pushes the spreadsheet targets
func (s *LedgerService) RunExport(ctx context.Context, excelPath string, sheets *export.SheetsClient) error {
	snapshot, err := s.ExportSnapshot(ctx)
	if err != nil {
		return err
	}

	if excelPath != "" {
		if err := export.WriteExcel(snapshot, excelPath); err != nil {
			return pkgerrors.Wrap(err, "failed to write Excel report")
		}
		log.Info().Str("path", excelPath).Msg("Excel report written")
	}

	if sheets.Enabled() {
		if err := sheets.SyncMovements(ctx, snapshot.Movements); err != nil {
			return err
		}
		if err := sheets.SyncInventory(ctx, snapshot); err != nil {
			return err
		}
	}

	s.metrics.IncrementCounter(metrics.ExportsRun)
	return nil
}
