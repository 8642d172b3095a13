package models

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MovementType is the semantic type of a movement
type MovementType string

// MovementStatus is the lifecycle status of a movement
type MovementStatus string

const (
	// TypeCheckout decrements tool availability ("saida")
	TypeCheckout MovementType = "saida"
	// TypeReturn is a non-decrementing movement ("retorno")
	TypeReturn MovementType = "retorno"

	// StatusActive marks an open movement
	StatusActive MovementStatus = "ativo"
	// StatusCompleted marks a completed movement
	StatusCompleted MovementStatus = "concluido"
)

// NormalizeType lowercases a movement type the way the API compares it
func NormalizeType(s string) MovementType {
	return MovementType(strings.ToLower(strings.TrimSpace(s)))
}

// NormalizeStatus lowercases a movement status
func NormalizeStatus(s string) MovementStatus {
	return MovementStatus(strings.ToLower(strings.TrimSpace(s)))
}

// IsCheckout reports whether the type decrements availability
func (t MovementType) IsCheckout() bool {
	return t == TypeCheckout
}

// ParseHasReturn converts the legacy "Sim"/"Não" flag to a boolean
func ParseHasReturn(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "não", "nao", "no", "false", "0":
		return false
	default:
		return true
	}
}

// FormatHasReturn renders the boolean flag in the legacy spreadsheet form
func FormatHasReturn(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

// Requester represents a borrower ("solicitante")
type Requester struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"column:nome;not null" json:"nome"`
	Email      *string   `gorm:"column:email" json:"email"`
	Phone      *string   `gorm:"column:telefone" json:"telefone"`
	Department *string   `gorm:"column:departamento" json:"departamento"`
	CreatedAt  time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
	UpdatedAt  time.Time `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizado_em"`
}

// TableName maps Requester to the legacy table name
func (Requester) TableName() string { return "solicitantes" }

// Tool represents a lendable physical item ("ferramenta").
// AvailableQuantity is owned by the movement ledger: it equals
// TotalQuantity minus the number of open checkout movements and is
// never written directly by callers.
type Tool struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"column:nome;not null" json:"nome"`
	TotalQuantity     int       `gorm:"column:quantidade_total;not null" json:"quantidade_total"`
	AvailableQuantity int       `gorm:"column:quantidade_disponivel;not null" json:"quantidade_disponivel"`
	CreatedAt         time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
	UpdatedAt         time.Time `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizado_em"`
}

// TableName maps Tool to the legacy table name
func (Tool) TableName() string { return "ferramentas" }

// Project is an opaque grouping record referenced by movements
type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:nome;not null" json:"nome"`
	CreatedAt time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
}

// TableName maps Project to the legacy table name
func (Project) TableName() string { return "projetos" }

// Movement represents a single checkout or return event ("movimentação").
// Created in status "ativo" and completed exactly once.
//
// Date and time fields are stored as the free-text values the front end
// submits, as in the legacy schema.
type Movement struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Type               MovementType   `gorm:"column:tipo;not null" json:"tipo"`
	RequesterID        uint           `gorm:"column:solicitante_id;not null" json:"solicitante_id"`
	ToolID             uint           `gorm:"column:ferramenta_id;not null" json:"ferramenta_id"`
	ProjectID          *uint          `gorm:"column:projeto_id" json:"projeto_id"`
	CheckoutDate       *string        `gorm:"column:data_saida" json:"data_saida"`
	ExpectedReturnDate *string        `gorm:"column:data_retorno" json:"data_retorno"`
	ReturnTime         *string        `gorm:"column:hora_devolucao" json:"hora_devolucao"`
	HasReturn          bool           `gorm:"column:tem_retorno;not null;default:true" json:"tem_retorno"`
	Notes              *string        `gorm:"column:observacoes" json:"observacoes"`
	Status             MovementStatus `gorm:"column:status;not null;default:ativo" json:"status"`
	NotificationEmail  *string        `gorm:"column:email_notificacao" json:"email_notificacao"`
	CreatedAt          time.Time      `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
	UpdatedAt          time.Time      `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizado_em"`

	Requester Requester `gorm:"foreignKey:RequesterID;constraint:OnDelete:RESTRICT" json:"-"`
	Tool      Tool      `gorm:"foreignKey:ToolID;constraint:OnDelete:RESTRICT" json:"-"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"-"`
}

// TableName maps Movement to the legacy table name
func (Movement) TableName() string { return "movimentacoes" }

// MovementRow is a movement joined with requester and tool names,
// as returned by the listing endpoint
type MovementRow struct {
	Movement
	RequesterName string `gorm:"column:solicitante_nome" json:"solicitante_nome"`
	ToolName      string `gorm:"column:ferramenta_nome" json:"ferramenta_nome"`
}

// Statistics is the aggregate snapshot served by /api/estatisticas
type Statistics struct {
	TotalTools      int64 `json:"total_ferramentas"`
	AvailableTools  int64 `json:"ferramentas_disponiveis"`
	ActiveMovements int64 `json:"movimentacoes_ativas"`
	TotalRequesters int64 `json:"total_solicitantes"`
}

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Requester{},
		&Tool{},
		&Project{},
		&Movement{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}

	return nil
}
