package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	PartID   string          `json:"part_id"`
	Kind     string          `json:"kind"` // IN | OUT | ADJUST
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason,omitempty"`
	OrderID  *string         `json:"order_id,omitempty"`
}

// MovementResponse movimiento aplicado y saldo resultante.
type MovementResponse struct {
	Movement   StockMovementDTO `json:"movement"`
	NewBalance decimal.Decimal  `json:"new_balance"`
	LowStock   bool             `json:"low_stock"`
}

// StockMovementDTO entrada del libro de stock.
type StockMovementDTO struct {
	ID            string          `json:"id"`
	PartID        string          `json:"part_id"`
	Kind          string          `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reason        string          `json:"reason"`
	OrderID       *string         `json:"order_id,omitempty"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreatePartRequest body para POST /api/parts.
type CreatePartRequest struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// UpdatePartRequest body para PUT /api/parts/:id. Campos nulos no se modifican.
type UpdatePartRequest struct {
	Description *string          `json:"description,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	MinQuantity *decimal.Decimal `json:"min_quantity,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// PartDTO repuesto.
type PartDTO struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	Unit            string          `json:"unit"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MinQuantity     decimal.Decimal `json:"min_quantity"`
	Active          bool            `json:"active"`
	AtMinimum       bool            `json:"at_minimum"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// LowStockItemDTO repuesto en o bajo su mínimo, con la cantidad sugerida de reposición.
type LowStockItemDTO struct {
	PartID            string          `json:"part_id"`
	Code              string          `json:"code"`
	Description       string          `json:"description"`
	Unit              string          `json:"unit"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	MinQuantity       decimal.Decimal `json:"min_quantity"`
	Deficit           decimal.Decimal `json:"deficit"`             // mínimo - actual
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"` // mínimo*1.5 - actual
	ConsumedLast90d   decimal.Decimal `json:"consumed_last_90d"`   // Σ salidas recientes
	Priority          int             `json:"priority"`            // 1 = más urgente
}
