package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/Taller-api/internal/application/events"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var upper = cases.Upper(language.Spanish)

// NormalizeCode código de repuesto sin espacios extremos y en mayúsculas.
func NormalizeCode(code string) string {
	return upper.String(strings.TrimSpace(code))
}

// PartUseCase datos maestros de repuestos y consultas del libro.
// No modifica el stock: eso solo ocurre en LedgerUseCase.
type PartUseCase struct {
	partRepo  repository.PartRepository
	movRepo   repository.StockMovementRepository
	publisher events.Publisher
	now       func() time.Time
}

// NewPartUseCase construye el caso de uso.
func NewPartUseCase(
	partRepo repository.PartRepository,
	movRepo repository.StockMovementRepository,
	publisher events.Publisher,
) *PartUseCase {
	return &PartUseCase{partRepo: partRepo, movRepo: movRepo, publisher: publisher, now: time.Now}
}

// PartInput entrada para crear un repuesto.
type PartInput struct {
	Code        string
	Description string
	Unit        string
	MinQuantity decimal.Decimal
}

// PartUpdate campos editables; nil = sin cambio.
type PartUpdate struct {
	Description *string
	Unit        *string
	MinQuantity *decimal.Decimal
	Active      *bool
}

// CreatePart registra un repuesto con stock inicial 0; el stock entra con movimientos IN.
func (uc *PartUseCase) CreatePart(ctx context.Context, in PartInput, actor string) (*entity.Part, error) {
	code := NormalizeCode(in.Code)
	if code == "" {
		return nil, domain.NewValidationError("code", "código requerido")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, domain.NewValidationError("description", "descripción requerida")
	}
	if in.Unit == "" {
		in.Unit = entity.UnitPiece
	}
	if !entity.ValidUnit(in.Unit) {
		return nil, domain.NewValidationError("unit", "unidad inválida: "+in.Unit)
	}
	if in.MinQuantity.IsNegative() {
		return nil, domain.NewValidationError("min_quantity", "el mínimo no puede ser negativo")
	}
	if strings.TrimSpace(actor) == "" {
		return nil, domain.NewValidationError("actor", "actor requerido")
	}

	existing, err := uc.partRepo.GetByCode(ctx, code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create part: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := uc.now()
	part := &entity.Part{
		ID:              uuid.New().String(),
		Code:            code,
		Description:     strings.TrimSpace(in.Description),
		Unit:            in.Unit,
		CurrentQuantity: decimal.Zero,
		MinQuantity:     in.MinQuantity,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.partRepo.Create(ctx, part); err != nil {
		return nil, fmt.Errorf("create part: %w", err)
	}
	uc.publisher.Publish(ctx, events.PartCreated{Part: *part, Actor: actor})
	return part, nil
}

// UpdatePart modifica datos maestros. Nunca toca CurrentQuantity.
func (uc *PartUseCase) UpdatePart(ctx context.Context, id string, in PartUpdate, actor string) (*entity.Part, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, domain.NewValidationError("actor", "actor requerido")
	}
	part, err := uc.partRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			return nil, domain.NewValidationError("description", "descripción requerida")
		}
		part.Description = desc
	}
	if in.Unit != nil {
		if !entity.ValidUnit(*in.Unit) {
			return nil, domain.NewValidationError("unit", "unidad inválida: "+*in.Unit)
		}
		part.Unit = *in.Unit
	}
	if in.MinQuantity != nil {
		if in.MinQuantity.IsNegative() {
			return nil, domain.NewValidationError("min_quantity", "el mínimo no puede ser negativo")
		}
		part.MinQuantity = *in.MinQuantity
	}
	if in.Active != nil {
		part.Active = *in.Active
	}
	part.UpdatedAt = uc.now()
	if err := uc.partRepo.Update(ctx, part); err != nil {
		return nil, fmt.Errorf("update part: %w", err)
	}
	uc.publisher.Publish(ctx, events.PartUpdated{Part: *part, Actor: actor})
	return part, nil
}

// GetPart obtiene un repuesto por ID.
func (uc *PartUseCase) GetPart(ctx context.Context, id string) (*entity.Part, error) {
	return uc.partRepo.GetByID(ctx, id)
}

// ListParts lista repuestos paginados.
func (uc *PartUseCase) ListParts(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Part, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.partRepo.List(ctx, activeOnly, limit, offset)
}

// ListMovementsByPart historial del libro para un repuesto, más reciente primero.
func (uc *PartUseCase) ListMovementsByPart(ctx context.Context, partID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if _, err := uc.partRepo.GetByID(ctx, partID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movRepo.ListByPart(ctx, partID, from, to, limit, offset)
}

// ListMovementsByOrder consumos asociados a una OT.
func (uc *PartUseCase) ListMovementsByOrder(ctx context.Context, orderID string) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByOrder(ctx, orderID)
}
