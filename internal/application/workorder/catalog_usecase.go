package workorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

const maxPlateLen = 12

var plateCaser = cases.Upper(language.Spanish)

// NormalizePlate patente sin espacios y en mayúsculas.
func NormalizePlate(plate string) string {
	return plateCaser.String(strings.Join(strings.Fields(plate), ""))
}

// CatalogUseCase altas de vehículos y talleres.
type CatalogUseCase struct {
	vehicleRepo  repository.VehicleRepository
	workshopRepo repository.WorkshopRepository
	now          func() time.Time
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(vehicleRepo repository.VehicleRepository, workshopRepo repository.WorkshopRepository) *CatalogUseCase {
	return &CatalogUseCase{vehicleRepo: vehicleRepo, workshopRepo: workshopRepo, now: time.Now}
}

// CreateVehicle registra un vehículo; la patente es única.
func (uc *CatalogUseCase) CreateVehicle(ctx context.Context, plate, brand, model string) (*entity.Vehicle, error) {
	plate = NormalizePlate(plate)
	if plate == "" {
		return nil, domain.NewValidationError("plate", "patente requerida")
	}
	if utf8.RuneCountInString(plate) > maxPlateLen {
		return nil, domain.NewValidationError("plate", fmt.Sprintf("la patente supera %d caracteres", maxPlateLen))
	}
	existing, err := uc.vehicleRepo.GetByPlate(ctx, plate)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	v := &entity.Vehicle{
		ID:        uuid.New().String(),
		Plate:     plate,
		Brand:     strings.TrimSpace(brand),
		Model:     strings.TrimSpace(model),
		CreatedAt: uc.now(),
	}
	if err := uc.vehicleRepo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

// CreateWorkshop registra un taller.
func (uc *CatalogUseCase) CreateWorkshop(ctx context.Context, name, address string, capacity int) (*entity.Workshop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "nombre requerido")
	}
	if capacity < 0 {
		return nil, domain.NewValidationError("capacity", "la capacidad no puede ser negativa")
	}
	w := &entity.Workshop{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   strings.TrimSpace(address),
		Capacity:  capacity,
		CreatedAt: uc.now(),
	}
	if err := uc.workshopRepo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create workshop: %w", err)
	}
	return w, nil
}

// ListWorkshops lista los talleres por nombre.
func (uc *CatalogUseCase) ListWorkshops(ctx context.Context) ([]*entity.Workshop, error) {
	return uc.workshopRepo.List(ctx)
}
