package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// VehicleRepository define el puerto de persistencia para vehículos.
type VehicleRepository interface {
	Create(ctx context.Context, v *entity.Vehicle) error
	GetByID(ctx context.Context, id string) (*entity.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*entity.Vehicle, error)
}
