package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.VehicleRepository = (*VehicleRepo)(nil)

// VehicleRepo implementación del puerto VehicleRepository.
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador.
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

// Create persiste el vehículo; la patente es única.
func (r *VehicleRepo) Create(ctx context.Context, v *entity.Vehicle) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO vehiculos (id, patente, marca, modelo, created_at) VALUES ($1, $2, $3, $4, $5)`,
		v.ID, v.Plate, v.Brand, v.Model, v.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	return r.getOne(ctx, `SELECT id, patente, marca, modelo, created_at FROM vehiculos WHERE id = $1`, id)
}

func (r *VehicleRepo) GetByPlate(ctx context.Context, plate string) (*entity.Vehicle, error) {
	return r.getOne(ctx, `SELECT id, patente, marca, modelo, created_at FROM vehiculos WHERE patente = $1`, plate)
}

func (r *VehicleRepo) getOne(ctx context.Context, query, arg string) (*entity.Vehicle, error) {
	var v entity.Vehicle
	err := r.q.QueryRow(ctx, query, arg).Scan(&v.ID, &v.Plate, &v.Brand, &v.Model, &v.CreatedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return &v, nil
}
