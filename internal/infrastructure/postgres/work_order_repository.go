package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

const orderSelect = `
	SELECT o.id, o.folio, o.vehiculo_id, o.taller_id, v.patente, o.estado, o.prioridad, o.activa,
	       o.descripcion, o.mecanico, o.fecha_limite, o.fecha_ingreso, o.fecha_cierre, o.updated_at
	FROM ordenes_trabajo o
	JOIN vehiculos v ON v.id = o.vehiculo_id`

// WorkOrderRepo implementación del puerto WorkOrderRepository sobre PostgreSQL.
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

// Create inserta la OT. El índice parcial uq_ot_activa_por_vehiculo impide dos OTs activas por vehículo.
func (r *WorkOrderRepo) Create(ctx context.Context, o *entity.WorkOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ordenes_trabajo (id, folio, vehiculo_id, taller_id, estado, prioridad, activa,
			descripcion, mecanico, fecha_limite, fecha_ingreso, fecha_cierre, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.Folio, o.VehicleID, o.WorkshopID, string(o.State), string(o.Priority), o.Active,
		o.Description, o.Technician, o.DueDate, o.CreatedAt, o.ClosedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == "uq_ot_activa_por_vehiculo" {
				return &domain.DuplicateActiveOrderError{VehicleID: o.VehicleID}
			}
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

// GetByID obtiene la OT con la patente del vehículo.
func (r *WorkOrderRepo) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return r.getOne(ctx, orderSelect+` WHERE o.id = $1`, id)
}

// GetForUpdate bloquea solo la fila de la OT (FOR UPDATE OF o), no la del vehículo.
func (r *WorkOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return r.getOne(ctx, orderSelect+` WHERE o.id = $1 FOR UPDATE OF o`, id)
}

func (r *WorkOrderRepo) getOne(ctx context.Context, query, id string) (*entity.WorkOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}
	return o, nil
}

// Update persiste estado, planificación y cierre. Folio, vehículo, taller e ingreso no cambian.
func (r *WorkOrderRepo) Update(ctx context.Context, o *entity.WorkOrder) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE ordenes_trabajo SET estado = $2, prioridad = $3, activa = $4, descripcion = $5,
			mecanico = $6, fecha_limite = $7, fecha_cierre = $8, updated_at = $9
		WHERE id = $1`,
		o.ID, string(o.State), string(o.Priority), o.Active, o.Description,
		o.Technician, o.DueDate, o.ClosedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.WorkOrder, error) {
	var o entity.WorkOrder
	var state, priority string
	err := row.Scan(&o.ID, &o.Folio, &o.VehicleID, &o.WorkshopID, &o.VehiclePlate, &state, &priority,
		&o.Active, &o.Description, &o.Technician, &o.DueDate, &o.CreatedAt, &o.ClosedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.State = entity.State(state)
	o.Priority = entity.Priority(priority)
	return &o, nil
}
