package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.WorkshopRepository = (*WorkshopRepo)(nil)

// WorkshopRepo implementación del puerto WorkshopRepository.
type WorkshopRepo struct {
	q Querier
}

// NewWorkshopRepository construye el adaptador.
func NewWorkshopRepository(q Querier) *WorkshopRepo {
	return &WorkshopRepo{q: q}
}

// Create persiste el taller; el nombre es único.
func (r *WorkshopRepo) Create(ctx context.Context, w *entity.Workshop) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO talleres (id, nombre, direccion, capacidad, created_at) VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.Name, w.Address, w.Capacity, w.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert workshop: %w", err)
	}
	return nil
}

// GetByID obtiene un taller por ID.
func (r *WorkshopRepo) GetByID(ctx context.Context, id string) (*entity.Workshop, error) {
	var w entity.Workshop
	err := r.q.QueryRow(ctx, `
		SELECT id, nombre, direccion, capacidad, created_at FROM talleres WHERE id = $1`, id,
	).Scan(&w.ID, &w.Name, &w.Address, &w.Capacity, &w.CreatedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get workshop: %w", err)
	}
	return &w, nil
}

// List talleres por nombre.
func (r *WorkshopRepo) List(ctx context.Context) ([]*entity.Workshop, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre, direccion, capacidad, created_at FROM talleres ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	defer rows.Close()

	var list []*entity.Workshop
	for rows.Next() {
		var w entity.Workshop
		if err := rows.Scan(&w.ID, &w.Name, &w.Address, &w.Capacity, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan workshop: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
