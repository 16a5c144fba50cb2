package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

const partColumns = `id, codigo, descripcion, unidad, stock_actual, stock_minimo, activo, created_at, updated_at`

// PartRepo implementación del puerto PartRepository sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

// Create persiste un repuesto nuevo. El código es único.
func (r *PartRepo) Create(ctx context.Context, p *entity.Part) error {
	query := `
		INSERT INTO repuestos (` + partColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Description, p.Unit, p.CurrentQuantity, p.MinQuantity, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert part: %w", err)
	}
	return nil
}

// Update persiste los datos maestros. stock_actual no se toca aquí.
func (r *PartRepo) Update(ctx context.Context, p *entity.Part) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE repuestos SET descripcion = $2, unidad = $3, stock_minimo = $4, activo = $5, updated_at = $6
		WHERE id = $1`,
		p.ID, p.Description, p.Unit, p.MinQuantity, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update part: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un repuesto por ID.
func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	return r.getOne(ctx, `SELECT `+partColumns+` FROM repuestos WHERE id = $1`, id)
}

// GetByCode obtiene un repuesto por código.
func (r *PartRepo) GetByCode(ctx context.Context, code string) (*entity.Part, error) {
	return r.getOne(ctx, `SELECT `+partColumns+` FROM repuestos WHERE codigo = $1`, code)
}

// GetForUpdate obtiene el repuesto con SELECT ... FOR UPDATE (bloqueo de fila). Debe usarse dentro de una tx.
func (r *PartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Part, error) {
	return r.getOne(ctx, `SELECT `+partColumns+` FROM repuestos WHERE id = $1 FOR UPDATE`, id)
}

func (r *PartRepo) getOne(ctx context.Context, query string, arg any) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return p, nil
}

// UpdateQuantity fija stock_actual. El CHECK (stock_actual >= 0) es la última barrera.
func (r *PartRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE repuestos SET stock_actual = $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		if isCheckViolation(err) && constraintName(err) == "ck_repuesto_stock_actual" {
			return &domain.InsufficientStockError{PartCode: id, Available: decimal.Zero, Requested: quantity.Neg()}
		}
		return fmt.Errorf("update part quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista repuestos por código con paginación.
func (r *PartRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Part, error) {
	limit, offset = limitOffset(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+partColumns+` FROM repuestos
		WHERE ($1 = FALSE OR activo)
		ORDER BY codigo LIMIT $2 OFFSET $3`, activeOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	return collectParts(rows)
}

// ListLowStock repuestos activos en o bajo el mínimo, mayor déficit primero.
func (r *PartRepo) ListLowStock(ctx context.Context) ([]*entity.Part, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+partColumns+` FROM repuestos
		WHERE activo AND stock_actual <= stock_minimo
		ORDER BY (stock_minimo - stock_actual) DESC, codigo`)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectParts(rows)
}

func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	err := row.Scan(&p.ID, &p.Code, &p.Description, &p.Unit, &p.CurrentQuantity, &p.MinQuantity,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectParts(rows pgx.Rows) ([]*entity.Part, error) {
	defer rows.Close()
	var list []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
