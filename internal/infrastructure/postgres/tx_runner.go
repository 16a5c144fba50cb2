package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/workorder"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and workorder.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ workorder.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del libro de stock y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	partRepo repository.PartRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.WorkOrderRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewPartRepository(tx), NewStockMovementRepository(tx), NewWorkOrderRepository(tx))
	})
}

// RunWorkOrder inicia una transacción con los repos de la OT (orden, historial, pausas).
func (r *TxRunner) RunWorkOrder(ctx context.Context, fn func(
	orderRepo repository.WorkOrderRepository,
	historyRepo repository.HistoryRepository,
	pauseRepo repository.PauseRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewWorkOrderRepository(tx), NewHistoryRepository(tx), NewPauseRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
