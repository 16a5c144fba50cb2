// Package memstore implementa en memoria los puertos de persistencia para pruebas de casos de uso.
//
// Cada Run abre una transacción: GetForUpdate toma un mutex por fila que se libera al terminar,
// las escrituras quedan pendientes y se aplican juntas en el commit (o se descartan si fn falla).
// Las lecturas ven solo el estado confirmado.
package memstore

import (
	"context"
	"sync"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// Store estado confirmado compartido por todas las transacciones.
type Store struct {
	mu        sync.Mutex
	parts     map[string]entity.Part
	movements []entity.StockMovement
	orders    map[string]entity.WorkOrder
	history   []entity.HistoryStateSegment
	pauses    []entity.Pause
	vehicles  map[string]entity.Vehicle
	workshops map[string]entity.Workshop

	locksMu  sync.Mutex
	rowLocks map[string]*sync.Mutex

	faults map[string]error
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{
		parts:     make(map[string]entity.Part),
		orders:    make(map[string]entity.WorkOrder),
		vehicles:  make(map[string]entity.Vehicle),
		workshops: make(map[string]entity.Workshop),
		rowLocks:  make(map[string]*sync.Mutex),
		faults:    make(map[string]error),
	}
}

// FailOn hace que la operación op ("parts.UpdateQuantity", "orders.Update", ...) devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faults[op]
}

func (s *Store) rowLock(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	m, ok := s.rowLocks[key]
	if !ok {
		m = &sync.Mutex{}
		s.rowLocks[key] = m
	}
	return m
}

// ── Semillas y lecturas directas ───────────────────────────────────────────

func (s *Store) AddPart(p entity.Part) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts[p.ID] = p
}

func (s *Store) AddOrder(o entity.WorkOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

func (s *Store) AddVehicle(v entity.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[v.ID] = v
}

func (s *Store) AddWorkshop(w entity.Workshop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workshops[w.ID] = w
}

func (s *Store) AddPause(p entity.Pause) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauses = append(s.pauses, p)
}

func (s *Store) AddSegment(h entity.HistoryStateSegment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, h)
}

// Part copia confirmada del repuesto.
func (s *Store) Part(id string) entity.Part {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parts[id]
}

// Order copia confirmada de la OT.
func (s *Store) Order(id string) entity.WorkOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id]
}

// Movements copia de todo el libro.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockMovement, len(s.movements))
	copy(out, s.movements)
	return out
}

// History tramos de una OT en orden de inicio.
func (s *Store) History(orderID string) []entity.HistoryStateSegment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.HistoryStateSegment
	for _, h := range s.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out
}

// Pauses pausas de una OT en orden de inicio.
func (s *Store) Pauses(orderID string) []entity.Pause {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Pause
	for _, p := range s.pauses {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out
}

// ── Transacciones ──────────────────────────────────────────────────────────

type tx struct {
	s          *Store
	autocommit bool
	held       []*sync.Mutex
	heldKeys   map[string]bool
	pending    []func() error
	// checks se evalúan bajo el lock del store justo antes de aplicar pending.
	checks []func() error
}

func (s *Store) begin(autocommit bool) *tx {
	return &tx{s: s, autocommit: autocommit, heldKeys: make(map[string]bool)}
}

func (t *tx) lock(key string) {
	if t.autocommit || t.heldKeys[key] {
		return
	}
	m := t.s.rowLock(key)
	m.Lock()
	t.held = append(t.held, m)
	t.heldKeys[key] = true
}

func (t *tx) write(check func() error, apply func() error) error {
	if t.autocommit {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		if check != nil {
			if err := check(); err != nil {
				return err
			}
		}
		return apply()
	}
	if check != nil {
		t.checks = append(t.checks, check)
	}
	t.pending = append(t.pending, apply)
	return nil
}

func (t *tx) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, c := range t.checks {
		if err := c(); err != nil {
			return err
		}
	}
	for _, apply := range t.pending {
		if err := apply(); err != nil {
			return err
		}
	}
	return nil
}

func (t *tx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
}

func (s *Store) run(fn func(t *tx) error) error {
	t := s.begin(false)
	defer t.release()
	if err := fn(t); err != nil {
		return err
	}
	return t.commit()
}

// InventoryTx implementa el TxRunner del libro de stock.
type InventoryTx struct{ s *Store }

// InventoryTx devuelve el TxRunner del libro de stock.
func (s *Store) InventoryTx() *InventoryTx { return &InventoryTx{s: s} }

func (r *InventoryTx) Run(ctx context.Context, fn func(
	partRepo repository.PartRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.WorkOrderRepository,
) error) error {
	return r.s.run(func(t *tx) error {
		return fn(&partRepo{t: t}, &movementRepo{t: t}, &orderRepo{t: t})
	})
}

// WorkOrderTx implementa el TxRunner del motor de OT.
type WorkOrderTx struct{ s *Store }

// WorkOrderTx devuelve el TxRunner del motor de OT.
func (s *Store) WorkOrderTx() *WorkOrderTx { return &WorkOrderTx{s: s} }

func (r *WorkOrderTx) RunWorkOrder(ctx context.Context, fn func(
	orderRepo repository.WorkOrderRepository,
	historyRepo repository.HistoryRepository,
	pauseRepo repository.PauseRepository,
) error) error {
	return r.s.run(func(t *tx) error {
		return fn(&orderRepo{t: t}, &historyRepo{t: t}, &pauseRepo{t: t})
	})
}

// Repositorios en modo autocommit, para casos de uso sin transacción.

func (s *Store) Parts() repository.PartRepository { return &partRepo{t: s.begin(true)} }

func (s *Store) StockMovements() repository.StockMovementRepository {
	return &movementRepo{t: s.begin(true)}
}

func (s *Store) WorkOrders() repository.WorkOrderRepository { return &orderRepo{t: s.begin(true)} }

func (s *Store) HistoryRepo() repository.HistoryRepository { return &historyRepo{t: s.begin(true)} }

func (s *Store) PauseRepo() repository.PauseRepository { return &pauseRepo{t: s.begin(true)} }

func (s *Store) Vehicles() repository.VehicleRepository { return &vehicleRepo{s: s} }

func (s *Store) Workshops() repository.WorkshopRepository { return &workshopRepo{s: s} }
