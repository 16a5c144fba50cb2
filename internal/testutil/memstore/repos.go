package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var (
	_ repository.PartRepository          = (*partRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
	_ repository.WorkOrderRepository     = (*orderRepo)(nil)
	_ repository.HistoryRepository       = (*historyRepo)(nil)
	_ repository.PauseRepository         = (*pauseRepo)(nil)
	_ repository.VehicleRepository       = (*vehicleRepo)(nil)
	_ repository.WorkshopRepository      = (*workshopRepo)(nil)
)

// ── Repuestos ──────────────────────────────────────────────────────────────

type partRepo struct{ t *tx }

func (r *partRepo) get(id string) (*entity.Part, error) {
	if err := r.t.s.fault("parts.Get"); err != nil {
		return nil, err
	}
	r.t.s.mu.Lock()
	defer r.t.s.mu.Unlock()
	p, ok := r.t.s.parts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *partRepo) Create(_ context.Context, part *entity.Part) error {
	cp := *part
	return r.t.write(func() error {
		for _, p := range r.t.s.parts {
			if p.Code == cp.Code {
				return domain.ErrDuplicate
			}
		}
		return nil
	}, func() error {
		r.t.s.parts[cp.ID] = cp
		return nil
	})
}

func (r *partRepo) Update(_ context.Context, part *entity.Part) error {
	cp := *part
	return r.t.write(nil, func() error {
		cur, ok := r.t.s.parts[cp.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cp.CurrentQuantity = cur.CurrentQuantity
		r.t.s.parts[cp.ID] = cp
		return nil
	})
}

func (r *partRepo) GetByID(_ context.Context, id string) (*entity.Part, error) { return r.get(id) }

func (r *partRepo) GetByCode(_ context.Context, code string) (*entity.Part, error) {
	r.t.s.mu.Lock()
	defer r.t.s.mu.Unlock()
	for _, p := range r.t.s.parts {
		if p.Code == code {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *partRepo) GetForUpdate(_ context.Context, id string) (*entity.Part, error) {
	r.t.lock("part:" + id)
	return r.get(id)
}

func (r *partRepo) UpdateQuantity(_ context.Context, id string, quantity decimal.Decimal) error {
	if err := r.t.s.fault("parts.UpdateQuantity"); err != nil {
		return err
	}
	return r.t.write(nil, func() error {
		p, ok := r.t.s.parts[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.CurrentQuantity = quantity
		r.t.s.parts[id] = p
		return nil
	})
}

func (r *partRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*entity.Part, error) {
	r.t.s.mu.Lock()
	defer r.t.s.mu.Unlock()
	var out []*entity.Part
	for _, p := range r.t.s.parts {
		if activeOnly && !p.Active {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

func (r *partRepo) ListLowStock(_ context.Context) ([]*entity.Part, error) {
	r.t.s.mu.Lock()
	defer r.t.s.mu.Unlock()
	var out []*entity.Part
	for _, p := range r.t.s.parts {
		if p.Active && p.AtMinimum() {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ── Movimientos ────────────────────────────────────────────────────────────

type movementRepo struct{ t *tx }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if err := r.t.s.fault("movements.Create"); err != nil {
		return err
	}
	cp := *m
	return r.t.write(nil, func() error {
		r.t.s.movements = append(r.t.s.movements, cp)
		return nil
	})
}

func (r *movementRepo) ListByPart(_ context.Context, partID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.t.s.mu.Lock()
	defer r.t.s.mu.Unlock()
	var out []*entity.StockMovement
	for i := len(r.t.s.movements) - 1; i >= 0; i-- {
		m := r.t.s.movements[i]
		if m.PartID != partID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		out = append(out, &m)
	}
	return page(out, limit, offset), nil
}

func (r *movementRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.StockMovement, error) {
	r.t.s.mu.Lock()
	defer r.t.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.t.s.movements {
		if m.OrderID != nil && *m.OrderID == orderID {
			cp := m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── Órdenes de trabajo ─────────────────────────────────────────────────────

type orderRepo struct{ t *tx }

func (r *orderRepo) get(id string) (*entity.WorkOrder, error) {
	r.t.s.mu.Lock()
	defer r.t.s.mu.Unlock()
	o, ok := r.t.s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if v, ok := r.t.s.vehicles[o.VehicleID]; ok {
		o.VehiclePlate = v.Plate
	}
	return &o, nil
}

func (r *orderRepo) Create(_ context.Context, order *entity.WorkOrder) error {
	cp := *order
	return r.t.write(func() error {
		for _, o := range r.t.s.orders {
			if o.Folio == cp.Folio {
				return domain.ErrDuplicate
			}
			if cp.Active && o.Active && o.VehicleID == cp.VehicleID {
				return &domain.DuplicateActiveOrderError{VehicleID: cp.VehicleID}
			}
		}
		return nil
	}, func() error {
		r.t.s.orders[cp.ID] = cp
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.WorkOrder, error) {
	return r.get(id)
}

func (r *orderRepo) GetForUpdate(_ context.Context, id string) (*entity.WorkOrder, error) {
	r.t.lock("order:" + id)
	return r.get(id)
}

func (r *orderRepo) Update(_ context.Context, order *entity.WorkOrder) error {
	if err := r.t.s.fault("orders.Update"); err != nil {
		return err
	}
	cp := *order
	return r.t.write(nil, func() error {
		if _, ok := r.t.s.orders[cp.ID]; !ok {
			return domain.ErrNotFound
		}
		r.t.s.orders[cp.ID] = cp
		return nil
	})
}

// ── Historial ──────────────────────────────────────────────────────────────

type historyRepo struct{ t *tx }

func (r *historyRepo) Open(_ context.Context, seg *entity.HistoryStateSegment) error {
	cp := *seg
	return r.t.write(nil, func() error {
		for _, h := range r.t.s.history {
			if h.OrderID == cp.OrderID && h.EndedAt == nil {
				return domain.ErrConflict
			}
		}
		r.t.s.history = append(r.t.s.history, cp)
		return nil
	})
}

func (r *historyRepo) CloseOpen(_ context.Context, orderID string, at time.Time) (*entity.HistoryStateSegment, error) {
	r.t.s.mu.Lock()
	var open *entity.HistoryStateSegment
	for _, h := range r.t.s.history {
		if h.OrderID == orderID && h.EndedAt == nil {
			cp := h
			open = &cp
			break
		}
	}
	r.t.s.mu.Unlock()
	if open == nil {
		return nil, nil
	}
	open.EndedAt = &at
	id := open.ID
	err := r.t.write(nil, func() error {
		for i := range r.t.s.history {
			if r.t.s.history[i].ID == id {
				end := at
				r.t.s.history[i].EndedAt = &end
			}
		}
		return nil
	})
	return open, err
}

func (r *historyRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.HistoryStateSegment, error) {
	r.t.s.mu.Lock()
	defer r.t.s.mu.Unlock()
	var out []*entity.HistoryStateSegment
	for _, h := range r.t.s.history {
		if h.OrderID == orderID {
			cp := h
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── Pausas ─────────────────────────────────────────────────────────────────

type pauseRepo struct{ t *tx }

func (r *pauseRepo) Create(_ context.Context, p *entity.Pause) error {
	cp := *p
	return r.t.write(func() error {
		for _, x := range r.t.s.pauses {
			if x.OrderID == cp.OrderID && x.EndedAt == nil {
				return &domain.AlreadyPausedError{OrderID: cp.OrderID}
			}
		}
		return nil
	}, func() error {
		r.t.s.pauses = append(r.t.s.pauses, cp)
		return nil
	})
}

func (r *pauseRepo) GetOpen(_ context.Context, orderID string) (*entity.Pause, error) {
	r.t.s.mu.Lock()
	defer r.t.s.mu.Unlock()
	for _, p := range r.t.s.pauses {
		if p.OrderID == orderID && p.EndedAt == nil {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *pauseRepo) Close(_ context.Context, id string, at time.Time) error {
	return r.t.write(nil, func() error {
		for i := range r.t.s.pauses {
			if r.t.s.pauses[i].ID == id {
				end := at
				r.t.s.pauses[i].EndedAt = &end
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *pauseRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.Pause, error) {
	r.t.s.mu.Lock()
	defer r.t.s.mu.Unlock()
	var out []*entity.Pause
	for _, p := range r.t.s.pauses {
		if p.OrderID == orderID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── Vehículos y talleres ───────────────────────────────────────────────────

type vehicleRepo struct{ s *Store }

func (r *vehicleRepo) Create(_ context.Context, v *entity.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.vehicles {
		if x.Plate == v.Plate {
			return domain.ErrDuplicate
		}
	}
	r.s.vehicles[v.ID] = *v
	return nil
}

func (r *vehicleRepo) GetByID(_ context.Context, id string) (*entity.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vehicles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (r *vehicleRepo) GetByPlate(_ context.Context, plate string) (*entity.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.vehicles {
		if v.Plate == plate {
			cp := v
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type workshopRepo struct{ s *Store }

func (r *workshopRepo) Create(_ context.Context, w *entity.Workshop) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.workshops {
		if x.Name == w.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.workshops[w.ID] = *w
	return nil
}

func (r *workshopRepo) GetByID(_ context.Context, id string) (*entity.Workshop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workshops[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

func (r *workshopRepo) List(_ context.Context) ([]*entity.Workshop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Workshop, 0, len(r.s.workshops))
	for _, w := range r.s.workshops {
		cp := w
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
