package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Handler suscriptor de eventos. Un error se registra y se descarta.
type Handler func(ctx context.Context, evt Event) error

type subscriber struct {
	name    string
	handler Handler
}

// Dispatcher reparte cada evento a todos los suscriptores de forma síncrona.
// Un suscriptor que falla o entra en pánico no afecta a los demás ni al llamador.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers []subscriber
	log         zerolog.Logger
}

var _ Publisher = (*Dispatcher)(nil)

// NewDispatcher construye el despachador.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// Subscribe registra un suscriptor; name se usa solo para el log.
func (d *Dispatcher) Subscribe(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, subscriber{name: name, handler: h})
}

// Publish entrega los eventos en orden.
func (d *Dispatcher) Publish(ctx context.Context, evts ...Event) {
	d.mu.RLock()
	subs := make([]subscriber, len(d.subscribers))
	copy(subs, d.subscribers)
	d.mu.RUnlock()

	for _, evt := range evts {
		for _, s := range subs {
			if err := d.deliver(ctx, s, evt); err != nil {
				d.log.Warn().
					Str("event", evt.Name()).
					Str("subscriber", s.name).
					Err(err).
					Msg("suscriptor de eventos falló")
			}
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, s subscriber, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.handler(ctx, evt)
}
