package ports

import "context"

// Notification aviso estructurado para un usuario. La entrega (email, push) queda fuera del núcleo.
type Notification struct {
	Recipient string // id del usuario destinatario
	Title     string
	Message   string
	URL       string
}

// Notifier puerto de salida para avisos de negocio (stock bajo, cambio de estado, pausas).
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
