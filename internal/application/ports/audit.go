package ports

import (
	"context"
	"time"
)

// Etiquetas de aplicación para la bitácora.
const (
	AuditAppOrder      = "OT"
	AuditAppOrderPause = "OT_PAUSA"
	AuditAppMovement   = "INV"
	AuditAppPart       = "INV_REP"
)

// Acciones de bitácora.
const (
	AuditActionCreate     = "CREATE"
	AuditActionUpdate     = "UPDATE"
	AuditActionTransition = "TRANSITION"
	AuditActionPauseStart = "PAUSE_START"
	AuditActionPauseEnd   = "PAUSE_END"
)

// AuditEntry registro append-only de la bitácora.
type AuditEntry struct {
	App    string
	Action string
	Actor  string
	Object string // descripción legible del objeto, p. ej. "OT 1001 · ABCD12"
	Extra  map[string]any
	At     time.Time
}

// AuditSink puerto de salida hacia el registro de auditoría.
// Es fire-and-forget para el núcleo: un error aquí nunca revierte la operación.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}
