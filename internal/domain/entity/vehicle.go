package entity

import "time"

// Vehicle vehículo atendido en el taller, identificado por patente.
type Vehicle struct {
	ID        string
	Plate     string // patente normalizada en mayúsculas
	Brand     string
	Model     string
	CreatedAt time.Time
}
