package entity

import "time"

// Workshop representa un taller donde se atienden las OTs.
type Workshop struct {
	ID        string
	Name      string
	Address   string
	Capacity  int
	CreatedAt time.Time
}
