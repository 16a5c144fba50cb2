package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// WorkshopRepository define el puerto de persistencia para talleres.
type WorkshopRepository interface {
	Create(ctx context.Context, w *entity.Workshop) error
	GetByID(ctx context.Context, id string) (*entity.Workshop, error)
	List(ctx context.Context) ([]*entity.Workshop, error)
}
