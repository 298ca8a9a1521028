package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ItemRepository maestro de medicamentos (lectura) y escritura de política.
// El CRUD completo del maestro vive fuera del core; aquí solo lo que el
// motor de inventario necesita.
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// UpdatePolicy persiste la política de reposición. La invariante
	// ReorderPoint >= SafetyStock se valida antes de llamar aquí.
	UpdatePolicy(ctx context.Context, itemID string, policy entity.ItemPolicy) error
}
