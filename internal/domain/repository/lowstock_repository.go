package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// LowStockItem ítem con su stock proyectado en una sede, para el listado de
// stock bajo.
type LowStockItem struct {
	Item  entity.Item
	Stock decimal.Decimal
}

// LowStockRepository listado de ítems en o bajo su punto de reorden en una
// sede. Es una consulta de presentación: proyecta en SQL sobre el libro (nunca
// sobre un contador cacheado) y no participa en decisiones de escritura, esas
// siempre proyectan en el dominio bajo el lock del scope.
type LowStockRepository interface {
	// ListBelowReorder pagina por (limit, offset) en orden estable por código.
	ListBelowReorder(ctx context.Context, siteID string, limit, offset int) ([]LowStockItem, error)
}
