package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/stock"
)

// MovementRepository acceso al libro de movimientos. El libro es append-only:
// no existe update ni delete de registros confirmados.
type MovementRepository interface {
	// Create agrega un movimiento al libro.
	Create(ctx context.Context, m *entity.Movement) error
	// CreateBatch agrega varios movimientos; todo-o-nada dentro de la tx ambiente.
	CreateBatch(ctx context.Context, movements []*entity.Movement) error
	// ListByScope devuelve todos los movimientos del scope (orden de commit).
	ListByScope(ctx context.Context, scope stock.Scope) ([]*entity.Movement, error)
	// ListByOrderRef devuelve los movimientos IN que referencian una orden de compra.
	ListByOrderRef(ctx context.Context, orderID string) ([]*entity.Movement, error)
	// ListExpiryScopes devuelve los scopes (ítem, lote, vencimiento) distintos de la
	// sede con vencimiento en o antes del corte. itemID vacío = todos los ítems.
	ListExpiryScopes(ctx context.Context, siteID string, cutoff time.Time, itemID string) ([]stock.Scope, error)
	// ForEachInRange recorre los movimientos del scope en [from, to] ordenados por
	// (created_at, seq), invocando fn por cada fila sin materializar el rango completo.
	ForEachInRange(ctx context.Context, scope stock.Scope, from, to *time.Time, fn func(*entity.Movement) error) error
}
