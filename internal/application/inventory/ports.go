package inventory

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ScopeLocker serializa las secuencias proyectar→verificar→escribir sobre una
// misma llave (sede, ítem). La implementación PostgreSQL usa advisory locks
// transaccionales; se libera sola al terminar la tx.
type ScopeLocker interface {
	LockScope(ctx context.Context, siteID, itemID string) error
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: todas las piernas de una operación se confirman o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		itemRepo repository.ItemRepository,
		orderRepo repository.PurchaseOrderRepository,
		alertRepo repository.AlertRepository,
		locks ScopeLocker,
	) error) error
}
