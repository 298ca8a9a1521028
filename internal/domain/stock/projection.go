package stock

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Scope es la llave (sede, ítem[, lote, vencimiento]) sobre la que se proyecta stock.
// Batch y Expiry vacíos agregan sobre todos los lotes.
type Scope struct {
	SiteID string
	ItemID string
	Batch  string
	Expiry *time.Time
}

// Matches indica si un movimiento pertenece al scope.
func (s Scope) Matches(m *entity.Movement) bool {
	if m.SiteID != s.SiteID || m.ItemID != s.ItemID {
		return false
	}
	if s.Batch != "" && m.Batch != s.Batch {
		return false
	}
	if s.Expiry != nil {
		if m.Expiry == nil || !m.Expiry.Equal(*s.Expiry) {
			return false
		}
	}
	return true
}

// Project calcula el stock actual como la suma con signo de los movimientos.
// El libro es la única fuente de verdad: no existe contador materializado.
// La suma es exacta (decimal), independiente del orden de commit.
func Project(movements []*entity.Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.SignedQuantity())
	}
	return total
}

// ProjectScope filtra por scope y proyecta. Útil cuando el caller ya tiene
// los movimientos de la (sede, ítem) y necesita acotar por lote/vencimiento.
func ProjectScope(scope Scope, movements []*entity.Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		if scope.Matches(m) {
			total = total.Add(m.SignedQuantity())
		}
	}
	return total
}
