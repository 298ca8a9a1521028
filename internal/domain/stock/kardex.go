package stock

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// KardexEntry un movimiento con su saldo acumulado hasta e incluyéndolo.
type KardexEntry struct {
	Movement *entity.Movement
	Balance  decimal.Decimal
}

// KardexAccumulator produce el saldo corrido del kardex como suma de prefijos
// sobre un stream de movimientos ya ordenados por (fecha de commit, secuencia).
// Opening es el saldo proyectado estrictamente antes del rango consultado,
// así el kardex de un rango acotado no exige materializar todo el libro.
type KardexAccumulator struct {
	balance decimal.Decimal
}

// NewKardexAccumulator crea el acumulador partiendo del saldo de apertura.
func NewKardexAccumulator(opening decimal.Decimal) *KardexAccumulator {
	return &KardexAccumulator{balance: opening}
}

// Next incorpora el siguiente movimiento del stream y devuelve su entrada de kardex.
func (a *KardexAccumulator) Next(m *entity.Movement) KardexEntry {
	a.balance = a.balance.Add(m.SignedQuantity())
	return KardexEntry{Movement: m, Balance: a.balance}
}

// Balance saldo acumulado hasta el último movimiento procesado.
func (a *KardexAccumulator) Balance() decimal.Decimal {
	return a.balance
}
