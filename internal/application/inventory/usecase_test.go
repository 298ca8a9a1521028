package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

var baseTime = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

func newMovementUC(s *memStore) *inventory.RegisterMovementUseCase {
	return inventory.NewRegisterMovementUseCase(&memTx{s}, &memSites{s}, &memItems{s})
}

// políticaFarma la política del escenario de referencia:
// punto de reorden 50, piso de seguridad 10, consumo mensual 90.
func politicaFarma() entity.ItemPolicy {
	return entity.ItemPolicy{
		ReorderPoint:          decimal.NewFromInt(50),
		SafetyStock:           decimal.NewFromInt(10),
		AvgMonthlyConsumption: decimal.NewFromInt(90),
	}
}

func storeConItem(policy entity.ItemPolicy, preferredSupplier string) *memStore {
	s := newMemStore()
	s.addSite("site-A")
	s.addSite("site-B")
	s.addItem(&entity.Item{
		ID:                  "amoxicilina",
		Code:                "AMX-500",
		Name:                "Amoxicilina 500mg",
		PreferredSupplierID: preferredSupplier,
		Policy:              policy,
	})
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaFeliz(t *testing.T) {
	s := storeConItem(politicaFarma(), "")
	uc := newMovementUC(s)

	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		SiteID:    "site-A",
		ItemID:    "amoxicilina",
		Direction: entity.DirectionIN,
		Quantity:  decimal.NewFromInt(100),
		Batch:     "L-001",
		UserID:    "user-1",
	})

	require.NoError(t, err)
	assert.True(t, res.Before.IsZero())
	assert.True(t, res.After.Equal(decimal.NewFromInt(100)))
	require.Len(t, s.movements, 1)

	m := s.movements[0]
	assert.Equal(t, res.MovementID, m.ID)
	assert.Equal(t, "UND", m.UOM, "la UOM se toma del maestro de ítems")
	assert.Equal(t, entity.ReasonPurchase, m.Reason, "razón por defecto de una entrada")
	assert.Equal(t, "user-1", m.CreatedBy)
}

func TestRegisterMovement_DosisFraccionariaConservaSeisDecimales(t *testing.T) {
	s := storeConItem(entity.ItemPolicy{}, "")
	dosis := decimal.RequireFromString("0.000025")
	uc := newMovementUC(s)

	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		SiteID:    "site-A",
		ItemID:    "amoxicilina",
		Direction: entity.DirectionIN,
		Quantity:  dosis,
		UserID:    "user-1",
	})

	require.NoError(t, err)
	assert.True(t, res.After.Equal(dosis), "la cantidad no se redondea en ningún punto del camino")
	require.Len(t, s.movements, 1)
	assert.True(t, s.movements[0].Quantity.Equal(dosis))
}

func TestRegisterMovement_GuardRechazaSalidaBajoElPiso(t *testing.T) {
	// Escenario de referencia: stock 60, piso 10. OUT de 55 proyecta 5 y se rechaza.
	s := storeConItem(politicaFarma(), "")
	s.seed("site-A", "amoxicilina", 60, baseTime)
	uc := newMovementUC(s)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		SiteID:    "site-A",
		ItemID:    "amoxicilina",
		Direction: entity.DirectionOUT,
		Quantity:  decimal.NewFromInt(55),
	})

	var v *domain.SafetyStockViolation
	require.True(t, errors.As(err, &v))
	assert.True(t, v.Projected.Equal(decimal.NewFromInt(5)))
	assert.True(t, v.Floor.Equal(decimal.NewFromInt(10)))

	// El rechazo es un no-op: el libro queda como estaba y sin alertas.
	assert.Len(t, s.movements, 1, "solo la semilla; la salida rechazada no dejó rastro")
	assert.Empty(t, s.alerts)
}

func TestRegisterMovement_SalidaValidaDisparaReorden(t *testing.T) {
	// OUT de 45 desde 60 deja 15: pasa el guard (15 >= 10) y dispara reorden (15 <= 50).
	s := storeConItem(politicaFarma(), "prov-1")
	s.seed("site-A", "amoxicilina", 60, baseTime)
	uc := newMovementUC(s)

	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		SiteID:    "site-A",
		ItemID:    "amoxicilina",
		Direction: entity.DirectionOUT,
		Quantity:  decimal.NewFromInt(45),
		Reason:    entity.ReasonDispense,
	})

	require.NoError(t, err)
	assert.True(t, res.After.Equal(decimal.NewFromInt(15)))

	require.Len(t, s.alerts, 1, "15 <= 50 emite alerta de stock bajo")
	alert := s.alerts[0]
	assert.True(t, alert.Stock.Equal(decimal.NewFromInt(15)))
	assert.True(t, alert.DailyConsumption.Equal(decimal.NewFromInt(3)), "90 / 30")
	require.NotNil(t, alert.DaysCoverage)
	assert.Equal(t, int64(5), *alert.DaysCoverage, "floor(15 / 3)")

	require.Len(t, s.proposals, 1, "con proveedor preferido también se propone reposición")
	assert.Equal(t, "prov-1", s.proposals[0].SupplierID)
	assert.True(t, s.proposals[0].ProposedQty.Equal(decimal.NewFromInt(85)), "10 + 90 - 15")
}

func TestRegisterMovement_EntradaNoEvaluaReorden(t *testing.T) {
	// Con stock bajo, una entrada no dispara la evaluación (solo las bajas lo hacen).
	s := storeConItem(politicaFarma(), "prov-1")
	uc := newMovementUC(s)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		SiteID:    "site-A",
		ItemID:    "amoxicilina",
		Direction: entity.DirectionIN,
		Quantity:  decimal.NewFromInt(5),
	})

	require.NoError(t, err)
	assert.Empty(t, s.alerts)
}

func TestRegisterMovement_SinPisoPermiteNegativo(t *testing.T) {
	s := storeConItem(entity.ItemPolicy{}, "")
	uc := newMovementUC(s)

	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		SiteID:    "site-A",
		ItemID:    "amoxicilina",
		Direction: entity.DirectionOUT,
		Quantity:  decimal.NewFromInt(7),
	})

	require.NoError(t, err)
	assert.True(t, res.After.Equal(decimal.NewFromInt(-7)),
		"sin piso configurado el stock puede quedar negativo")
}

func TestRegisterMovement_ValidacionesDeEntrada(t *testing.T) {
	s := storeConItem(politicaFarma(), "")
	uc := newMovementUC(s)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{
		SiteID: "site-A", ItemID: "amoxicilina", Direction: "MOVE", Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "dirección desconocida")

	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{
		SiteID: "site-A", ItemID: "amoxicilina", Direction: entity.DirectionADJUST, Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ADJUST sin signo")

	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{
		SiteID: "site-A", ItemID: "amoxicilina", Direction: entity.DirectionIN, Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad no positiva")

	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{
		SiteID: "no-existe", ItemID: "amoxicilina", Direction: entity.DirectionIN, Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound, "sede inexistente")

	assert.Empty(t, s.movements, "ninguna validación fallida toca el libro")
}

func TestRegisterMovement_AjusteNegativoPasaPorElGuard(t *testing.T) {
	s := storeConItem(politicaFarma(), "")
	s.seed("site-A", "amoxicilina", 12, baseTime)
	uc := newMovementUC(s)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		SiteID:     "site-A",
		ItemID:     "amoxicilina",
		Direction:  entity.DirectionADJUST,
		AdjustSign: entity.AdjustSignOUT,
		Quantity:   decimal.NewFromInt(5),
	})

	var v *domain.SafetyStockViolation
	assert.True(t, errors.As(err, &v), "12 - 5 = 7 < 10: el ajuste negativo también respeta el piso")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_DosPiernasConReferenciasCruzadas(t *testing.T) {
	// Escenario de referencia: 20 unidades de A (stock 30, piso 5) hacia B (stock 0).
	s := storeConItem(entity.ItemPolicy{SafetyStock: decimal.NewFromInt(5)}, "")
	s.seed("site-A", "amoxicilina", 30, baseTime)
	uc := newMovementUC(s)

	res, err := uc.Transfer(context.Background(), inventory.TransferInput{
		FromSiteID: "site-A",
		ToSiteID:   "site-B",
		ItemID:     "amoxicilina",
		Quantity:   decimal.NewFromInt(20),
		UserID:     "user-1",
	})

	require.NoError(t, err)
	assert.True(t, res.FromAfter.Equal(decimal.NewFromInt(10)), "A queda en 10")
	assert.True(t, res.ToAfter.Equal(decimal.NewFromInt(20)), "B queda en 20")

	require.Len(t, s.movements, 3, "la semilla más exactamente dos piernas")
	out, in := s.movements[1], s.movements[2]

	assert.Equal(t, entity.DirectionOUT, out.Direction)
	assert.Equal(t, "site-A", out.SiteID)
	assert.Equal(t, entity.ReasonTransferOut, out.Reason)
	assert.Equal(t, entity.DirectionIN, in.Direction)
	assert.Equal(t, "site-B", in.SiteID)
	assert.Equal(t, entity.ReasonTransferIn, in.Reason)

	// Cada pierna referencia a la otra.
	assert.Equal(t, entity.RefKindTransfer, out.Ref.Kind)
	assert.Equal(t, in.ID, out.Ref.ID)
	assert.Equal(t, out.ID, in.Ref.ID)
}

func TestTransfer_GuardEnOrigenNoDejaNada(t *testing.T) {
	s := storeConItem(entity.ItemPolicy{SafetyStock: decimal.NewFromInt(5)}, "")
	s.seed("site-A", "amoxicilina", 30, baseTime)
	uc := newMovementUC(s)

	_, err := uc.Transfer(context.Background(), inventory.TransferInput{
		FromSiteID: "site-A",
		ToSiteID:   "site-B",
		ItemID:     "amoxicilina",
		Quantity:   decimal.NewFromInt(28),
	})

	var v *domain.SafetyStockViolation
	require.True(t, errors.As(err, &v), "30 - 28 = 2 < 5 viola el piso del origen")
	assert.Len(t, s.movements, 1, "atómico: cero piernas cuando el guard rechaza")
}

func TestTransfer_MismaSedeRechazada(t *testing.T) {
	s := storeConItem(entity.ItemPolicy{}, "")
	uc := newMovementUC(s)

	_, err := uc.Transfer(context.Background(), inventory.TransferInput{
		FromSiteID: "site-A",
		ToSiteID:   "site-A",
		ItemID:     "amoxicilina",
		Quantity:   decimal.NewFromInt(1),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.movements)
}

func TestTransfer_LocksEnOrdenEstable(t *testing.T) {
	// Desde B hacia A: los scopes igual se bloquean en orden lexicográfico de
	// sede, el mismo que usaría un traslado en sentido contrario.
	s := storeConItem(entity.ItemPolicy{}, "")
	s.seed("site-B", "amoxicilina", 10, baseTime)
	uc := newMovementUC(s)

	_, err := uc.Transfer(context.Background(), inventory.TransferInput{
		FromSiteID: "site-B",
		ToSiteID:   "site-A",
		ItemID:     "amoxicilina",
		Quantity:   decimal.NewFromInt(10),
	})

	require.NoError(t, err)
	require.Len(t, s.locked, 2)
	assert.Equal(t, "site-A/amoxicilina", s.locked[0])
	assert.Equal(t, "site-B/amoxicilina", s.locked[1])
}
