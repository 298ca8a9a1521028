package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

var (
	cutoff     = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	vencido    = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	vencidoDos = time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	vigente    = time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
)

func newWriteOffUC(s *memStore) *inventory.WriteOffUseCase {
	return inventory.NewWriteOffUseCase(&memTx{s}, &memSites{s}, &memItems{s})
}

func TestWriteOff_DaDeBajaSoloLoVencido(t *testing.T) {
	s := storeConItem(entity.ItemPolicy{}, "")
	s.seedBatch("site-A", "amoxicilina", "L-001", vencido, 40, baseTime)
	s.seedBatch("site-A", "amoxicilina", "L-002", vencidoDos, 25, baseTime.Add(time.Hour))
	s.seedBatch("site-A", "amoxicilina", "L-003", vigente, 100, baseTime.Add(2*time.Hour))
	uc := newWriteOffUC(s)

	report, err := uc.WriteOffExpired(context.Background(), dto.WriteOffRequest{
		SiteID: "site-A",
		Cutoff: &cutoff,
	}, "user-1")

	require.NoError(t, err)
	require.Len(t, report.WrittenOff, 2)
	assert.Empty(t, report.Skipped)

	// Dos bajas en el libro, una por scope vencido; el lote vigente intacto.
	require.Len(t, s.movements, 5)
	for _, m := range s.movements[3:] {
		assert.Equal(t, entity.DirectionOUT, m.Direction)
		assert.Equal(t, entity.ReasonWriteOff, m.Reason)
		assert.Equal(t, "EXPIRY", m.Ref.Code)
		assert.NotEqual(t, "L-003", m.Batch)
	}

	// Reporte en orden estable por (ítem, lote) con la cantidad dada de baja.
	assert.Equal(t, "L-001", report.WrittenOff[0].Batch)
	assert.True(t, report.WrittenOff[0].Quantity.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "L-002", report.WrittenOff[1].Batch)
	assert.True(t, report.WrittenOff[1].Quantity.Equal(decimal.NewFromInt(25)))
}

func TestWriteOff_ScopeQueViolaElPisoSeOmite(t *testing.T) {
	// Stock total 30 (25 vencidos + 5 vigentes), piso 10: la baja de 25
	// dejaría 5 < 10, así el scope se reporta omitido sin fallar el batch.
	s := storeConItem(entity.ItemPolicy{
		ReorderPoint: decimal.NewFromInt(10),
		SafetyStock:  decimal.NewFromInt(10),
	}, "")
	s.seedBatch("site-A", "amoxicilina", "L-001", vencido, 25, baseTime)
	s.seedBatch("site-A", "amoxicilina", "L-002", vigente, 5, baseTime.Add(time.Hour))
	uc := newWriteOffUC(s)

	report, err := uc.WriteOffExpired(context.Background(), dto.WriteOffRequest{
		SiteID: "site-A",
		Cutoff: &cutoff,
	}, "user-1")

	require.NoError(t, err, "el éxito parcial no es un error del batch")
	assert.Empty(t, report.WrittenOff)
	require.Len(t, report.Skipped, 1)

	skipped := report.Skipped[0]
	assert.Equal(t, "L-001", skipped.Batch)
	assert.True(t, skipped.Skipped)
	assert.NotEmpty(t, skipped.SkipReason)
	assert.Empty(t, skipped.MovementID)
	assert.Len(t, s.movements, 2, "nada entró al libro por el scope omitido")
}

func TestWriteOff_HermanosDelMismoItemIndependientes(t *testing.T) {
	// Dos lotes vencidos del mismo ítem con piso 10 y stock total 50:
	// la primera baja (30) deja 20 y pasa; la segunda (15) dejaría 5 y se omite.
	s := storeConItem(entity.ItemPolicy{
		ReorderPoint: decimal.NewFromInt(10),
		SafetyStock:  decimal.NewFromInt(10),
	}, "")
	s.seedBatch("site-A", "amoxicilina", "L-001", vencido, 30, baseTime)
	s.seedBatch("site-A", "amoxicilina", "L-002", vencidoDos, 15, baseTime.Add(time.Hour))
	s.seedBatch("site-A", "amoxicilina", "L-003", vigente, 5, baseTime.Add(2*time.Hour))
	uc := newWriteOffUC(s)

	report, err := uc.WriteOffExpired(context.Background(), dto.WriteOffRequest{
		SiteID: "site-A",
		Cutoff: &cutoff,
	}, "user-1")

	require.NoError(t, err)
	require.Len(t, report.WrittenOff, 1)
	assert.Equal(t, "L-001", report.WrittenOff[0].Batch)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "L-002", report.Skipped[0].Batch,
		"el guard se evalúa contra el agregado ya descontadas las bajas anteriores")
}

func TestWriteOff_EvaluaReordenConElStockFinal(t *testing.T) {
	s := storeConItem(politicaFarma(), "prov-1")
	s.seedBatch("site-A", "amoxicilina", "L-001", vencido, 40, baseTime)
	s.seedBatch("site-A", "amoxicilina", "L-002", vigente, 20, baseTime.Add(time.Hour))
	uc := newWriteOffUC(s)

	_, err := uc.WriteOffExpired(context.Background(), dto.WriteOffRequest{
		SiteID: "site-A",
		Cutoff: &cutoff,
	}, "user-1")

	require.NoError(t, err)
	require.Len(t, s.alerts, 1, "60 - 40 = 20 <= 50 dispara reorden tras la baja")
	assert.True(t, s.alerts[0].Stock.Equal(decimal.NewFromInt(20)))
}

func TestWriteOff_FiltroPorItem(t *testing.T) {
	s := storeConItem(entity.ItemPolicy{}, "")
	s.addItem(&entity.Item{ID: "ibuprofeno", Code: "IBU-400", Name: "Ibuprofeno 400mg"})
	s.seedBatch("site-A", "amoxicilina", "L-001", vencido, 10, baseTime)
	s.seedBatch("site-A", "ibuprofeno", "L-009", vencido, 10, baseTime.Add(time.Hour))
	uc := newWriteOffUC(s)

	report, err := uc.WriteOffExpired(context.Background(), dto.WriteOffRequest{
		SiteID: "site-A",
		Cutoff: &cutoff,
		ItemID: "ibuprofeno",
	}, "user-1")

	require.NoError(t, err)
	require.Len(t, report.WrittenOff, 1)
	assert.Equal(t, "ibuprofeno", report.WrittenOff[0].ItemID)
	assert.Len(t, s.movements, 3, "el lote vencido del otro ítem no se toca")
}

func TestWriteOff_SedeSinVencidosNoHaceNada(t *testing.T) {
	s := storeConItem(entity.ItemPolicy{}, "")
	s.seedBatch("site-A", "amoxicilina", "L-003", vigente, 100, baseTime)
	uc := newWriteOffUC(s)

	report, err := uc.WriteOffExpired(context.Background(), dto.WriteOffRequest{
		SiteID: "site-A",
		Cutoff: &cutoff,
	}, "user-1")

	require.NoError(t, err)
	assert.Empty(t, report.WrittenOff)
	assert.Empty(t, report.Skipped)
	assert.Len(t, s.movements, 1)
}

func TestWriteOff_ReintentoPorConflictoNoDuplicaElReporte(t *testing.T) {
	// El primer intento corre completo y se revierte al confirmar; el reporte
	// del reintento solo refleja lo que quedó de verdad en el libro.
	s := storeConItem(entity.ItemPolicy{}, "")
	s.seedBatch("site-A", "amoxicilina", "L-001", vencido, 40, baseTime)
	uc := inventory.NewWriteOffUseCase(&conflictTx{inner: &memTx{s}, fails: 1}, &memSites{s}, &memItems{s})

	report, err := uc.WriteOffExpired(context.Background(), dto.WriteOffRequest{
		SiteID: "site-A",
		Cutoff: &cutoff,
	}, "user-1")

	require.NoError(t, err)
	require.Len(t, report.WrittenOff, 1, "una sola baja por scope vencido, sin residuos del intento revertido")
	require.Len(t, s.movements, 2)
	assert.Equal(t, s.movements[1].ID, report.WrittenOff[0].MovementID,
		"el id reportado es el del movimiento confirmado, no el del intento revertido")
}

func TestWriteOff_SedeInexistente(t *testing.T) {
	s := storeConItem(entity.ItemPolicy{}, "")
	uc := newWriteOffUC(s)

	_, err := uc.WriteOffExpired(context.Background(), dto.WriteOffRequest{SiteID: "no-existe"}, "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
