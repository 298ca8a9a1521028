package stock_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/stock"
)

func policy(reorderPoint, safetyStock, avgMonthly int64) entity.ItemPolicy {
	return entity.ItemPolicy{
		ReorderPoint:          decimal.NewFromInt(reorderPoint),
		SafetyStock:           decimal.NewFromInt(safetyStock),
		AvgMonthlyConsumption: decimal.NewFromInt(avgMonthly),
	}
}

func TestCheckFloor_RechazaBajoElPiso(t *testing.T) {
	// safetyStock=10, stock 60, OUT de 55: proyectado 5 < 10 se rechaza.
	err := stock.CheckFloor("site-1", "item-1", policy(50, 10, 0), decimal.NewFromInt(5))
	require.Error(t, err)

	var v *domain.SafetyStockViolation
	require.True(t, errors.As(err, &v), "el guard devuelve SafetyStockViolation tipado")
	assert.Equal(t, "site-1", v.SiteID)
	assert.Equal(t, "item-1", v.ItemID)
	assert.True(t, v.Projected.Equal(decimal.NewFromInt(5)), "lleva el stock que habría quedado")
	assert.True(t, v.Floor.Equal(decimal.NewFromInt(10)), "lleva el piso configurado")
}

func TestCheckFloor_PermiteQuedarExactoEnElPiso(t *testing.T) {
	err := stock.CheckFloor("site-1", "item-1", policy(50, 10, 0), decimal.NewFromInt(10))
	assert.NoError(t, err, "quedar exactamente en el piso no viola la invariante")
}

func TestCheckFloor_PermiteSobreElPiso(t *testing.T) {
	// OUT de 45 desde 60: proyectado 15 >= 10 pasa.
	err := stock.CheckFloor("site-1", "item-1", policy(50, 10, 0), decimal.NewFromInt(15))
	assert.NoError(t, err)
}

func TestCheckFloor_SinPisoPermiteStockNegativo(t *testing.T) {
	// Con SafetyStock en 0 no hay piso: el stock puede quedar negativo.
	err := stock.CheckFloor("site-1", "item-1", policy(0, 0, 0), decimal.NewFromInt(-7))
	assert.NoError(t, err, "sin piso configurado las salidas nunca se bloquean")
}
