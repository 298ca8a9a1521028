package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/domain/stock"
)

// KardexUseCase consultas de solo lectura sobre el libro: stock proyectado y
// kardex (saldo corrido). Corren contra el último estado confirmado, sin locks.
type KardexUseCase struct {
	movRepo  repository.MovementRepository
	siteRepo repository.SiteRepository
	itemRepo repository.ItemRepository
}

// NewKardexUseCase construye el caso de uso con repositorios atados al pool.
func NewKardexUseCase(
	movRepo repository.MovementRepository,
	siteRepo repository.SiteRepository,
	itemRepo repository.ItemRepository,
) *KardexUseCase {
	return &KardexUseCase{movRepo: movRepo, siteRepo: siteRepo, itemRepo: itemRepo}
}

// Stock proyecta el stock actual del scope pedido (con filtros opcionales de
// lote y vencimiento). Siempre recalculado desde el libro.
func (uc *KardexUseCase) Stock(ctx context.Context, q dto.StockQuery) (*dto.StockResponse, error) {
	if err := uc.checkScope(ctx, q.SiteID, q.ItemID); err != nil {
		return nil, err
	}
	scope := stock.Scope{SiteID: q.SiteID, ItemID: q.ItemID, Batch: q.Batch, Expiry: q.Expiry}
	movements, err := uc.movRepo.ListByScope(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{
		SiteID: q.SiteID,
		ItemID: q.ItemID,
		Batch:  q.Batch,
		Stock:  stock.Project(movements),
	}, nil
}

// Replay produce el kardex del scope: movimientos ordenados por
// (fecha de commit, secuencia) con el saldo corrido como suma de prefijos.
// El saldo de apertura es la proyección estrictamente anterior al rango, así
// un rango acotado no materializa el libro completo.
func (uc *KardexUseCase) Replay(ctx context.Context, q dto.KardexQuery) (*dto.KardexResponse, error) {
	if err := uc.checkScope(ctx, q.SiteID, q.ItemID); err != nil {
		return nil, err
	}
	scope := stock.Scope{SiteID: q.SiteID, ItemID: q.ItemID, Batch: q.Batch, Expiry: q.Expiry}

	opening, err := uc.openingBalance(ctx, scope, q.From)
	if err != nil {
		return nil, err
	}

	acc := stock.NewKardexAccumulator(opening)
	resp := &dto.KardexResponse{
		SiteID:  q.SiteID,
		ItemID:  q.ItemID,
		Opening: opening,
		Entries: []dto.KardexEntryDTO{},
	}
	err = uc.movRepo.ForEachInRange(ctx, scope, q.From, q.To, func(m *entity.Movement) error {
		e := acc.Next(m)
		resp.Entries = append(resp.Entries, kardexEntryToDTO(e))
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.Closing = acc.Balance()
	return resp, nil
}

// openingBalance proyecta el saldo anterior al inicio del rango.
// El corte resta un microsegundo: PostgreSQL almacena timestamps con esa
// precisión, así un movimiento fechado exactamente en from no se cuenta doble.
func (uc *KardexUseCase) openingBalance(ctx context.Context, scope stock.Scope, from *time.Time) (decimal.Decimal, error) {
	if from == nil {
		return decimal.Zero, nil
	}
	before := from.Add(-time.Microsecond)
	acc := stock.NewKardexAccumulator(decimal.Zero)
	err := uc.movRepo.ForEachInRange(ctx, scope, nil, &before, func(m *entity.Movement) error {
		acc.Next(m)
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance(), nil
}

func (uc *KardexUseCase) checkScope(ctx context.Context, siteID, itemID string) error {
	site, err := uc.siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return err
	}
	if site == nil {
		return domain.ErrNotFound
	}
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return nil
}

func kardexEntryToDTO(e stock.KardexEntry) dto.KardexEntryDTO {
	m := e.Movement
	return dto.KardexEntryDTO{
		MovementID: m.ID,
		Date:       m.CreatedAt,
		Direction:  m.Direction,
		AdjustSign: m.AdjustSign,
		Quantity:   m.Quantity,
		Signed:     m.SignedQuantity(),
		Balance:    e.Balance,
		Batch:      m.Batch,
		Expiry:     m.Expiry,
		UnitCost:   m.UnitCost,
		Reason:     m.Reason,
		RefCode:    m.Ref.Code,
		Notes:      m.Notes,
	}
}
