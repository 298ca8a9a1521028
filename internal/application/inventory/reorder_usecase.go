package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/domain/stock"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// Evaluation resultado interno de una evaluación de reorden.
type Evaluation struct {
	Triggered        bool
	Stock            decimal.Decimal
	ReorderPoint     decimal.Decimal
	DailyConsumption decimal.Decimal
	DaysCoverage     *int64
	ProposedQty      *decimal.Decimal
	SupplierID       string
}

// evaluateReorder evalúa la política del ítem contra el stock dado y persiste
// los eventos que correspondan. Es idempotente respecto a la decisión: con el
// mismo stock produce el mismo disparo y la misma cantidad propuesta.
//
// Se invoca desde el escritor dentro de la misma transacción del commit
// (el stock recién proyectado sigue siendo válido bajo el lock del scope)
// y desde la evaluación explícita bajo demanda.
func evaluateReorder(
	ctx context.Context,
	alertRepo repository.AlertRepository,
	item *entity.Item,
	siteID string,
	current decimal.Decimal,
	now time.Time,
) (*Evaluation, error) {
	ev := &Evaluation{
		Stock:            current,
		ReorderPoint:     item.Policy.ReorderPoint,
		DailyConsumption: stock.DailyConsumption(item.Policy),
	}
	ev.DaysCoverage = stock.DaysCoverage(current, ev.DailyConsumption)

	if !stock.ShouldReorder(item.Policy, current) {
		return ev, nil
	}
	ev.Triggered = true

	alert := &entity.LowStockAlert{
		ID:               uuid.New().String(),
		SiteID:           siteID,
		ItemID:           item.ID,
		Stock:            current,
		ReorderPoint:     item.Policy.ReorderPoint,
		SafetyStock:      item.Policy.SafetyStock,
		DailyConsumption: ev.DailyConsumption,
		DaysCoverage:     ev.DaysCoverage,
		CreatedAt:        now,
	}
	if err := alertRepo.CreateLowStock(ctx, alert); err != nil {
		return nil, err
	}

	// Propuesta de reposición solo con proveedor preferido y cantidad positiva;
	// una cantidad no positiva suprime la propuesta pero no la alerta.
	if item.PreferredSupplierID != "" {
		qty := stock.ProposedQty(item.Policy, current)
		if qty.IsPositive() {
			ev.ProposedQty = &qty
			ev.SupplierID = item.PreferredSupplierID
			proposal := &entity.ReplenishmentProposal{
				ID:          uuid.New().String(),
				SiteID:      siteID,
				ItemID:      item.ID,
				SupplierID:  item.PreferredSupplierID,
				ProposedQty: qty,
				CreatedAt:   now,
			}
			if err := alertRepo.CreateProposal(ctx, proposal); err != nil {
				return nil, err
			}
		}
	}
	return ev, nil
}

// ReorderEvaluatorUseCase evaluación explícita de reorden para una (sede, ítem).
// Segura de correr después de cualquier escritura, tantas veces como se quiera.
type ReorderEvaluatorUseCase struct {
	txRunner TxRunner
	siteRepo repository.SiteRepository
	itemRepo repository.ItemRepository
	lowRepo  repository.LowStockRepository
	log      *logger.Logger
}

// NewReorderEvaluatorUseCase construye el evaluador.
func NewReorderEvaluatorUseCase(
	txRunner TxRunner,
	siteRepo repository.SiteRepository,
	itemRepo repository.ItemRepository,
	lowRepo repository.LowStockRepository,
	log *logger.Logger,
) *ReorderEvaluatorUseCase {
	return &ReorderEvaluatorUseCase{txRunner: txRunner, siteRepo: siteRepo, itemRepo: itemRepo, lowRepo: lowRepo, log: log}
}

// Evaluate proyecta el stock de la (sede, ítem) y evalúa la política de reorden,
// emitiendo los eventos que correspondan.
func (uc *ReorderEvaluatorUseCase) Evaluate(ctx context.Context, siteID, itemID string) (*dto.ReorderEvaluationResponse, error) {
	site, err := uc.siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	var ev *Evaluation
	err = runTx(ctx, uc.txRunner, func(
		movRepo repository.MovementRepository,
		_ repository.ItemRepository,
		_ repository.PurchaseOrderRepository,
		alertRepo repository.AlertRepository,
		_ ScopeLocker,
	) error {
		movements, err := movRepo.ListByScope(ctx, stock.Scope{SiteID: siteID, ItemID: itemID})
		if err != nil {
			return err
		}
		current := stock.Project(movements)
		ev, err = evaluateReorder(ctx, alertRepo, item, siteID, current, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	if ev.Triggered {
		uc.log.Info().
			Str("site_id", siteID).
			Str("item_id", itemID).
			Str("stock", ev.Stock.String()).
			Str("reorder_point", ev.ReorderPoint.String()).
			Msg("stock bajo: alerta de reorden emitida")
	}

	return &dto.ReorderEvaluationResponse{
		Triggered:        ev.Triggered,
		Stock:            ev.Stock,
		ReorderPoint:     ev.ReorderPoint,
		DailyConsumption: ev.DailyConsumption,
		DaysCoverage:     ev.DaysCoverage,
		ProposedQty:      ev.ProposedQty,
		SupplierID:       ev.SupplierID,
	}, nil
}

// ListLowStock lista los ítems de la sede en o bajo su punto de reorden,
// proyectados desde el libro. Consulta de solo lectura, sin locks.
func (uc *ReorderEvaluatorUseCase) ListLowStock(ctx context.Context, siteID string, page dto.PageRequest) (*dto.LowStockResponse, error) {
	site, err := uc.siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}

	page.DefaultPage()
	rows, err := uc.lowRepo.ListBelowReorder(ctx, siteID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.LowStockResponse{SiteID: siteID, Limit: page.Limit, Offset: page.Offset, Items: []dto.LowStockRow{}}
	for _, r := range rows {
		daily := stock.DailyConsumption(r.Item.Policy)
		resp.Items = append(resp.Items, dto.LowStockRow{
			ItemID:           r.Item.ID,
			Code:             r.Item.Code,
			Name:             r.Item.Name,
			UOM:              r.Item.UOM,
			Stock:            r.Stock,
			ReorderPoint:     r.Item.Policy.ReorderPoint,
			SafetyStock:      r.Item.Policy.SafetyStock,
			DailyConsumption: daily,
			DaysCoverage:     stock.DaysCoverage(r.Stock, daily),
			SupplierID:       r.Item.PreferredSupplierID,
		})
	}
	return resp, nil
}
