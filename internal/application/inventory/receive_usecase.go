package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/domain/stock"
)

// ReceiveOrderUseCase registra la recepción de mercancía contra una orden de
// compra: un IN por renglón recibido, reconciliación del avance desde el libro
// y avance del estado de la orden, todo como una sola unidad atómica.
type ReceiveOrderUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
}

// NewReceiveOrderUseCase construye el caso de uso.
func NewReceiveOrderUseCase(txRunner TxRunner, itemRepo repository.ItemRepository) *ReceiveOrderUseCase {
	return &ReceiveOrderUseCase{txRunner: txRunner, itemRepo: itemRepo}
}

// Receive valida y confirma una recepción. Si algún ítem enviado no es renglón
// de la orden, la unidad completa se rechaza y nada queda en el libro.
// Tras confirmar: todos los renglones completos -> RECEIVED (con fecha de
// recepción); si no y la orden estaba en DRAFT -> SENT (recibir implica que
// la orden salió de borrador).
func (uc *ReceiveOrderUseCase) Receive(ctx context.Context, orderID, userID string, in dto.ReceiveRequest) (*dto.ReceiveResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "la recepción no tiene renglones")
	}
	for _, l := range in.Lines {
		if !l.Quantity.IsPositive() {
			return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
	}

	now := time.Now()
	var resp *dto.ReceiveResponse
	err := runTx(ctx, uc.txRunner, func(
		movRepo repository.MovementRepository,
		itemRepo repository.ItemRepository,
		orderRepo repository.PurchaseOrderRepository,
		_ repository.AlertRepository,
		locks ScopeLocker,
	) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.OrderStatusCancelled || order.Status == entity.OrderStatusReceived {
			return domain.ErrForbiddenTransition
		}

		// Validar renglones contra la orden antes de tocar el libro.
		for _, l := range in.Lines {
			if order.LineForItem(l.ItemID) == nil {
				return domain.NewValidationError("item_id", "el ítem "+l.ItemID+" no es renglón de la orden")
			}
		}

		// Serializar contra otros escritores de los mismos scopes, en orden estable.
		itemIDs := make([]string, 0, len(in.Lines))
		seen := make(map[string]bool, len(in.Lines))
		for _, l := range in.Lines {
			if !seen[l.ItemID] {
				seen[l.ItemID] = true
				itemIDs = append(itemIDs, l.ItemID)
			}
		}
		sort.Strings(itemIDs)
		for _, itemID := range itemIDs {
			if err := locks.LockScope(ctx, order.SiteID, itemID); err != nil {
				return err
			}
		}

		movements := make([]*entity.Movement, 0, len(in.Lines))
		ids := make([]string, 0, len(in.Lines))
		for _, l := range in.Lines {
			line := order.LineForItem(l.ItemID)
			item, err := itemRepo.GetByID(ctx, l.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}

			batch := l.Batch
			if batch == "" {
				batch = line.Batch
			}
			expiry := l.Expiry
			if expiry == nil {
				expiry = line.Expiry
			}
			unitCost := l.UnitCost
			if unitCost == nil {
				price := line.UnitPrice
				unitCost = &price
			}

			mov := &entity.Movement{
				ID:        uuid.New().String(),
				SiteID:    order.SiteID,
				ItemID:    l.ItemID,
				Direction: entity.DirectionIN,
				Quantity:  l.Quantity,
				UOM:       item.UOM,
				Batch:     batch,
				Expiry:    expiry,
				UnitCost:  unitCost,
				Ref:       entity.DocumentRef{Kind: entity.RefKindPurchaseOrder, ID: order.ID, Code: order.Code},
				Reason:    entity.ReasonPurchase,
				Notes:     in.Notes,
				CreatedBy: userID,
				CreatedAt: now,
			}
			movements = append(movements, mov)
			ids = append(ids, mov.ID)
		}

		if err := movRepo.CreateBatch(ctx, movements); err != nil {
			return err
		}

		// Reconciliar desde el libro (read-your-writes dentro de la tx).
		orderMovs, err := movRepo.ListByOrderRef(ctx, order.ID)
		if err != nil {
			return err
		}
		progress := stock.ReconcileReceipt(order, orderMovs)

		status := order.Status
		if progress.Complete {
			status = entity.OrderStatusReceived
			if err := orderRepo.UpdateStatus(ctx, order.ID, status, &now); err != nil {
				return err
			}
		} else if order.Status == entity.OrderStatusDraft {
			status = entity.OrderStatusSent
			if err := orderRepo.UpdateStatus(ctx, order.ID, status, nil); err != nil {
				return err
			}
		}

		resp = &dto.ReceiveResponse{
			MovementIDs: ids,
			Progress:    progressToDTO(order.ID, progress),
			OrderStatus: status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// progressToDTO mapea el avance de dominio al DTO de respuesta.
func progressToDTO(orderID string, p stock.ReceiptProgress) dto.ReceiptProgressDTO {
	out := dto.ReceiptProgressDTO{OrderID: orderID, Complete: p.Complete}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, dto.LineProgressDTO{
			ItemID:   l.ItemID,
			Ordered:  l.Ordered,
			Received: l.Received,
			Pending:  l.Pending,
		})
	}
	return out
}
