package purchasing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/domain/stock"
)

// OrderUseCase ciclo de vida de órdenes de compra: borrador, envío y
// cancelación, con totales siempre recalculados desde los renglones.
// La recepción vive en el motor de inventario (es atómica con el libro);
// aquí solo se consulta su avance derivado.
type OrderUseCase struct {
	orderRepo    repository.PurchaseOrderRepository
	movRepo      repository.MovementRepository
	siteRepo     repository.SiteRepository
	itemRepo     repository.ItemRepository
	supplierRepo repository.SupplierRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orderRepo repository.PurchaseOrderRepository,
	movRepo repository.MovementRepository,
	siteRepo repository.SiteRepository,
	itemRepo repository.ItemRepository,
	supplierRepo repository.SupplierRepository,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:    orderRepo,
		movRepo:      movRepo,
		siteRepo:     siteRepo,
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
	}
}

// CreateDraft crea una orden en DRAFT validando sede, proveedor y renglones.
func (uc *OrderUseCase) CreateDraft(ctx context.Context, in dto.CreateOrderRequest, userID string) (*dto.OrderResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "la orden no tiene renglones")
	}
	site, err := uc.siteRepo.GetByID(ctx, in.SiteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if in.TaxRate.IsNegative() {
		return nil, domain.NewValidationError("tax_rate", "no puede ser negativo")
	}

	now := time.Now()
	order := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		SiteID:     in.SiteID,
		SupplierID: in.SupplierID,
		Status:     entity.OrderStatusDraft,
		Currency:   strings.ToUpper(in.Currency),
		TaxRate:    in.TaxRate,
		Notes:      in.Notes,
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	order.Code = orderCode(order.ID)

	for i, l := range in.Lines {
		if !l.Quantity.IsPositive() {
			return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
		if l.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError("unit_price", "no puede ser negativo")
		}
		item, err := uc.itemRepo.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		order.Lines = append(order.Lines, entity.PurchaseOrderLine{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			LineNo:    i + 1,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Batch:     l.Batch,
			Expiry:    l.Expiry,
		})
	}

	// Los totales siempre salen de los renglones, nunca del request.
	order.RecalculateTotals()

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return orderToDTO(order, nil), nil
}

// Send marca la orden como enviada al proveedor (solo desde DRAFT).
func (uc *OrderUseCase) Send(ctx context.Context, orderID string) error {
	return uc.transition(ctx, orderID, entity.OrderStatusSent)
}

// Cancel cancela la orden (solo desde DRAFT o SENT).
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID string) error {
	return uc.transition(ctx, orderID, entity.OrderStatusCancelled)
}

func (uc *OrderUseCase) transition(ctx context.Context, orderID, next string) error {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if !order.CanTransition(next) {
		return domain.ErrForbiddenTransition
	}
	return uc.orderRepo.UpdateStatus(ctx, orderID, next, nil)
}

// GetOrder devuelve la orden, opcionalmente con el avance de recepción
// derivado del libro (nunca hay campo de avance almacenado).
func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID string, withProgress bool) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	var progress *dto.ReceiptProgressDTO
	if withProgress {
		p, err := uc.Progress(ctx, order)
		if err != nil {
			return nil, err
		}
		progress = p
	}
	return orderToDTO(order, progress), nil
}

// Progress reconcilia el avance de recepción de la orden desde el libro.
func (uc *OrderUseCase) Progress(ctx context.Context, order *entity.PurchaseOrder) (*dto.ReceiptProgressDTO, error) {
	movements, err := uc.movRepo.ListByOrderRef(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	p := stock.ReconcileReceipt(order, movements)
	out := &dto.ReceiptProgressDTO{OrderID: order.ID, Complete: p.Complete}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, dto.LineProgressDTO{
			ItemID:   l.ItemID,
			Ordered:  l.Ordered,
			Received: l.Received,
			Pending:  l.Pending,
		})
	}
	return out, nil
}

// orderCode código legible corto derivado del ID ("OC-XXXXXXXX").
func orderCode(id string) string {
	return "OC-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}

func orderToDTO(o *entity.PurchaseOrder, progress *dto.ReceiptProgressDTO) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:         o.ID,
		Code:       o.Code,
		SiteID:     o.SiteID,
		SupplierID: o.SupplierID,
		Status:     o.Status,
		Currency:   o.Currency,
		TaxRate:    o.TaxRate,
		Subtotal:   o.Subtotal,
		Tax:        o.Tax,
		Total:      o.Total,
		ReceivedAt: o.ReceivedAt,
		Progress:   progress,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, dto.OrderLineDTO{
			LineNo:    l.LineNo,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Batch:     l.Batch,
			Expiry:    l.Expiry,
		})
	}
	return resp
}
