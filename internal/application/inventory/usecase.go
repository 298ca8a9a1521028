package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/domain/stock"
)

// maxTxRetries reintentos ante conflictos de serialización antes de rendirse.
const maxTxRetries = 3

// runTx ejecuta fn vía el TxRunner reintentando conflictos de concurrencia
// un número acotado de veces. Si los reintentos se agotan, el conflicto se
// devuelve al caller como falla transitoria.
func runTx(ctx context.Context, runner TxRunner, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.ItemRepository,
	orderRepo repository.PurchaseOrderRepository,
	alertRepo repository.AlertRepository,
	locks ScopeLocker,
) error) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = runner.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

// RegisterMovementUseCase registra movimientos del libro de forma transaccional
// (IN, OUT, ADJUST y traslados entre sedes). Cada secuencia proyectar→guard→
// append corre bajo el lock del scope para que dos salidas concurrentes no
// pasen el guard contra una proyección obsoleta.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	siteRepo repository.SiteRepository
	itemRepo repository.ItemRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	siteRepo repository.SiteRepository,
	itemRepo repository.ItemRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		siteRepo: siteRepo,
		itemRepo: itemRepo,
	}
}

// MovementInput entrada para registrar un movimiento simple.
type MovementInput struct {
	SiteID     string
	ItemID     string
	Direction  string // IN, OUT, ADJUST
	AdjustSign string // obligatorio cuando Direction es ADJUST
	Quantity   decimal.Decimal
	Batch      string
	Expiry     *time.Time
	UnitCost   *decimal.Decimal
	Reason     string
	Ref        entity.DocumentRef
	Notes      string
	UserID     string
}

// MovementResult resultado de un movimiento confirmado.
type MovementResult struct {
	MovementID string
	Before     decimal.Decimal
	After      decimal.Decimal
}

// RegisterMovement valida la entrada, proyecta el stock actual del scope,
// corre el guard de stock de seguridad para direcciones de salida y, si pasa,
// agrega el movimiento al libro y evalúa reorden, todo en una transacción.
// Ante rechazo del guard la operación es un no-op: nada queda en el libro.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if !entity.ValidDirection(input.Direction, input.AdjustSign) {
		if input.Direction == entity.DirectionADJUST {
			return nil, domain.NewValidationError("adjust_sign", "ADJUST exige signo IN u OUT")
		}
		return nil, domain.NewValidationError("direction", "debe ser IN, OUT o ADJUST")
	}
	if !input.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}

	site, err := uc.siteRepo.GetByID(ctx, input.SiteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	item, err := uc.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	mov := &entity.Movement{
		ID:         uuid.New().String(),
		SiteID:     input.SiteID,
		ItemID:     input.ItemID,
		Direction:  input.Direction,
		AdjustSign: input.AdjustSign,
		Quantity:   input.Quantity,
		UOM:        item.UOM,
		Batch:      input.Batch,
		Expiry:     input.Expiry,
		UnitCost:   input.UnitCost,
		Ref:        input.Ref,
		Reason:     input.Reason,
		Notes:      input.Notes,
		CreatedBy:  input.UserID,
		CreatedAt:  now,
	}
	if mov.Reason == "" {
		mov.Reason = defaultReason(mov)
	}

	var result *MovementResult
	err = runTx(ctx, uc.txRunner, func(
		movRepo repository.MovementRepository,
		_ repository.ItemRepository,
		_ repository.PurchaseOrderRepository,
		alertRepo repository.AlertRepository,
		locks ScopeLocker,
	) error {
		if err := locks.LockScope(ctx, input.SiteID, input.ItemID); err != nil {
			return err
		}
		// Proyección sobre el agregado (sede, ítem): el piso de seguridad es
		// por ítem, no por lote, así el guard ve el stock total de la sede.
		movements, err := movRepo.ListByScope(ctx, stock.Scope{SiteID: input.SiteID, ItemID: input.ItemID})
		if err != nil {
			return err
		}
		before := stock.Project(movements)
		after := before.Add(mov.SignedQuantity())

		if mov.IsDecreasing() {
			if err := stock.CheckFloor(input.SiteID, input.ItemID, item.Policy, after); err != nil {
				return err
			}
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if mov.IsDecreasing() {
			if _, err := evaluateReorder(ctx, alertRepo, item, input.SiteID, after, now); err != nil {
				return err
			}
		}
		result = &MovementResult{MovementID: mov.ID, Before: before, After: after}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// defaultReason razón por defecto según dirección.
func defaultReason(m *entity.Movement) string {
	switch m.Direction {
	case entity.DirectionIN:
		return entity.ReasonPurchase
	case entity.DirectionOUT:
		return entity.ReasonDispense
	}
	return entity.ReasonAdjustment
}

// TransferInput entrada para un traslado entre sedes del mismo ítem.
type TransferInput struct {
	FromSiteID string
	ToSiteID   string
	ItemID     string
	Quantity   decimal.Decimal
	Batch      string
	Expiry     *time.Time
	Notes      string
	UserID     string
}

// TransferResult las dos piernas del traslado confirmado.
type TransferResult struct {
	OutMovementID string
	InMovementID  string
	FromAfter     decimal.Decimal
	ToAfter       decimal.Decimal
}

// Transfer mueve stock de la sede origen a la destino como unidad atómica:
// o quedan exactamente dos movimientos (OUT en origen, IN en destino, con
// referencias cruzadas) o no queda ninguno. El guard solo aplica a la pierna
// saliente; la entrante nunca se bloquea.
func (uc *RegisterMovementUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.FromSiteID == input.ToSiteID {
		return nil, domain.NewValidationError("to_site_id", "origen y destino no pueden ser la misma sede")
	}
	if !input.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}

	fromSite, err := uc.siteRepo.GetByID(ctx, input.FromSiteID)
	if err != nil {
		return nil, err
	}
	toSite, err := uc.siteRepo.GetByID(ctx, input.ToSiteID)
	if err != nil {
		return nil, err
	}
	if fromSite == nil || toSite == nil {
		return nil, domain.ErrNotFound
	}
	item, err := uc.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	outID := uuid.New().String()
	inID := uuid.New().String()

	outMov := &entity.Movement{
		ID:        outID,
		SiteID:    input.FromSiteID,
		ItemID:    input.ItemID,
		Direction: entity.DirectionOUT,
		Quantity:  input.Quantity,
		UOM:       item.UOM,
		Batch:     input.Batch,
		Expiry:    input.Expiry,
		Ref:       entity.DocumentRef{Kind: entity.RefKindTransfer, ID: inID},
		Reason:    entity.ReasonTransferOut,
		Notes:     input.Notes,
		CreatedBy: input.UserID,
		CreatedAt: now,
	}
	inMov := &entity.Movement{
		ID:        inID,
		SiteID:    input.ToSiteID,
		ItemID:    input.ItemID,
		Direction: entity.DirectionIN,
		Quantity:  input.Quantity,
		UOM:       item.UOM,
		Batch:     input.Batch,
		Expiry:    input.Expiry,
		Ref:       entity.DocumentRef{Kind: entity.RefKindTransfer, ID: outID},
		Reason:    entity.ReasonTransferIn,
		Notes:     input.Notes,
		CreatedBy: input.UserID,
		CreatedAt: now,
	}

	var result *TransferResult
	err = runTx(ctx, uc.txRunner, func(
		movRepo repository.MovementRepository,
		_ repository.ItemRepository,
		_ repository.PurchaseOrderRepository,
		alertRepo repository.AlertRepository,
		locks ScopeLocker,
	) error {
		// Lock de ambos scopes en orden estable para no cruzar bloqueos
		// con otro traslado en sentido contrario.
		first, second := input.FromSiteID, input.ToSiteID
		if second < first {
			first, second = second, first
		}
		if err := locks.LockScope(ctx, first, input.ItemID); err != nil {
			return err
		}
		if err := locks.LockScope(ctx, second, input.ItemID); err != nil {
			return err
		}

		fromMovs, err := movRepo.ListByScope(ctx, stock.Scope{SiteID: input.FromSiteID, ItemID: input.ItemID})
		if err != nil {
			return err
		}
		fromBefore := stock.Project(fromMovs)
		fromAfter := fromBefore.Sub(input.Quantity)
		if err := stock.CheckFloor(input.FromSiteID, input.ItemID, item.Policy, fromAfter); err != nil {
			return err
		}

		toMovs, err := movRepo.ListByScope(ctx, stock.Scope{SiteID: input.ToSiteID, ItemID: input.ItemID})
		if err != nil {
			return err
		}
		toAfter := stock.Project(toMovs).Add(input.Quantity)

		if err := movRepo.CreateBatch(ctx, []*entity.Movement{outMov, inMov}); err != nil {
			return err
		}
		if _, err := evaluateReorder(ctx, alertRepo, item, input.FromSiteID, fromAfter, now); err != nil {
			return err
		}
		result = &TransferResult{
			OutMovementID: outID,
			InMovementID:  inID,
			FromAfter:     fromAfter,
			ToAfter:       toAfter,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
