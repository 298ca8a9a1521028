package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/domain/stock"
)

// WriteOffUseCase da de baja lotes vencidos: agrupa el libro por
// (ítem, lote, vencimiento), toma los scopes vencidos con stock positivo y
// agrega un OUT con razón WRITE_OFF por cada uno que pase el guard.
// Es la única operación con éxito parcial por diseño: un scope que viola el
// piso se reporta como omitido sin tumbar a sus hermanos del mismo batch.
type WriteOffUseCase struct {
	txRunner TxRunner
	siteRepo repository.SiteRepository
	itemRepo repository.ItemRepository
}

// NewWriteOffUseCase construye el caso de uso.
func NewWriteOffUseCase(txRunner TxRunner, siteRepo repository.SiteRepository, itemRepo repository.ItemRepository) *WriteOffUseCase {
	return &WriteOffUseCase{txRunner: txRunner, siteRepo: siteRepo, itemRepo: itemRepo}
}

// WriteOffExpired ejecuta la baja por vencimiento en una sede hasta la fecha
// de corte (hoy si no se indica), opcionalmente filtrada por ítem.
func (uc *WriteOffUseCase) WriteOffExpired(ctx context.Context, in dto.WriteOffRequest, userID string) (*dto.WriteOffReport, error) {
	site, err := uc.siteRepo.GetByID(ctx, in.SiteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}

	cutoff := time.Now()
	if in.Cutoff != nil {
		cutoff = *in.Cutoff
	}

	now := time.Now()
	var report *dto.WriteOffReport
	err = runTx(ctx, uc.txRunner, func(
		movRepo repository.MovementRepository,
		itemRepo repository.ItemRepository,
		_ repository.PurchaseOrderRepository,
		alertRepo repository.AlertRepository,
		locks ScopeLocker,
	) error {
		// El reporte nace dentro del closure: un reintento por conflicto de
		// serialización parte de cero, igual que el libro tras el rollback.
		report = &dto.WriteOffReport{
			SiteID:     in.SiteID,
			Cutoff:     cutoff,
			WrittenOff: []dto.WriteOffScopeResult{},
			Skipped:    []dto.WriteOffScopeResult{},
		}

		scopes, err := movRepo.ListExpiryScopes(ctx, in.SiteID, cutoff, in.ItemID)
		if err != nil {
			return err
		}
		if len(scopes) == 0 {
			return nil
		}

		// Orden estable por (ítem, lote) para locks y reporte deterministas.
		sort.Slice(scopes, func(i, j int) bool {
			if scopes[i].ItemID != scopes[j].ItemID {
				return scopes[i].ItemID < scopes[j].ItemID
			}
			return scopes[i].Batch < scopes[j].Batch
		})

		// Stock agregado por ítem, actualizado a medida que se agregan bajas:
		// el guard de cada scope se evalúa contra el total de la sede.
		aggregate := make(map[string]decimal.Decimal)
		items := make(map[string]*entity.Item)

		for _, sc := range scopes {
			item, ok := items[sc.ItemID]
			if !ok {
				item, err = itemRepo.GetByID(ctx, sc.ItemID)
				if err != nil {
					return err
				}
				if item == nil {
					continue // ítem borrado del maestro; su historia queda en el libro
				}
				items[sc.ItemID] = item
				if err := locks.LockScope(ctx, in.SiteID, sc.ItemID); err != nil {
					return err
				}
				itemMovs, err := movRepo.ListByScope(ctx, stock.Scope{SiteID: in.SiteID, ItemID: sc.ItemID})
				if err != nil {
					return err
				}
				aggregate[sc.ItemID] = stock.Project(itemMovs)
			}

			scopeMovs, err := movRepo.ListByScope(ctx, sc)
			if err != nil {
				return err
			}
			qty := stock.Project(scopeMovs)
			if !qty.IsPositive() {
				continue
			}

			projected := aggregate[sc.ItemID].Sub(qty)
			if guardErr := stock.CheckFloor(in.SiteID, sc.ItemID, item.Policy, projected); guardErr != nil {
				var v *domain.SafetyStockViolation
				reason := guardErr.Error()
				if errors.As(guardErr, &v) {
					reason = "la baja dejaría el stock en " + v.Projected.String() + " bajo el piso " + v.Floor.String()
				}
				report.Skipped = append(report.Skipped, dto.WriteOffScopeResult{
					ItemID:     sc.ItemID,
					Batch:      sc.Batch,
					Expiry:     sc.Expiry,
					Quantity:   qty,
					Skipped:    true,
					SkipReason: reason,
				})
				continue
			}

			mov := &entity.Movement{
				ID:        uuid.New().String(),
				SiteID:    in.SiteID,
				ItemID:    sc.ItemID,
				Direction: entity.DirectionOUT,
				Quantity:  qty,
				UOM:       item.UOM,
				Batch:     sc.Batch,
				Expiry:    sc.Expiry,
				Ref:       entity.DocumentRef{Kind: entity.RefKindOther, Code: "EXPIRY"},
				Reason:    entity.ReasonWriteOff,
				Notes:     in.Notes,
				CreatedBy: userID,
				CreatedAt: now,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
			aggregate[sc.ItemID] = projected

			report.WrittenOff = append(report.WrittenOff, dto.WriteOffScopeResult{
				ItemID:     sc.ItemID,
				Batch:      sc.Batch,
				Expiry:     sc.Expiry,
				Quantity:   qty,
				MovementID: mov.ID,
			})
		}

		// Evaluar reorden una vez por ítem afectado, con el stock final.
		for itemID, current := range aggregate {
			if _, err := evaluateReorder(ctx, alertRepo, items[itemID], in.SiteID, current, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
