package inventory

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// PolicyUseCase escritura de la política de reposición del ítem.
// La invariante ReorderPoint >= SafetyStock se aplica aquí, al escribir la
// política, nunca al registrar movimientos.
type PolicyUseCase struct {
	itemRepo repository.ItemRepository
}

// NewPolicyUseCase construye el caso de uso.
func NewPolicyUseCase(itemRepo repository.ItemRepository) *PolicyUseCase {
	return &PolicyUseCase{itemRepo: itemRepo}
}

// UpdatePolicy valida y persiste la política del ítem.
func (uc *PolicyUseCase) UpdatePolicy(ctx context.Context, itemID string, in dto.UpdatePolicyRequest) error {
	policy := entity.ItemPolicy{
		ReorderPoint:          in.ReorderPoint,
		SafetyStock:           in.SafetyStock,
		AvgMonthlyConsumption: in.AvgMonthlyConsumption,
	}
	if !policy.Validate() {
		return domain.NewValidationError("reorder_point", "debe ser >= safety_stock y sin valores negativos")
	}
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.itemRepo.UpdatePolicy(ctx, itemID, policy)
}
