package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.SiteRepository = (*SiteRepo)(nil)
var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SiteRepo sedes sobre PostgreSQL (usable con pool o tx).
type SiteRepo struct {
	q Querier
}

// NewSiteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSiteRepository(q Querier) *SiteRepo {
	return &SiteRepo{q: q}
}

// GetByID obtiene una sede. Devuelve nil si no existe.
func (r *SiteRepo) GetByID(ctx context.Context, id string) (*entity.Site, error) {
	query := `SELECT id, code, name, kind, address, created_at, updated_at FROM sites WHERE id = $1`
	var s entity.Site
	var address *string
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Code, &s.Name, &s.Kind, &address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	s.Address = deref(address)
	return &s, nil
}

// SupplierRepo proveedores sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// GetByID obtiene un proveedor. Devuelve nil si no existe.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	query := `SELECT id, name, tax_id, email, phone, created_at, updated_at FROM suppliers WHERE id = $1`
	var s entity.Supplier
	var taxID, email, phone *string
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &taxID, &email, &phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	s.TaxID = deref(taxID)
	s.Email = deref(email)
	s.Phone = deref(phone)
	return &s, nil
}
