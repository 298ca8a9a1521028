package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// SiteRepository sedes (lectura; el CRUD vive fuera del core).
type SiteRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Site, error)
}

// SupplierRepository proveedores (lectura; dato de referencia para propuestas).
type SupplierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
}
