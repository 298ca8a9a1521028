package entity

import "time"

// Tipos de sede.
const (
	SiteKindWarehouse = "WAREHOUSE"
	SiteKindPharmacy  = "PHARMACY"
)

// Site representa una sede (bodega central o farmacia hospitalaria) con inventario propio.
type Site struct {
	ID        string
	Code      string
	Name      string
	Kind      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
