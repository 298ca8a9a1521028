package entity

import "time"

// Supplier proveedor de medicamentos (dato de referencia para propuestas de reposición).
type Supplier struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
