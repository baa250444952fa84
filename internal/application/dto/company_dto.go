package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa (solo super_admin).
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	RUT  string `json:"rut" validate:"required,min=3,max=12"`
}

// UpdateCompanyRequest entrada para actualizar una empresa. El RUT no cambia.
type UpdateCompanyRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RUT       string    `json:"rut"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
