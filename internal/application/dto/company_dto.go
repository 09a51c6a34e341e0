package dto

import "time"

// UpdateCompanyRequest entrada para actualizar la configuración fiscal (campos opcionales).
type UpdateCompanyRequest struct {
	Name         *string `json:"name"`
	IIBBNumber   *string `json:"iibb_number"`
	IVACondition *int    `json:"iva_condition"`
	PointOfSale  *int    `json:"point_of_sale"`
	ARBAAgent    *bool   `json:"arba_agent"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
}

// CompanyResponse configuración de la empresa.
type CompanyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CUIT         string    `json:"cuit"`
	IIBBNumber   string    `json:"iibb_number,omitempty"`
	IVACondition int       `json:"iva_condition"`
	PointOfSale  int       `json:"point_of_sale"`
	ARBAAgent    bool      `json:"arba_agent"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateCompanyRequest entrada para dar de alta la empresa.
type CreateCompanyRequest struct {
	Name         string `json:"name" validate:"required,max=150"`
	CUIT         string `json:"cuit" validate:"required"`
	IIBBNumber   string `json:"iibb_number"`
	IVACondition int    `json:"iva_condition"`
	PointOfSale  int    `json:"point_of_sale"`
	ARBAAgent    bool   `json:"arba_agent"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}
