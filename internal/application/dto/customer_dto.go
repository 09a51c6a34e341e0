package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	BusinessName string          `json:"business_name" validate:"required,max=150"`
	CUIT         string          `json:"cuit" validate:"required"`
	IVACondition int             `json:"iva_condition" validate:"required"`
	ARBAAliquot  decimal.Decimal `json:"arba_aliquot"`
	Email        string          `json:"email,omitempty" validate:"omitempty,email,max=150"`
	Phone        string          `json:"phone,omitempty" validate:"max=30"`
	Address      string          `json:"address,omitempty" validate:"max=200"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	BusinessName     string          `json:"business_name"`
	CUIT             string          `json:"cuit"` // XX-XXXXXXXX-X
	IVACondition     int             `json:"iva_condition"`
	IVAConditionName string          `json:"iva_condition_name"`
	ARBAAliquot      decimal.Decimal `json:"arba_aliquot"`
	Email            string          `json:"email,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	Address          string          `json:"address,omitempty"`
}

// CreateVendorRequest body para POST /api/vendors.
type CreateVendorRequest struct {
	Name              string          `json:"name" validate:"required,max=100"`
	CUIT              string          `json:"cuit" validate:"required"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
}

// VendorResponse vendedor en respuestas.
type VendorResponse struct {
	ID                string          `json:"id"`
	CompanyID         string          `json:"company_id"`
	Name              string          `json:"name"`
	CUIT              string          `json:"cuit"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	Active            bool            `json:"active"`
}
