package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuoteRequest body para POST /api/quotes.
// Number es opcional: si va vacío se genera P-<unix>.
type CreateQuoteRequest struct {
	Number         string             `json:"number,omitempty" validate:"max=50"`
	CustomerID     string             `json:"customer_id" validate:"required,uuid"`
	SellerID       string             `json:"seller_id,omitempty" validate:"omitempty,uuid"`
	IssueDate      *time.Time         `json:"issue_date,omitempty"`      // por defecto, ahora
	ExpirationDate *time.Time         `json:"expiration_date,omitempty"` // por defecto, QUOTE_DEFAULT_VALIDITY_DAYS
	Notes          string             `json:"notes,omitempty" validate:"max=500"`
	Lines          []QuoteLineRequest `json:"lines" validate:"dive"`
}

// QuoteLineRequest línea de presupuesto. Con SeedPrice el precio unitario se toma de la
// lista de precios vigente y UnitPrice se ignora.
type QuoteLineRequest struct {
	ProductID       string          `json:"product_id" validate:"required,uuid"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	SeedPrice       bool            `json:"seed_price,omitempty"`
}

// UpdateQuoteLineRequest body para PUT /api/quotes/:id/lines/:lineId.
type UpdateQuoteLineRequest struct {
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	Version         int64           `json:"version"`
}

// QuoteActionRequest body opcional de las acciones (emit, approve, ...): versión leída por el cliente.
// Version 0 omite el control de concurrencia del lado del cliente.
type QuoteActionRequest struct {
	Version int64 `json:"version,omitempty"`
}

// CopyQuoteRequest body para POST /api/quotes/:id/copy.
type CopyQuoteRequest struct {
	Number string `json:"number,omitempty" validate:"max=50"`
}

// QuoteResponse presupuesto completo.
type QuoteResponse struct {
	ID                   string              `json:"id"`
	CompanyID            string              `json:"company_id"`
	Number               string              `json:"number"`
	CustomerID           string              `json:"customer_id"`
	SellerID             string              `json:"seller_id,omitempty"`
	ParentQuoteID        string              `json:"parent_quote_id,omitempty"`
	IssueDate            time.Time           `json:"issue_date"`
	ExpirationDate       *time.Time          `json:"expiration_date,omitempty"`
	EmittedAt            *time.Time          `json:"emitted_at,omitempty"`
	State                string              `json:"state"`      // estado efectivo (incluye VENCIDO)
	StateCode            int                 `json:"state_code"` // código del estado efectivo
	Notes                string              `json:"notes,omitempty"`
	Subtotal             decimal.Decimal     `json:"subtotal"`
	TotalTax             decimal.Decimal     `json:"total_tax"`
	TaxWithholdingAmount decimal.Decimal     `json:"tax_withholding_amount"`
	Total                decimal.Decimal     `json:"total"`
	Version              int64               `json:"version"`
	Lines                []QuoteLineResponse `json:"lines"`
}

// QuoteLineResponse línea en la respuesta.
type QuoteLineResponse struct {
	ID              string          `json:"id"`
	LineNumber      int             `json:"line_number"`
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
}

// QuoteSummary fila del listado.
type QuoteSummary struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	CustomerID string          `json:"customer_id"`
	IssueDate  time.Time       `json:"issue_date"`
	State      string          `json:"state"`
	Total      decimal.Decimal `json:"total"`
}

// QuoteListResponse lista paginada de presupuestos.
type QuoteListResponse struct {
	Items []QuoteSummary `json:"items"`
	Page  PageResponse   `json:"page"`
}
