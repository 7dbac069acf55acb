/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY FIELDS:
  Amounts travel as JSON strings ("1500.00") and parse into
  decimal.Decimal; floating-point JSON numbers never touch money.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kervanji/HisabX-sub001/ledger"
	"github.com/kervanji/HisabX-sub001/pos"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type SaleItemRequest struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Discount  decimal.Decimal `json:"discount"`
}

type RecordSaleRequest struct {
	CustomerID     string            `json:"customerId"`
	InvoiceNumber  string            `json:"invoiceNumber"`
	Date           time.Time         `json:"date"`
	Currency       string            `json:"currency"`
	DiscountAmount decimal.Decimal   `json:"discountAmount"`
	PaidAmount     decimal.Decimal   `json:"paidAmount"`
	Location       string            `json:"location"`
	Items          []SaleItemRequest `json:"items"`
}

type RecordVoucherRequest struct {
	Type       string          `json:"type"` // RECEIPT or PAYMENT
	CustomerID string          `json:"customerId"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Date       time.Time       `json:"date"`
	Location   string          `json:"location"`
	Notes      string          `json:"notes"`
}

type ReturnItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Condition string `json:"condition"` // UNDAMAGED or DAMAGED
}

type RecordReturnRequest struct {
	SaleID string              `json:"saleId"`
	Date   time.Time           `json:"date"`
	Reason string              `json:"reason"`
	Status string              `json:"status"`
	Items  []ReturnItemRequest `json:"items"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type CustomerDTO struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Phone    string            `json:"phone,omitempty"`
	Address  string            `json:"address,omitempty"`
	Balances map[string]string `json:"balances"`
}

func toCustomerDTO(c *pos.Customer) CustomerDTO {
	dto := CustomerDTO{
		ID:       c.ID,
		Name:     c.Name,
		Phone:    c.Phone,
		Address:  c.Address,
		Balances: make(map[string]string, len(c.BalanceByCurrency)),
	}
	for currency, balance := range c.BalanceByCurrency {
		dto.Balances[string(currency)] = balance.String()
	}
	return dto
}

type SaleItemDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Discount  string `json:"discount"`
}

type SaleDTO struct {
	ID             string        `json:"id"`
	InvoiceNumber  string        `json:"invoiceNumber,omitempty"`
	CustomerID     string        `json:"customerId"`
	Date           time.Time     `json:"date"`
	Currency       string        `json:"currency"`
	TotalAmount    string        `json:"totalAmount"`
	DiscountAmount string        `json:"discountAmount"`
	FinalAmount    string        `json:"finalAmount"`
	PaidAmount     string        `json:"paidAmount"`
	PaymentStatus  string        `json:"paymentStatus"`
	Location       string        `json:"location,omitempty"`
	Items          []SaleItemDTO `json:"items"`
}

func toSaleDTO(s *pos.Sale) SaleDTO {
	dto := SaleDTO{
		ID:             s.ID,
		InvoiceNumber:  s.InvoiceNumber,
		CustomerID:     s.CustomerID,
		Date:           s.Date,
		Currency:       string(s.Currency),
		TotalAmount:    s.TotalAmount.String(),
		DiscountAmount: s.DiscountAmount.String(),
		FinalAmount:    s.FinalAmount.String(),
		PaidAmount:     s.PaidAmount.String(),
		PaymentStatus:  string(s.PaymentStatus),
		Location:       s.Location,
		Items:          make([]SaleItemDTO, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		dto.Items = append(dto.Items, SaleItemDTO{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.String(),
			Discount:  it.Discount.String(),
		})
	}
	return dto
}

type VoucherDTO struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Number     int       `json:"number"`
	CustomerID string    `json:"customerId,omitempty"`
	Amount     string    `json:"amount"`
	Currency   string    `json:"currency"`
	Date       time.Time `json:"date"`
	Cancelled  bool      `json:"cancelled"`
	Location   string    `json:"location,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

func toVoucherDTO(v *pos.Voucher) VoucherDTO {
	return VoucherDTO{
		ID:         v.ID,
		Type:       string(v.Type),
		Number:     v.Number,
		CustomerID: v.CustomerID,
		Amount:     v.Amount.String(),
		Currency:   string(v.Currency),
		Date:       v.Date,
		Cancelled:  v.Cancelled,
		Location:   v.Location,
		Notes:      v.Notes,
	}
}

type ReturnItemDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Condition string `json:"condition"`
}

type ReturnDTO struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"saleId"`
	CustomerID  string          `json:"customerId"`
	Date        time.Time       `json:"date"`
	Currency    string          `json:"currency"`
	TotalAmount string          `json:"totalAmount"`
	Status      string          `json:"status"`
	Reason      string          `json:"reason,omitempty"`
	Items       []ReturnItemDTO `json:"items"`
}

func toReturnDTO(r *pos.SaleReturn) ReturnDTO {
	dto := ReturnDTO{
		ID:          r.ID,
		SaleID:      r.SaleID,
		CustomerID:  r.CustomerID,
		Date:        r.Date,
		Currency:    string(r.Currency),
		TotalAmount: r.TotalAmount.String(),
		Status:      string(r.Status),
		Reason:      r.Reason,
		Items:       make([]ReturnItemDTO, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		dto.Items = append(dto.Items, ReturnItemDTO{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Condition: string(it.Condition),
		})
	}
	return dto
}

type StatementItemDTO struct {
	Date        time.Time `json:"date"`
	Kind        string    `json:"kind"`
	Reference   string    `json:"reference,omitempty"`
	Description string    `json:"description"`
	Debit       string    `json:"debit"`
	Credit      string    `json:"credit"`
	Balance     string    `json:"balance"`
}

func toStatementDTO(items []ledger.Item) []StatementItemDTO {
	out := make([]StatementItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, StatementItemDTO{
			Date:        it.Date,
			Kind:        string(it.Kind),
			Reference:   it.Reference,
			Description: it.Description,
			Debit:       it.Debit.String(),
			Credit:      it.Credit.String(),
			Balance:     it.RunningBalance.String(),
		})
	}
	return out
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"` // validation, not_found, reconciliation, internal
}
