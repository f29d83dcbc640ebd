package checkout

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as bare JSON numbers: {"cash":60000}, not {"cash":"60000"}.
	decimal.MarshalJSONWithoutQuotes = true
}

// LineItem is a single menu entry in the cart.
type LineItem struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Quantity int             `json:"quantity" validate:"gte=1"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
}

// CartSnapshot is the cart as the checkout screen sees it. It is owned by the
// caller and never modified here.
type CartSnapshot struct {
	LineItems []LineItem      `json:"menus"`
	SubTotal  decimal.Decimal `json:"sub_total"`
	Tax       decimal.Decimal `json:"tax"`
}

// PaymentForm holds what the payer typed into the form.
type PaymentForm struct {
	Name string          `json:"name" validate:"required,max=255"`
	Cash decimal.Decimal `json:"cash" validate:"required,gt=0"`
}

// OrderRequest is the body of POST /order.
type OrderRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Cash     decimal.Decimal `json:"cash" validate:"required,gt=0"`
	SubTotal decimal.Decimal `json:"sub_total" validate:"gte=0"`
	Tax      decimal.Decimal `json:"tax" validate:"gte=0"`
	Details  []LineItem      `json:"details" validate:"required,min=1,dive"`
}

// NewOrderRequest merges the form with the cart totals and line items.
func NewOrderRequest(form PaymentForm, cart CartSnapshot) OrderRequest {
	details := make([]LineItem, len(cart.LineItems))
	copy(details, cart.LineItems)

	return OrderRequest{
		Name:     form.Name,
		Cash:     form.Cash,
		SubTotal: cart.SubTotal,
		Tax:      cart.Tax,
		Details:  details,
	}
}

// Form returns the payer part of the request.
func (r OrderRequest) Form() PaymentForm {
	return PaymentForm{Name: r.Name, Cash: r.Cash}
}

// Cart returns the cart part of the request.
func (r OrderRequest) Cart() CartSnapshot {
	return CartSnapshot{LineItems: r.Details, SubTotal: r.SubTotal, Tax: r.Tax}
}

// OrderResult is the payload returned by the order endpoint. It is passed
// through without interpretation.
type OrderResult = json.RawMessage
