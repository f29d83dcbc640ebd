package orders

import (
	"context"
	"errors"
	"time"

	"foodstore/internal/checkout"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

// Order is a stored cash order. Money fields are snapshotted at creation.
type Order struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"order_number"`
	CashierID   int64           `json:"cashier_id"`
	Name        string          `json:"name"`
	Cash        decimal.Decimal `json:"cash"`
	SubTotal    decimal.Decimal `json:"sub_total"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	Change      decimal.Decimal `json:"change"`
	CreatedAt   time.Time       `json:"created_at"`
	Details     []OrderItem     `json:"details,omitempty"`
}

// Items from order_details table
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Store interface {
	Create(ctx context.Context, cashierID int64, req checkout.OrderRequest) (*Order, error)
	GetByID(ctx context.Context, cashierID, orderID int64) (*Order, error)
	ListByCashier(ctx context.Context, cashierID int64, limit, offset int) ([]Order, int, error)
}

// NewOrder builds the unsaved order for req. Total and change use the same
// rules as the checkout screen.
func NewOrder(cashierID int64, orderNumber string, req checkout.OrderRequest) *Order {
	o := &Order{
		OrderNumber: orderNumber,
		CashierID:   cashierID,
		Name:        req.Name,
		Cash:        req.Cash,
		SubTotal:    req.SubTotal,
		Tax:         req.Tax,
		Total:       checkout.Total(req.Cart()),
		Change:      checkout.Change(req.Cash, req.SubTotal),
		Details:     make([]OrderItem, 0, len(req.Details)),
	}

	for _, item := range req.Details {
		o.Details = append(o.Details, OrderItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: checkout.LineTotal(item),
		})
	}

	return o
}
