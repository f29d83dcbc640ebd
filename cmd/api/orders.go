package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"foodstore/internal/checkout"
	"foodstore/internal/domain/orders"
	"foodstore/internal/params"

	"github.com/go-chi/chi/v5"
)

// POST /v1/order {name, cash, sub_total, tax, details}
func (app *application) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var payload checkout.OrderRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if errs := checkout.ValidateOrderRequest(payload); !errs.Valid() {
		app.metrics.Rejected.WithLabelValues(string(errs[0].Code)).Inc()
		app.failedValidationResponse(w, r, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cashier := getCashierFromContext(r)

	start := time.Now()
	order, err := app.store.Orders.Create(ctx, cashier.ID, payload)
	app.metrics.ObserveSince(start)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.metrics.Created.Inc()

	app.logger.Infow("order created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"cashier_id", cashier.ID,
		"total", order.Total.String(),
		"change", order.Change.String(),
	)

	if err := app.jsonResponse(w, http.StatusCreated, order); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GET /v1/orders?page=1&limit=15
func (app *application) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cashier := getCashierFromContext(r)
	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Orders.ListByCashier(ctx, cashier.ID, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"orders":     list,
		"pagination": p,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GET /v1/orders/{orderID}
func (app *application) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || orderID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid orderID"))
		return
	}

	cashier := getCashierFromContext(r)

	order, err := app.store.Orders.GetByID(ctx, cashier.ID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, order); err != nil {
		app.internalServerError(w, r, err)
	}
}
