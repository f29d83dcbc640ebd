package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	ErrOrderFailed          = errors.New("order request failed")
	ErrSubmissionInProgress = errors.New("an order submission is already pending")
)

// OrderCreator sends an order to the backend on behalf of the token holder.
type OrderCreator interface {
	CreateOrder(ctx context.Context, token string, req OrderRequest) (OrderResult, error)
}

// Flow runs checkout submissions. One Flow backs one checkout screen.
type Flow struct {
	creator    OrderCreator
	dispatcher Dispatcher
	logger     *zap.SugaredLogger
	pending    atomic.Bool
}

func NewFlow(creator OrderCreator, dispatcher Dispatcher, logger *zap.SugaredLogger) *Flow {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Flow{
		creator:    creator,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Pending reports whether a submission is waiting on the backend.
func (f *Flow) Pending() bool {
	return f.pending.Load()
}

// Submit validates the form against the cart and, when it is accepted, posts
// the order. Rejected input comes back as ValidationErrors with nothing sent
// and nothing dispatched. Any backend failure is reported as ErrOrderFailed
// after a single OrderRequestFailed signal.
func (f *Flow) Submit(ctx context.Context, form PaymentForm, cart CartSnapshot, token string) (OrderResult, error) {
	if errs := Validate(form, cart); !errs.Valid() {
		f.logger.Infow("checkout rejected", "errors", len(errs), "first", errs[0].Code)
		return nil, errs
	}

	if !f.pending.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInProgress
	}
	defer f.pending.Store(false)

	f.dispatcher.Dispatch(Event{Type: OrderRequestStarted})

	req := NewOrderRequest(form, cart)
	order, err := f.creator.CreateOrder(ctx, token, req)
	if err != nil {
		f.logger.Errorw("order request failed", "name", req.Name, "total", Total(cart).String(), "err", err)
		f.dispatcher.Dispatch(Event{Type: OrderRequestFailed})
		return nil, fmt.Errorf("%w: %v", ErrOrderFailed, err)
	}

	f.logger.Infow("order created", "name", req.Name, "total", Total(cart).String(),
		"change", Change(form.Cash, cart.SubTotal).String())
	f.dispatcher.Dispatch(Event{Type: OrderRequestSucceeded, Order: order})

	return order, nil
}
