package orders

import (
	"context"
	"errors"
	"log"

	"github.com/cartbound/storefront-golang/internal/payment"
)

// Result reports what finalization did with an event.
type Result struct {
	OrderID   int64
	Duplicate bool
}

// PostCommitHook runs after the finalization transaction has
// committed. Hooks are fire-and-forget: each one is isolated in its
// own error boundary and can neither reverse the committed order nor
// affect the webhook response.
type PostCommitHook func(ctx context.Context, ev *payment.Event, orderID int64)

// Finalizer turns a verified checkout event into a persisted order.
// It is the idempotency guard plus the transactional order creation
// from the webhook pipeline.
type Finalizer struct {
	store Store
	hooks []PostCommitHook
}

func NewFinalizer(store Store, hooks ...PostCommitHook) *Finalizer {
	return &Finalizer{store: store, hooks: hooks}
}

// Process handles one delivery of a checkout event.
//
// Deliveries are at-least-once, so the session is first looked up; a
// hit means a previous delivery already created the order and this one
// is a no-op success. The lookup has a check-then-act gap under
// concurrent redelivery — the unique index on external_session_id is
// the real guarantee, and its violation surfaces here as
// ErrDuplicateSession, also treated as success. Hooks run only on the
// delivery that actually created the order.
func (f *Finalizer) Process(ctx context.Context, ev *payment.Event) (Result, error) {
	orderID, err := f.store.FindBySessionID(ctx, ev.SessionID)
	if err == nil {
		log.Printf("[webhook] session %s already finalized as order %d, skipping", ev.SessionID, orderID)
		return Result{OrderID: orderID, Duplicate: true}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Result{}, err
	}

	orderID, err = f.store.Create(ctx, ev)
	if errors.Is(err, ErrDuplicateSession) {
		log.Printf("[webhook] session %s lost the insert race, treating as duplicate", ev.SessionID)
		return Result{Duplicate: true}, nil
	}
	if err != nil {
		return Result{}, err
	}

	for _, hook := range f.hooks {
		f.runHook(ctx, hook, ev, orderID)
	}

	return Result{OrderID: orderID}, nil
}

// runHook isolates one hook so a panic or failure inside it cannot
// affect the committed transaction or the remaining hooks.
func (f *Finalizer) runHook(ctx context.Context, hook PostCommitHook, ev *payment.Event, orderID int64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[webhook] post-commit hook panicked for order %d: %v", orderID, r)
		}
	}()
	hook(ctx, ev, orderID)
}
