package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/abelal/pantrylog/internal/domain"
)

// SystemActor is recorded on events emitted by the expiry sweep.
const SystemActor = "system"

// maxConflictRetries bounds how often a command is retried internally on a
// version conflict before the conflict surfaces to the caller.
const maxConflictRetries = 3

// catalogRepository is the subset of store.CatalogStore the engine requires.
type catalogRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// lotRepository is the subset of store.LotStore the engine requires.
type lotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Lot, error)
	ListExpiring(ctx context.Context, cutoff time.Time) ([]*domain.Lot, error)
	CreateWithEvent(ctx context.Context, lot domain.Lot, ev domain.Event) (*domain.Lot, *domain.Event, error)
	ApplyChange(ctx context.Context, lotID, expectedVersion int64, p domain.Projection, ev domain.Event) (*domain.Lot, *domain.Event, error)
}

// eventRepository is the subset of store.EventStore the engine requires.
type eventRepository interface {
	ListByLot(ctx context.Context, lotID int64) ([]domain.Event, error)
}

// Engine is the sole authority for lot state transitions. Every successful
// command writes exactly one event atomically with the lot mutation; all
// validation happens before anything is written.
type Engine struct {
	catalog catalogRepository
	lots    lotRepository
	events  eventRepository
	locks   *lockTable
	sweepMu sync.Mutex
	now     func() time.Time
}

func NewEngine(catalog catalogRepository, lots lotRepository, events eventRepository) *Engine {
	return &Engine{
		catalog: catalog,
		lots:    lots,
		events:  events,
		locks:   newLockTable(),
		now:     time.Now,
	}
}

// Result is the outcome of a successful command: the updated lot snapshot
// and the event it emitted.
type Result struct {
	Lot   *domain.Lot   `json:"lot"`
	Event *domain.Event `json:"event"`
}

// CreateLot validates and creates a new Available lot, emitting its Added
// event.
func (e *Engine) CreateLot(ctx context.Context, actor string, foodItemID int64, quantity int, purchasedAt, expiryAt time.Time, notes string) (*Result, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity %d: %w", quantity, domain.ErrInvalidQuantity)
	}
	if expiryAt.Before(purchasedAt) {
		return nil, fmt.Errorf("expiry %s before purchase %s: %w",
			expiryAt.Format(time.RFC3339), purchasedAt.Format(time.RFC3339), domain.ErrInvalidDateRange)
	}
	ok, err := e.catalog.Exists(ctx, foodItemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("food item %d: %w", foodItemID, domain.ErrUnknownFoodItem)
	}

	lot := domain.Lot{
		FoodItemID:  foodItemID,
		Quantity:    quantity,
		PurchasedAt: purchasedAt,
		ExpiryAt:    expiryAt,
		Status:      domain.StatusAvailable,
		Notes:       notes,
	}
	ev := domain.Event{
		Action:        domain.ActionAdded,
		QuantityDelta: quantity,
		OccurredAt:    e.now(),
		Actor:         actor,
	}

	created, emitted, err := e.lots.CreateWithEvent(ctx, lot, ev)
	if err != nil {
		return nil, err
	}
	return &Result{Lot: created, Event: emitted}, nil
}

// AdjustQuantity sets an Available lot's quantity. Adjusting to zero means
// the lot is fully used up and transitions it to Consumed.
func (e *Engine) AdjustQuantity(ctx context.Context, actor string, lotID int64, newQuantity int) (*Result, error) {
	if newQuantity < 0 {
		return nil, fmt.Errorf("quantity %d: %w", newQuantity, domain.ErrInvalidQuantity)
	}
	return e.mutate(ctx, lotID, func(lot *domain.Lot) domain.Event {
		if newQuantity == 0 {
			return domain.Event{
				Action:        domain.ActionConsumed,
				QuantityDelta: -lot.Quantity,
				OccurredAt:    e.now(),
				Actor:         actor,
			}
		}
		return domain.Event{
			Action:        domain.ActionQuantityAdjusted,
			QuantityDelta: newQuantity - lot.Quantity,
			OccurredAt:    e.now(),
			Actor:         actor,
		}
	})
}

// MarkConsumed retires an Available lot as fully consumed.
func (e *Engine) MarkConsumed(ctx context.Context, actor string, lotID int64) (*Result, error) {
	return e.terminate(ctx, actor, lotID, domain.ActionConsumed)
}

// MarkExpired retires an Available lot as expired.
func (e *Engine) MarkExpired(ctx context.Context, actor string, lotID int64) (*Result, error) {
	return e.terminate(ctx, actor, lotID, domain.ActionExpired)
}

// Remove retires an Available lot by manual removal.
func (e *Engine) Remove(ctx context.Context, actor string, lotID int64) (*Result, error) {
	return e.terminate(ctx, actor, lotID, domain.ActionRemoved)
}

func (e *Engine) terminate(ctx context.Context, actor string, lotID int64, action domain.Action) (*Result, error) {
	return e.mutate(ctx, lotID, func(lot *domain.Lot) domain.Event {
		return domain.Event{
			Action:        action,
			QuantityDelta: -lot.Quantity,
			OccurredAt:    e.now(),
			Actor:         actor,
		}
	})
}

// ExpirySweep transitions every Available lot past its expiry date to
// Expired, exactly as MarkExpired would, with the system actor. Terminal
// lots are skipped, so running the sweep again emits nothing. At most one
// sweep runs at a time.
func (e *Engine) ExpirySweep(ctx context.Context, now time.Time) ([]*Result, error) {
	e.sweepMu.Lock()
	defer e.sweepMu.Unlock()

	due, err := e.lots.ListExpiring(ctx, now)
	if err != nil {
		return nil, err
	}

	var results []*Result
	for _, lot := range due {
		res, err := e.mutate(ctx, lot.ID, func(l *domain.Lot) domain.Event {
			return domain.Event{
				Action:        domain.ActionExpired,
				QuantityDelta: -l.Quantity,
				OccurredAt:    now,
				Actor:         SystemActor,
			}
		})
		if err != nil {
			// A manual transition won the race for this lot; it is
			// already terminal and needs nothing from the sweep.
			if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// mutate runs one state-changing command against an existing lot under the
// per-lot lock. It re-reads the lot, rejects terminal states, builds the
// event via buildEvent, and applies event and projected state atomically.
// Version conflicts (a concurrent writer outside this process) are retried
// a bounded number of times against a fresh read before surfacing.
func (e *Engine) mutate(ctx context.Context, lotID int64, buildEvent func(*domain.Lot) domain.Event) (*Result, error) {
	e.locks.acquire(lotID)
	defer e.locks.release(lotID)

	var res *Result
	backoff := retry.WithMaxRetries(maxConflictRetries, retry.NewConstant(25*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		lot, err := e.lots.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("lot %d: %w", lotID, domain.ErrNotFound)
		}
		if lot.Status.Terminal() {
			return fmt.Errorf("lot %d is %s: %w", lotID, lot.Status, domain.ErrInvalidTransition)
		}

		r, err := e.apply(ctx, lot, buildEvent(lot))
		if err != nil {
			if errors.Is(err, domain.ErrConcurrentModification) {
				return retry.RetryableError(err)
			}
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// apply recomputes the lot's state as a projection of its full event
// stream including the new event, then writes projection and event in one
// transaction. The cached row is never trusted as independent truth.
func (e *Engine) apply(ctx context.Context, lot *domain.Lot, ev domain.Event) (*Result, error) {
	history, err := e.events.ListByLot(ctx, lot.ID)
	if err != nil {
		return nil, err
	}
	projected := domain.Replay(append(history, ev))

	updated, emitted, err := e.lots.ApplyChange(ctx, lot.ID, lot.Version, projected, ev)
	if err != nil {
		return nil, err
	}
	return &Result{Lot: updated, Event: emitted}, nil
}
