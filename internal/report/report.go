package report

import (
	"context"
	"fmt"
	"time"

	"github.com/abelal/pantrylog/internal/domain"
)

// lotReader is the subset of store.LotStore the façade requires.
type lotReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Lot, error)
	List(ctx context.Context) ([]*domain.Lot, error)
	ListExpiring(ctx context.Context, cutoff time.Time) ([]*domain.Lot, error)
	AvailableQuantity(ctx context.Context, foodItemID int64) (int, error)
}

// eventReader is the subset of store.EventStore the façade requires.
type eventReader interface {
	ListByLot(ctx context.Context, lotID int64) ([]domain.Event, error)
	Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error)
}

// catalogReader is the subset of store.CatalogStore the façade requires.
type catalogReader interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service composes read-only views over the lot and event stores. All
// reads are plain snapshot queries; nothing here takes locks or mutates
// state.
type Service struct {
	lots    lotReader
	events  eventReader
	catalog catalogReader
	now     func() time.Time
}

func NewService(lots lotReader, events eventReader, catalog catalogReader) *Service {
	return &Service{lots: lots, events: events, catalog: catalog, now: time.Now}
}

// ExpiringLot is an Available lot annotated with its current expiry risk.
type ExpiringLot struct {
	domain.Lot
	Risk     domain.Risk `json:"risk"`
	DaysLeft int         `json:"days_left"`
}

// ListExpiringSoon returns Available lots expiring within thresholdDays,
// soonest first. Overdue lots the sweep has not caught yet are included
// and flagged as such.
func (s *Service) ListExpiringSoon(ctx context.Context, thresholdDays int) ([]ExpiringLot, error) {
	now := s.now()
	lots, err := s.lots.ListExpiring(ctx, now.AddDate(0, 0, thresholdDays))
	if err != nil {
		return nil, err
	}

	expiring := make([]ExpiringLot, 0, len(lots))
	for _, lot := range lots {
		risk := domain.LotRisk(*lot, now)
		if risk == domain.RiskLow || risk == domain.RiskNotApplicable {
			continue
		}
		expiring = append(expiring, ExpiringLot{
			Lot:      *lot,
			Risk:     risk,
			DaysLeft: domain.DaysLeft(lot.ExpiryAt, now),
		})
	}
	return expiring, nil
}

// GetLot returns a single lot snapshot.
func (s *Service) GetLot(ctx context.Context, lotID int64) (*domain.Lot, error) {
	lot, err := s.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("lot %d: %w", lotID, domain.ErrNotFound)
	}
	return lot, nil
}

// ListLots returns every lot, oldest first.
func (s *Service) ListLots(ctx context.Context) ([]*domain.Lot, error) {
	return s.lots.List(ctx)
}

// History returns a lot's events, oldest first.
func (s *Service) History(ctx context.Context, lotID int64) ([]domain.Event, error) {
	if _, err := s.GetLot(ctx, lotID); err != nil {
		return nil, err
	}
	return s.events.ListByLot(ctx, lotID)
}

// VerifyProjection replays a lot's history and confirms the stored row
// matches the derived state. A mismatch means the cached projection has
// drifted from the log.
func (s *Service) VerifyProjection(ctx context.Context, lotID int64) error {
	lot, err := s.GetLot(ctx, lotID)
	if err != nil {
		return err
	}
	events, err := s.events.ListByLot(ctx, lotID)
	if err != nil {
		return err
	}

	p := domain.Replay(events)
	if p.Status != lot.Status || p.Quantity != lot.Quantity {
		return fmt.Errorf("lot %d drifted from log: stored %s/%d, replayed %s/%d",
			lotID, lot.Status, lot.Quantity, p.Status, p.Quantity)
	}
	return nil
}

// CatalogUsage sums the Available quantity across all lots of one food
// item.
func (s *Service) CatalogUsage(ctx context.Context, foodItemID int64) (int, error) {
	ok, err := s.catalog.Exists(ctx, foodItemID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("food item %d: %w", foodItemID, domain.ErrUnknownFoodItem)
	}
	return s.lots.AvailableQuantity(ctx, foodItemID)
}

// RecentActivity returns the newest events across all lots for the
// activity feed.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.events.Recent(ctx, limit)
}
