package report

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelal/pantrylog/internal/db"
	"github.com/abelal/pantrylog/internal/domain"
	"github.com/abelal/pantrylog/internal/lifecycle"
	"github.com/abelal/pantrylog/internal/store"
)

type fixture struct {
	svc    *Service
	engine *lifecycle.Engine
	db     *sql.DB
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	catalog := store.NewCatalogStore(d)
	lots := store.NewLotStore(d)
	events := store.NewEventStore(d)

	svc := NewService(lots, events, catalog)
	svc.now = func() time.Time { return now }

	return &fixture{
		svc:    svc,
		engine: lifecycle.NewEngine(catalog, lots, events),
		db:     d,
	}
}

func (f *fixture) seedItem(t *testing.T, name string) *domain.FoodItem {
	t.Helper()
	item, err := store.NewCatalogStore(f.db).Create(context.Background(), name, domain.CategoryVegetable, 7, 30)
	require.NoError(t, err)
	return item
}

func (f *fixture) seedLot(t *testing.T, itemID int64, quantity int, purchased, expiry time.Time) *domain.Lot {
	t.Helper()
	res, err := f.engine.CreateLot(context.Background(), "test", itemID, quantity, purchased, expiry, "")
	require.NoError(t, err)
	return res.Lot
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestListExpiringSoon(t *testing.T) {
	now := date(2025, 11, 23)
	f := newFixture(t, now)
	ctx := context.Background()
	item := f.seedItem(t, "Tomato")

	high := f.seedLot(t, item.ID, 5, date(2025, 11, 18), date(2025, 11, 25))    // 2 days: High
	medium := f.seedLot(t, item.ID, 3, date(2025, 11, 20), date(2025, 11, 28))  // 5 days: Medium
	f.seedLot(t, item.ID, 4, date(2025, 11, 22), date(2025, 12, 20))            // Low, excluded
	overdue := f.seedLot(t, item.ID, 2, date(2025, 11, 10), date(2025, 11, 22)) // past expiry, unswept

	expiring, err := f.svc.ListExpiringSoon(ctx, 7)
	require.NoError(t, err)
	require.Len(t, expiring, 3)

	// Ascending by expiry date.
	assert.Equal(t, overdue.ID, expiring[0].ID)
	assert.Equal(t, domain.RiskOverdue, expiring[0].Risk)
	assert.Equal(t, high.ID, expiring[1].ID)
	assert.Equal(t, domain.RiskHigh, expiring[1].Risk)
	assert.Equal(t, 2, expiring[1].DaysLeft)
	assert.Equal(t, medium.ID, expiring[2].ID)
	assert.Equal(t, domain.RiskMedium, expiring[2].Risk)
}

func TestListExpiringSoonSkipsTerminal(t *testing.T) {
	now := date(2025, 11, 23)
	f := newFixture(t, now)
	ctx := context.Background()
	item := f.seedItem(t, "Tomato")

	lot := f.seedLot(t, item.ID, 5, date(2025, 11, 18), date(2025, 11, 25))
	_, err := f.engine.MarkConsumed(ctx, "alice", lot.ID)
	require.NoError(t, err)

	expiring, err := f.svc.ListExpiringSoon(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, expiring)
}

func TestGetLot(t *testing.T) {
	now := date(2025, 11, 23)
	f := newFixture(t, now)
	ctx := context.Background()
	item := f.seedItem(t, "Tomato")

	lot := f.seedLot(t, item.ID, 5, date(2025, 11, 18), date(2025, 11, 25))

	got, err := f.svc.GetLot(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, lot.ID, got.ID)

	_, err = f.svc.GetLot(ctx, 99999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistory(t *testing.T) {
	now := date(2025, 11, 23)
	f := newFixture(t, now)
	ctx := context.Background()
	item := f.seedItem(t, "Tomato")

	lot := f.seedLot(t, item.ID, 5, date(2025, 11, 18), date(2025, 11, 25))
	_, err := f.engine.AdjustQuantity(ctx, "alice", lot.ID, 2)
	require.NoError(t, err)
	_, err = f.engine.MarkConsumed(ctx, "alice", lot.ID)
	require.NoError(t, err)

	history, err := f.svc.History(ctx, lot.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.ActionAdded, history[0].Action)
	assert.Equal(t, domain.ActionQuantityAdjusted, history[1].Action)
	assert.Equal(t, domain.ActionConsumed, history[2].Action)

	// Summing deltas reconstructs the terminal state.
	total := 0
	for _, ev := range history {
		total += ev.QuantityDelta
	}
	assert.Zero(t, total)

	_, err = f.svc.History(ctx, 99999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyProjection(t *testing.T) {
	now := date(2025, 11, 23)
	f := newFixture(t, now)
	ctx := context.Background()
	item := f.seedItem(t, "Tomato")

	lot := f.seedLot(t, item.ID, 5, date(2025, 11, 18), date(2025, 11, 25))
	_, err := f.engine.AdjustQuantity(ctx, "alice", lot.ID, 3)
	require.NoError(t, err)

	assert.NoError(t, f.svc.VerifyProjection(ctx, lot.ID))
}

func TestVerifyProjectionDetectsDrift(t *testing.T) {
	now := date(2025, 11, 23)
	f := newFixture(t, now)
	ctx := context.Background()
	item := f.seedItem(t, "Tomato")

	lot := f.seedLot(t, item.ID, 5, date(2025, 11, 18), date(2025, 11, 25))

	// Corrupt the cached row behind the engine's back.
	_, err := f.db.ExecContext(ctx, `UPDATE lots SET quantity = 99 WHERE id = ?`, lot.ID)
	require.NoError(t, err)

	err = f.svc.VerifyProjection(ctx, lot.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drifted")
}

func TestCatalogUsage(t *testing.T) {
	now := date(2025, 11, 23)
	f := newFixture(t, now)
	ctx := context.Background()
	tomato := f.seedItem(t, "Tomato")
	carrot := f.seedItem(t, "Carrot")

	f.seedLot(t, tomato.ID, 5, date(2025, 11, 18), date(2025, 11, 25))
	f.seedLot(t, tomato.ID, 3, date(2025, 11, 20), date(2025, 11, 27))
	f.seedLot(t, carrot.ID, 9, date(2025, 11, 20), date(2025, 11, 30))

	consumed := f.seedLot(t, tomato.ID, 2, date(2025, 11, 20), date(2025, 11, 27))
	_, err := f.engine.MarkConsumed(ctx, "alice", consumed.ID)
	require.NoError(t, err)

	usage, err := f.svc.CatalogUsage(ctx, tomato.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, usage)

	_, err = f.svc.CatalogUsage(ctx, 99999)
	assert.ErrorIs(t, err, domain.ErrUnknownFoodItem)
}

func TestRecentActivity(t *testing.T) {
	now := date(2025, 11, 23)
	f := newFixture(t, now)
	ctx := context.Background()
	item := f.seedItem(t, "Tomato")

	lot := f.seedLot(t, item.ID, 5, date(2025, 11, 18), date(2025, 11, 25))
	_, err := f.engine.MarkConsumed(ctx, "alice", lot.ID)
	require.NoError(t, err)

	feed, err := f.svc.RecentActivity(ctx, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, domain.ActionConsumed, feed[0].Action, "newest first")
	assert.Equal(t, "Tomato", feed[0].FoodItemName)
}
