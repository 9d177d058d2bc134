package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/abelal/pantrylog/internal/domain"
)

// LotStore owns inventory lot rows. All writes go through CreateWithEvent
// and ApplyChange, each of which inserts exactly one event row in the same
// transaction as the lot mutation. A lot row and its log can therefore
// never diverge partially.
type LotStore struct {
	db *sql.DB
}

func NewLotStore(db *sql.DB) *LotStore {
	return &LotStore{db: db}
}

const lotColumns = `id, food_item_id, quantity, purchased_at, expiry_at, status, notes, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLot(row rowScanner) (*domain.Lot, error) {
	lot := &domain.Lot{}
	err := row.Scan(&lot.ID, &lot.FoodItemID, &lot.Quantity, &lot.PurchasedAt, &lot.ExpiryAt,
		&lot.Status, &lot.Notes, &lot.Version, &lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return lot, nil
}

func (s *LotStore) GetByID(ctx context.Context, id int64) (*domain.Lot, error) {
	lot, err := scanLot(s.db.QueryRowContext(ctx, `
		SELECT `+lotColumns+` FROM lots WHERE id = ?
	`, id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get lot", err)
	}

	return lot, nil
}

func (s *LotStore) List(ctx context.Context) ([]*domain.Lot, error) {
	return s.queryLots(ctx, `SELECT `+lotColumns+` FROM lots ORDER BY id ASC`)
}

// ListExpiring returns Available lots whose expiry date is at or before
// cutoff, soonest first.
func (s *LotStore) ListExpiring(ctx context.Context, cutoff time.Time) ([]*domain.Lot, error) {
	return s.queryLots(ctx, `
		SELECT `+lotColumns+` FROM lots
		WHERE status = ? AND expiry_at <= ?
		ORDER BY expiry_at ASC, id ASC
	`, domain.StatusAvailable, cutoff)
}

// AvailableQuantity sums the remaining quantity across Available lots of
// one food item.
func (s *LotStore) AvailableQuantity(ctx context.Context, foodItemID int64) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM lots
		WHERE food_item_id = ? AND status = ?
	`, foodItemID, domain.StatusAvailable).Scan(&total)
	if err != nil {
		return 0, storageErr("sum available quantity", err)
	}
	return total, nil
}

func (s *LotStore) queryLots(ctx context.Context, query string, args ...any) ([]*domain.Lot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list lots", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var lots []*domain.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, storageErr("scan lot", err)
		}
		lots = append(lots, lot)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate lots", err)
	}

	return lots, nil
}

// CreateWithEvent inserts a new lot row and its Added event atomically.
func (s *LotStore) CreateWithEvent(ctx context.Context, lot domain.Lot, ev domain.Event) (*domain.Lot, *domain.Event, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, storageErr("begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO lots (food_item_id, quantity, purchased_at, expiry_at, status, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, lot.FoodItemID, lot.Quantity, lot.PurchasedAt, lot.ExpiryAt, lot.Status, lot.Notes)
	if err != nil {
		return nil, nil, storageErr("insert lot", err)
	}

	lotID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, storageErr("get lot id", err)
	}
	ev.LotID = lotID

	inserted, err := insertEvent(ctx, tx, ev)
	if err != nil {
		return nil, nil, err
	}

	created, err := scanLot(tx.QueryRowContext(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = ?`, lotID))
	if err != nil {
		return nil, nil, storageErr("read back lot", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, storageErr("commit", err)
	}

	return created, inserted, nil
}

// ApplyChange writes a projected lot state and its event atomically. The
// update is guarded by a compare-and-swap on the version column; if another
// writer got there first the row no longer matches expectedVersion and the
// call fails with domain.ErrConcurrentModification without touching
// anything.
func (s *LotStore) ApplyChange(ctx context.Context, lotID, expectedVersion int64, p domain.Projection, ev domain.Event) (*domain.Lot, *domain.Event, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, storageErr("begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE lots
		SET quantity = ?, status = ?, version = version + 1, updated_at = datetime('now')
		WHERE id = ? AND version = ?
	`, p.Quantity, p.Status, lotID, expectedVersion)
	if err != nil {
		return nil, nil, storageErr("update lot", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, nil, storageErr("get rows affected", err)
	}
	if rowsAffected == 0 {
		return nil, nil, domain.ErrConcurrentModification
	}

	ev.LotID = lotID
	inserted, err := insertEvent(ctx, tx, ev)
	if err != nil {
		return nil, nil, err
	}

	updated, err := scanLot(tx.QueryRowContext(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = ?`, lotID))
	if err != nil {
		return nil, nil, storageErr("read back lot", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, storageErr("commit", err)
	}

	return updated, inserted, nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, ev domain.Event) (*domain.Event, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO events (lot_id, action, quantity_delta, occurred_at, actor)
		VALUES (?, ?, ?, ?, ?)
	`, ev.LotID, ev.Action, ev.QuantityDelta, ev.OccurredAt, ev.Actor)
	if err != nil {
		return nil, storageErr("insert event", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, storageErr("get event id", err)
	}
	ev.ID = id
	return &ev, nil
}
