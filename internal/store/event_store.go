package store

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/abelal/pantrylog/internal/domain"
)

// EventStore reads the append-only event log. Writes happen exclusively
// inside LotStore transactions; nothing ever updates or deletes an event
// row.
type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// ListByLot returns a lot's full history, oldest first.
func (s *EventStore) ListByLot(ctx context.Context, lotID int64) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lot_id, action, quantity_delta, occurred_at, actor
		FROM events WHERE lot_id = ? ORDER BY id ASC
	`, lotID)
	if err != nil {
		return nil, storageErr("list events", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var events []domain.Event
	for rows.Next() {
		var ev domain.Event
		if err := rows.Scan(&ev.ID, &ev.LotID, &ev.Action, &ev.QuantityDelta, &ev.OccurredAt, &ev.Actor); err != nil {
			return nil, storageErr("scan event", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate events", err)
	}

	return events, nil
}

// Recent returns the newest events across all lots joined with their food
// item names, newest first. Feeds the activity log view.
func (s *EventStore) Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.lot_id, e.action, e.quantity_delta, e.occurred_at, e.actor, f.name
		FROM events e
		JOIN lots l ON l.id = e.lot_id
		JOIN food_items f ON f.id = l.food_item_id
		ORDER BY e.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, storageErr("list recent events", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var entries []domain.ActivityEntry
	for rows.Next() {
		var entry domain.ActivityEntry
		if err := rows.Scan(&entry.ID, &entry.LotID, &entry.Action, &entry.QuantityDelta,
			&entry.OccurredAt, &entry.Actor, &entry.FoodItemName); err != nil {
			return nil, storageErr("scan recent event", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate recent events", err)
	}

	return entries, nil
}
