// Package ledger provides an append-only history of resource switches.
package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/fuelswitch/internal/eventbus"
)

// EventType represents the type of event in the ledger
type EventType string

const (
	EventSelectionChanged EventType = "selection_changed"
	EventCraftSaved       EventType = "craft_saved"
	EventCraftLoaded      EventType = "craft_loaded"
)

// Entry represents a single event in the ledger
type Entry struct {
	ID        int64
	EventType EventType
	Timestamp time.Time
	Payload   map[string]any
	PartID    string
	PartType  string
}

// Ledger provides append-only event logging
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new Ledger using the provided database connection
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// Append adds a new event to the ledger
func (l *Ledger) Append(eventType EventType, partID, partType string, payload map[string]any) error {
	var payloadJSON []byte
	var err error

	if payload != nil {
		payloadJSON, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
	}

	_, err = l.db.Exec(
		`INSERT INTO event_ledger (event_type, timestamp, payload, part_id, part_type) VALUES (?, ?, ?, ?, ?)`,
		string(eventType), l.now().UTC().Unix(), string(payloadJSON), partID, partType,
	)
	return err
}

// Recent returns the newest entries first.
func (l *Ledger) Recent(limit int) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, event_type, timestamp, payload, part_id, part_type
		FROM event_ledger
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return l.scanEntries(rows)
}

// ForPart returns the newest entries for one part first.
func (l *Ledger) ForPart(partID string, limit int) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, event_type, timestamp, payload, part_id, part_type
		FROM event_ledger
		WHERE part_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, partID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return l.scanEntries(rows)
}

// DeleteOlderThan removes entries older than the specified duration (retention policy)
func (l *Ledger) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := l.now().Add(-retention).Unix()
	result, err := l.db.Exec(`
		DELETE FROM event_ledger WHERE timestamp < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Subscribe records every resources_switched event as selection_changed.
func (l *Ledger) Subscribe(bus *eventbus.Bus) {
	bus.Subscribe(eventbus.EventResourcesSwitched, func(e eventbus.Event) {
		partID, _ := e.Data["part"].(string)
		partType, _ := e.Data["part_type"].(string)
		payload := map[string]any{
			"from":  e.Data["from"],
			"to":    e.Data["selection"],
			"cause": e.Data["cause"],
		}
		if err := l.Append(EventSelectionChanged, partID, partType, payload); err != nil {
			log.Error().Err(err).Str("part", partID).Msg("Failed to record selection change")
		}
	})
}

func (l *Ledger) scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var payloadStr, partID, partType sql.NullString
		var timestamp int64

		err := rows.Scan(&entry.ID, &entry.EventType, &timestamp, &payloadStr, &partID, &partType)
		if err != nil {
			return nil, err
		}

		entry.Timestamp = time.Unix(timestamp, 0).UTC()
		entry.PartID = partID.String
		entry.PartType = partType.String

		if payloadStr.Valid && payloadStr.String != "" {
			entry.Payload = make(map[string]any)
			if err := json.Unmarshal([]byte(payloadStr.String), &entry.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
