// Package behavior is the durable event log backing the ranking signals.
// Events land in a single sqlite table; click counts are aggregated on
// demand per query rather than cached.
package behavior

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	// sqlite driver registration.
	_ "github.com/mattn/go-sqlite3"

	"github.com/shopgrid/querykit/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id         TEXT PRIMARY KEY,
	event_type TEXT NOT NULL,
	session_id TEXT NOT NULL,
	product_id TEXT,
	payload    TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_type_product ON events (event_type, product_id);
`

// Repo implements the event store and ranking behavior contracts.
type Repo struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path and prepares the
// schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Repo, error) {
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// The worker is the only writer; a single connection sidesteps
	// sqlite's writer lock contention.
	sqlDB.SetMaxOpenConns(1)

	repo := &Repo{db: sqlDB}
	if err := repo.ensureSchema(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return repo, nil
}

func (r *Repo) ensureSchema() error {
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("create events schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (r *Repo) Close() error {
	return r.db.Close()
}

// Ping checks store availability.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping events db: %w", err)
	}
	return nil
}

// Record persists one event. The product id is lifted out of the payload
// so click aggregation stays a plain indexed query.
func (r *Repo) Record(ctx context.Context, event domain.Event) error {
	var payload []byte
	if event.Payload != nil {
		var err error
		payload, err = json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload for %s: %w", event.ID, err)
		}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, event_type, session_id, product_id, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Type, event.SessionID, productID(event), string(payload), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", event.ID, err)
	}
	return nil
}

// AggregateClicks counts click events per product for the given ids.
// Products without clicks are absent from the result.
func (r *Repo) AggregateClicks(ctx context.Context, productIDs []string) (map[string]int, error) {
	if len(productIDs) == 0 {
		return map[string]int{}, nil
	}

	placeholders := strings.Repeat("?,", len(productIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(
		`SELECT product_id, COUNT(*) FROM events
		 WHERE event_type = ? AND product_id IN (%s)
		 GROUP BY product_id`, placeholders)

	args := make([]any, 0, len(productIDs)+1)
	args = append(args, domain.EventTypeClick)
	for _, id := range productIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate clicks: %w", err)
	}
	defer rows.Close()

	clicks := make(map[string]int, len(productIDs))
	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan click row: %w", err)
		}
		clicks[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate click rows: %w", err)
	}
	return clicks, nil
}

// Metrics returns clicks and impressions per product for the given ids.
func (r *Repo) Metrics(ctx context.Context, productIDs []string) (map[string]domain.BehaviorMetric, error) {
	if len(productIDs) == 0 {
		return map[string]domain.BehaviorMetric{}, nil
	}

	placeholders := strings.Repeat("?,", len(productIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(
		`SELECT product_id, event_type, COUNT(*) FROM events
		 WHERE product_id IN (%s) AND event_type IN (?, ?)
		 GROUP BY product_id, event_type`, placeholders)

	args := make([]any, 0, len(productIDs)+2)
	for _, id := range productIDs {
		args = append(args, id)
	}
	args = append(args, domain.EventTypeClick, domain.EventTypeImpression)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate metrics: %w", err)
	}
	defer rows.Close()

	metrics := make(map[string]domain.BehaviorMetric, len(productIDs))
	for rows.Next() {
		var id, eventType string
		var count int
		if err := rows.Scan(&id, &eventType, &count); err != nil {
			return nil, fmt.Errorf("scan metric row: %w", err)
		}
		m := metrics[id]
		switch eventType {
		case domain.EventTypeClick:
			m.Clicks = count
		case domain.EventTypeImpression:
			m.Impressions = count
		}
		metrics[id] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metric rows: %w", err)
	}
	return metrics, nil
}

func productID(event domain.Event) string {
	if event.Payload == nil {
		return ""
	}
	if id, ok := event.Payload["product_id"].(string); ok {
		return id
	}
	return ""
}
