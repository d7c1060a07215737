// Package history persists the audit trail of order status changes.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded status change.
type Entry struct {
	OrderID    uuid.UUID `json:"order_id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  string    `json:"changed_by"`
	ChangedAt  time.Time `json:"changed_at"`
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// Append records one status change.
func (r *Repo) Append(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO order_status_log (order_id, from_status, to_status, changed_by, changed_at)
VALUES ($1, $2, $3, $4, $5)
`, e.OrderID, nullIfEmpty(e.FromStatus), e.ToStatus, e.ChangedBy, e.ChangedAt)
	if err != nil {
		return fmt.Errorf("insert status log entry: %w", err)
	}
	return nil
}

// Timeline returns the recorded changes for one order, oldest first.
func (r *Repo) Timeline(ctx context.Context, orderID uuid.UUID, limit, offset int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT order_id, COALESCE(from_status, ''), to_status, changed_by, changed_at
FROM order_status_log
WHERE order_id = $1
ORDER BY changed_at ASC, id ASC
LIMIT $2 OFFSET $3
`, orderID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query order timeline: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.OrderID, &e.FromStatus, &e.ToStatus, &e.ChangedBy, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan timeline row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
