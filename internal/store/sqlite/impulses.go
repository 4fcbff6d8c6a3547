package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"impuls/internal/impulse"
	"impuls/internal/store"
)

func (c *Client) LoadAll(ctx context.Context, namespace string) ([]impulse.Record, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT id, timestamp, room, zone, note, meta FROM impulses
	WHERE namespace = ?
	ORDER BY seq
	`, namespace)
	if err != nil {
		return nil, fmt.Errorf("query impulses: %w", err)
	}
	defer rows.Close()

	var records []impulse.Record
	for rows.Next() {
		var (
			row  store.Row
			ts   string
			meta sql.NullString
		)
		if err := rows.Scan(&row.ID, &ts, &row.Room, &row.Zone, &row.Note, &meta); err != nil {
			return nil, fmt.Errorf("scanning impulse: %w", err)
		}
		row.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp of %s: %w", row.ID, err)
		}
		row.Meta = meta.String

		rec, err := row.Record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating impulses: %w", err)
	}
	return records, nil
}

func (c *Client) Append(ctx context.Context, namespace string, imp impulse.Enriched) error {
	row, err := store.RowFromEnriched(imp)
	if err != nil {
		return err
	}

	_, err = c.db.ExecContext(ctx, `
	INSERT INTO impulses (namespace, id, timestamp, room, zone, note, meta)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		namespace,
		row.ID,
		row.Timestamp.Format(time.RFC3339Nano),
		row.Room,
		row.Zone,
		row.Note,
		row.Meta,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("appending %s: %w", row.ID, store.ErrDuplicateID)
		}
		return fmt.Errorf("appending impulse: %w", err)
	}
	return nil
}
