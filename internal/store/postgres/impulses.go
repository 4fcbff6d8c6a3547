package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"impuls/internal/impulse"
	"impuls/internal/store"
)

const uniqueViolation = "23505"

func (c *Client) LoadAll(ctx context.Context, namespace string) ([]impulse.Record, error) {
	rows, err := c.pool.Query(ctx, `
SELECT id, timestamp, room, zone, note, COALESCE(meta::text, '')
FROM impulses
WHERE namespace = $1
ORDER BY seq
`, namespace)
	if err != nil {
		return nil, fmt.Errorf("query impulses: %w", err)
	}

	rowsOut, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Row, error) {
		var r store.Row
		err := row.Scan(&r.ID, &r.Timestamp, &r.Room, &r.Zone, &r.Note, &r.Meta)
		r.Timestamp = r.Timestamp.UTC()
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning impulses: %w", err)
	}

	records := make([]impulse.Record, 0, len(rowsOut))
	for _, r := range rowsOut {
		rec, err := r.Record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *Client) Append(ctx context.Context, namespace string, imp impulse.Enriched) error {
	row, err := store.RowFromEnriched(imp)
	if err != nil {
		return err
	}

	_, err = c.pool.Exec(ctx, `
INSERT INTO impulses (namespace, id, timestamp, room, zone, note, meta)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
`,
		namespace,
		row.ID,
		row.Timestamp,
		row.Room,
		row.Zone,
		row.Note,
		row.Meta,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("appending %s: %w", row.ID, store.ErrDuplicateID)
		}
		return fmt.Errorf("appending impulse: %w", err)
	}
	return nil
}
