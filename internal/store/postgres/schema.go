package postgres

import (
	"context"
	"fmt"
)

func (c *Client) ensureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS impulses (
    seq        BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    namespace  TEXT NOT NULL,
    id         TEXT NOT NULL,
    timestamp  TIMESTAMPTZ NOT NULL,
    room       TEXT NOT NULL,
    zone       TEXT NOT NULL,
    note       TEXT NOT NULL DEFAULT '',
    meta       JSONB,
    created_at TIMESTAMPTZ DEFAULT now(),
    CONSTRAINT uq_impulse_ns_id UNIQUE (namespace, id)
);

CREATE INDEX IF NOT EXISTS idx_impulses_ns_seq ON impulses (namespace, seq);
`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
