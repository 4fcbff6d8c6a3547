// Package store defines the persistence port for the impulse log.
package store

import (
	"context"
	"errors"

	"impuls/internal/impulse"
)

// DefaultNamespace is the key the impulse log has always been stored under.
const DefaultNamespace = "impuls_log_atoms"

var ErrDuplicateID = errors.New("impulse id already stored")

// Store is an append-only, ordered impulse log partitioned by namespace.
type Store interface {
	// LoadAll returns every record in the namespace, oldest first.
	LoadAll(ctx context.Context, namespace string) ([]impulse.Record, error)
	Append(ctx context.Context, namespace string, imp impulse.Enriched) error
	Close(ctx context.Context) error
}
