package store

import (
	"encoding/json"
	"fmt"
	"time"

	"impuls/internal/impulse"
)

// Row is the column layout shared by the relational adapters. Meta is the
// JSON encoding of impulse.Meta, empty for rows written without one.
type Row struct {
	ID        string
	Timestamp time.Time
	Room      string
	Zone      string
	Note      string
	Meta      string
}

func RowFromEnriched(imp impulse.Enriched) (Row, error) {
	meta, err := json.Marshal(imp.Meta)
	if err != nil {
		return Row{}, fmt.Errorf("marshaling meta: %w", err)
	}
	return Row{
		ID:        imp.ID,
		Timestamp: imp.Timestamp.UTC(),
		Room:      string(imp.Room),
		Zone:      string(imp.Zone),
		Note:      imp.Note,
		Meta:      string(meta),
	}, nil
}

// Record decodes a row, mapping legacy room, zone and meta spellings to the
// canonical vocabulary.
func (r Row) Record() (impulse.Record, error) {
	rec := impulse.Record{Impulse: impulse.Impulse{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		Note:      r.Note,
	}}
	if err := rec.Room.UnmarshalText([]byte(r.Room)); err != nil {
		return impulse.Record{}, err
	}
	if err := rec.Zone.UnmarshalText([]byte(r.Zone)); err != nil {
		return impulse.Record{}, err
	}
	if r.Meta != "" {
		var meta impulse.Meta
		if err := json.Unmarshal([]byte(r.Meta), &meta); err != nil {
			return impulse.Record{}, fmt.Errorf("decoding meta of %s: %w", r.ID, err)
		}
		rec.Meta = &meta
	}
	return rec, nil
}
