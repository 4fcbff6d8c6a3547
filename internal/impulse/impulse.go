// Package impulse models logged impulses and the deterministic heuristics that
// enrich them with ΔF, archive room and chronicle level.
package impulse

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Impulse is a raw logged event before enrichment.
type Impulse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Room      Room      `json:"room"`
	Zone      Zone      `json:"zone"`
	Note      string    `json:"note"`
}

type Chronik struct {
	Level ChronikLevel `json:"level"`
}

// Meta is the derived metadata attached at registration time.
type Meta struct {
	DeltaF float64 `json:"deltaF"`
	// F0Distance mirrors DeltaF until it gets a formula of its own.
	F0Distance float64    `json:"f0Distance"`
	ArchivRoom ArchivRoom `json:"archivRoom"`
	Chronik    Chronik    `json:"chronik"`
}

// UnmarshalJSON decodes a missing or null deltaF as NaN so that the meta
// counts as incomplete and gets recomputed.
func (m *Meta) UnmarshalJSON(data []byte) error {
	type plain Meta
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var present struct {
		DeltaF *float64 `json:"deltaF"`
	}
	if err := json.Unmarshal(data, &present); err != nil {
		return err
	}
	*m = Meta(p)
	if present.DeltaF == nil {
		m.DeltaF = math.NaN()
	}
	return nil
}

func (m *Meta) complete() bool {
	if m == nil {
		return false
	}
	if math.IsNaN(m.DeltaF) || m.DeltaF < 0 || m.DeltaF > 1 {
		return false
	}
	return m.ArchivRoom.Valid() && m.Chronik.Level.Valid()
}

// Record is the stored shape of an impulse. Records written by older
// versions may lack meta or carry a partial one.
type Record struct {
	Impulse
	Meta *Meta `json:"meta,omitempty"`
}

// Enriched is an impulse with meta attached. It is never mutated.
type Enriched struct {
	Impulse
	Meta Meta `json:"meta"`
}

func (e Enriched) Record() Record {
	meta := e.Meta
	return Record{Impulse: e.Impulse, Meta: &meta}
}

// Enrich attaches meta to imp. The zone must belong to the closed vocabulary;
// an impulse carrying only a room gets the mapped zone.
func Enrich(imp Impulse) (Enriched, error) {
	resolved, err := resolve(imp)
	if err != nil {
		return Enriched{}, err
	}
	return Enriched{Impulse: resolved, Meta: computeMeta(resolved.Zone, resolved.Note)}, nil
}

// Normalize turns a stored record into an enriched impulse, keeping a
// complete stored meta and recomputing a missing or partial one.
func Normalize(r Record) (Enriched, error) {
	resolved, err := resolve(r.Impulse)
	if err != nil {
		return Enriched{}, err
	}
	if r.Meta.complete() {
		return Enriched{Impulse: resolved, Meta: *r.Meta}, nil
	}
	return Enriched{Impulse: resolved, Meta: computeMeta(resolved.Zone, resolved.Note)}, nil
}

// NormalizeAll normalizes records in order and stops at the first invalid one.
func NormalizeAll(records []Record) ([]Enriched, error) {
	out := make([]Enriched, 0, len(records))
	for i, r := range records {
		e, err := Normalize(r)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, r.ID, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func computeMeta(zone Zone, note string) Meta {
	deltaF := DeltaF(zone, note)
	return Meta{
		DeltaF:     deltaF,
		F0Distance: deltaF,
		ArchivRoom: ArchivRoomFor(zone, deltaF, note),
		Chronik:    Chronik{Level: ChronikLevelFor(zone, note)},
	}
}

func resolve(imp Impulse) (Impulse, error) {
	if imp.Room != "" && !imp.Room.Valid() {
		return Impulse{}, &VocabularyError{Kind: "room", Value: string(imp.Room)}
	}
	if imp.Zone == "" {
		imp.Zone = imp.Room.Zone()
	}
	if !imp.Zone.Valid() {
		return Impulse{}, &VocabularyError{Kind: "zone", Value: string(imp.Zone)}
	}
	if imp.Room == "" {
		imp.Room = imp.Zone.Room()
	}
	if imp.Room.Zone() != imp.Zone {
		return Impulse{}, fmt.Errorf("%w: room %s maps to %s, got %s", ErrZoneMismatch, imp.Room, imp.Room.Zone(), imp.Zone)
	}
	return imp, nil
}

// Position is the room and zone a user is currently in.
type Position struct {
	Room Room `json:"room"`
	Zone Zone `json:"zone"`
}
