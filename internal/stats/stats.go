// Package stats aggregates an impulse sequence into dashboard statistics.
package stats

import (
	"math"

	"impuls/internal/impulse"
)

type DeltaF struct {
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Stats is computed from a snapshot and never updated in place. Counter
// arrays are indexed by the vocabulary's declaration order.
type Stats struct {
	Total   int
	DeltaF  DeltaF
	Rooms   [impulse.NumRooms]int
	Zones   [impulse.NumZones]int
	Archiv  [impulse.NumArchivRooms]int
	Chronik [impulse.NumChronikLevels]int

	DominantZone   *impulse.Zone
	DominantArchiv *impulse.ArchivRoom
	DominantLevel  *impulse.ChronikLevel

	LastImpulse *impulse.Enriched
}

func (s Stats) ZoneCount(z impulse.Zone) int {
	if i := z.Index(); i >= 0 {
		return s.Zones[i]
	}
	return 0
}

func (s Stats) ArchivCount(a impulse.ArchivRoom) int {
	if i := a.Index(); i >= 0 {
		return s.Archiv[i]
	}
	return 0
}

func (s Stats) LevelCount(l impulse.ChronikLevel) int {
	if i := l.Index(); i >= 0 {
		return s.Chronik[i]
	}
	return 0
}

func (s Stats) RoomCount(r impulse.Room) int {
	if i := r.Index(); i >= 0 {
		return s.Rooms[i]
	}
	return 0
}

// Aggregate computes statistics over impulses, oldest first. A dominant key
// has the strictly greatest count; among equal counts the key whose first
// occurrence comes earliest in impulses wins. An empty input yields zero
// stats with no dominants and no last impulse.
func Aggregate(impulses []impulse.Enriched) Stats {
	var s Stats
	s.Total = len(impulses)
	if s.Total == 0 {
		return s
	}

	var (
		zoneFirst   [impulse.NumZones]int
		archivFirst [impulse.NumArchivRooms]int
		levelFirst  [impulse.NumChronikLevels]int
		sum         float64
	)
	s.DeltaF.Min = math.Inf(1)
	s.DeltaF.Max = math.Inf(-1)

	for n, imp := range impulses {
		d := imp.Meta.DeltaF
		sum += d
		s.DeltaF.Min = math.Min(s.DeltaF.Min, d)
		s.DeltaF.Max = math.Max(s.DeltaF.Max, d)
		s.DeltaF.Count++

		if i := imp.Room.Index(); i >= 0 {
			s.Rooms[i]++
		}
		countAt(s.Zones[:], zoneFirst[:], imp.Zone.Index(), n)
		countAt(s.Archiv[:], archivFirst[:], imp.Meta.ArchivRoom.Index(), n)
		countAt(s.Chronik[:], levelFirst[:], imp.Meta.Chronik.Level.Index(), n)
	}
	s.DeltaF.Avg = sum / float64(s.DeltaF.Count)

	if i := dominant(s.Zones[:], zoneFirst[:]); i >= 0 {
		z := impulse.Zones[i]
		s.DominantZone = &z
	}
	if i := dominant(s.Archiv[:], archivFirst[:]); i >= 0 {
		a := impulse.ArchivRooms[i]
		s.DominantArchiv = &a
	}
	if i := dominant(s.Chronik[:], levelFirst[:]); i >= 0 {
		l := impulse.ChronikLevels[i]
		s.DominantLevel = &l
	}

	last := impulses[len(impulses)-1]
	s.LastImpulse = &last
	return s
}

// AggregateRecords normalizes stored records and aggregates them. The
// normalized sequence is returned alongside the stats.
func AggregateRecords(records []impulse.Record) (Stats, []impulse.Enriched, error) {
	enriched, err := impulse.NormalizeAll(records)
	if err != nil {
		return Stats{}, nil, err
	}
	return Aggregate(enriched), enriched, nil
}

func countAt(counts, first []int, i, n int) {
	if i < 0 {
		return
	}
	if counts[i] == 0 {
		first[i] = n
	}
	counts[i]++
}

func dominant(counts, first []int) int {
	best := -1
	for i, c := range counts {
		if c == 0 {
			continue
		}
		if best < 0 || c > counts[best] || (c == counts[best] && first[i] < first[best]) {
			best = i
		}
	}
	return best
}
