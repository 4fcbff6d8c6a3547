// Package diagnose condenses impulse statistics into a summary and asks an
// external language model for a narrative diagnosis of it.
package diagnose

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"impuls/internal/impulse"
	"impuls/internal/stats"
)

type DeltaFSummary struct {
	Avg   *float64 `json:"avg"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Count int      `json:"count"`
}

type LastImpulse struct {
	Timestamp    time.Time            `json:"timestamp"`
	Room         impulse.Room         `json:"room"`
	Zone         impulse.Zone         `json:"zone"`
	DeltaF       float64              `json:"deltaF"`
	ArchivRoom   impulse.ArchivRoom   `json:"archivRoom"`
	ChronikLevel impulse.ChronikLevel `json:"chronikLevel"`
}

// Summary is the payload handed to the model. Every vocabulary key is
// present in the count maps.
type Summary struct {
	Total      int            `json:"total"`
	DeltaF     DeltaFSummary  `json:"deltaF"`
	Zones      map[string]int `json:"zones"`
	Archiv     map[string]int `json:"archiv"`
	Chronik    map[string]int `json:"chronik"`
	LastImpuls *LastImpulse   `json:"lastImpuls"`
}

func NewSummary(s stats.Stats) Summary {
	out := Summary{
		Total:   s.Total,
		DeltaF:  DeltaFSummary{Count: s.DeltaF.Count},
		Zones:   make(map[string]int, impulse.NumZones),
		Archiv:  make(map[string]int, impulse.NumArchivRooms),
		Chronik: make(map[string]int, impulse.NumChronikLevels),
	}
	if s.DeltaF.Count > 0 {
		avg, lo, hi := s.DeltaF.Avg, s.DeltaF.Min, s.DeltaF.Max
		out.DeltaF.Avg, out.DeltaF.Min, out.DeltaF.Max = &avg, &lo, &hi
	}
	for i, z := range impulse.Zones {
		out.Zones[string(z)] = s.Zones[i]
	}
	for i, a := range impulse.ArchivRooms {
		out.Archiv[string(a)] = s.Archiv[i]
	}
	for i, l := range impulse.ChronikLevels {
		out.Chronik[string(l)] = s.Chronik[i]
	}
	if last := s.LastImpulse; last != nil {
		out.LastImpuls = &LastImpulse{
			Timestamp:    last.Timestamp,
			Room:         last.Room,
			Zone:         last.Zone,
			DeltaF:       last.Meta.DeltaF,
			ArchivRoom:   last.Meta.ArchivRoom,
			ChronikLevel: last.Meta.Chronik.Level,
		}
	}
	return out
}

const SystemPrompt = `You are the diagnostic core of the Mastersphere, a reflective framework that
maps everyday impulses onto six rooms and zones. You receive compressed
statistics about a person's logged impulses. Read them as an energetic state,
stay concrete, and never invent numbers that are not in the data.`

// BuildPrompt renders the user message for s.
func BuildPrompt(s Summary) string {
	lines := []string{
		"Analyse the current state of the system based on the following data.",
		"",
		"=== Raw data (compressed diagnosis) ===",
		fmt.Sprintf("Total impulses: %d", s.Total),
		fmt.Sprintf("ΔF: avg=%s, min=%s, max=%s", formatFloat(s.DeltaF.Avg), formatFloat(s.DeltaF.Min), formatFloat(s.DeltaF.Max)),
		"",
		"Zone distribution:",
		indentJSON(s.Zones),
		"",
		"Archive distribution:",
		indentJSON(s.Archiv),
		"",
		"Chronicle distribution:",
		indentJSON(s.Chronik),
		"",
		"Last impulse:",
		indentJSON(s.LastImpuls),
		"",
		"=== Task ===",
		"1) Write a short energetic diagnosis (at most six sentences).",
		"2) Name the dominant zone, the dominant archive room and the dominant chronicle level in your own words.",
		"3) Suggest one to three next steps, concrete and precise.",
	}
	return strings.Join(lines, "\n")
}

func formatFloat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", *v)
}

func indentJSON(v any) string {
	if m, ok := v.(*LastImpulse); ok && m == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
