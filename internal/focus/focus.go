// Package focus recommends where to put attention next based on which rooms
// impulses have been logged in.
package focus

import (
	"fmt"
	"strings"

	"impuls/internal/impulse"
)

type Summary struct {
	Total          int                   `json:"total"`
	Counts         [impulse.NumRooms]int `json:"counts"`
	DominantRoom   *impulse.Room         `json:"dominantRoom"`
	DominantCount  int                   `json:"dominantCount"`
	Current        *impulse.Position     `json:"current"`
	Recommendation string                `json:"recommendation"`
}

var roomLabels = map[impulse.Room]string{
	impulse.RoomImpulseCenter: "Impulse center (meta)",
	impulse.RoomEarth:         "Earth · structure",
	impulse.RoomWater:         "Water · emotion",
	impulse.RoomFire:          "Fire · will",
	impulse.RoomWind:          "Wind · mind",
	impulse.RoomAether:        "Aether · meaning",
}

var advice = map[impulse.Room]string{
	impulse.RoomEarth:         "Recommendation: structure, sort or tidy one or two concrete things today. Stabilize systems instead of opening new construction sites.",
	impulse.RoomWater:         "Recommendation: check in honestly with how your system feels. Leave room for feeling, processing and gentle movement.",
	impulse.RoomFire:          "Recommendation: use the drive for one clear action. Start, finish or transform something that has been calling for a while.",
	impulse.RoomWind:          "Recommendation: analysis, planning, clarity. A good day for thinking, concepts and decisions.",
	impulse.RoomAether:        "Recommendation: put meaning, vision and myth first. Why are you doing all this, and what picture of yourself emerges from it?",
	impulse.RoomImpulseCenter: "Recommendation: meta reflection. Watch the patterns of your impulses before stepping into an element. A good day for overview.",
}

const noTendency = "No clear tendency yet. Start with the element that calls you right now: earth for structure, water for feeling, fire for drive, wind for clarity or aether for meaning."

func Label(r impulse.Room) string {
	if l, ok := roomLabels[r]; ok {
		return l
	}
	return string(r)
}

// Evaluate counts impulses per room and builds a recommendation for the
// dominant one. Ties go to the room declared first. current may be nil.
func Evaluate(impulses []impulse.Enriched, current *impulse.Position) Summary {
	s := Summary{Current: current}
	for _, imp := range impulses {
		if i := imp.Room.Index(); i >= 0 {
			s.Counts[i]++
			s.Total++
		}
	}

	for i, n := range s.Counts {
		if n > s.DominantCount {
			room := impulse.Rooms[i]
			s.DominantRoom = &room
			s.DominantCount = n
		}
	}

	s.Recommendation = recommend(s)
	return s
}

func recommend(s Summary) string {
	if s.DominantRoom == nil {
		return noTendency
	}

	var b strings.Builder
	if s.Current != nil && s.Current.Room != "" {
		fmt.Fprintf(&b, "You are currently in %q (zone: %s). ", Label(s.Current.Room), strings.ToUpper(string(s.Current.Zone)))
	}
	fmt.Fprintf(&b, "Dominant: %s (%d impulses). ", Label(*s.DominantRoom), s.DominantCount)
	b.WriteString(advice[*s.DominantRoom])
	return b.String()
}
