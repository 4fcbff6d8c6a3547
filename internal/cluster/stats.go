package cluster

import (
	"impuls/internal/logarchive"
	"impuls/internal/logtags"
)

type CycleCount struct {
	Cycle logtags.CycleTag `json:"cycle"`
	Count int              `json:"count"`
}

// LogStats is the log-side counterpart of the impulse statistics.
type LogStats struct {
	Total     int                         `json:"total"`
	Primary   [logtags.NumPrimaries]int   `json:"primary"`
	Process   [logtags.NumProcesses]int   `json:"process"`
	Intensity [logtags.NumIntensities]int `json:"intensity"`
	// Entries without an intensity tag.
	NoIntensity int          `json:"noIntensity"`
	Cycles      []CycleCount `json:"cycles"`

	DominantPrimary *logtags.PrimaryTag `json:"dominantPrimary"`
	DominantProcess *logtags.ProcessTag `json:"dominantProcess"`
}

// Aggregate counts entries per tag. A dominant tag has the strictly greatest
// count; among equal counts the tag seen first in entries wins.
func Aggregate(entries []*logarchive.Entry) LogStats {
	s := LogStats{Total: len(entries), Cycles: []CycleCount{}}

	var primaryFirst [logtags.NumPrimaries]int
	var processFirst [logtags.NumProcesses]int
	seen := 0
	cyclePos := make(map[logtags.CycleTag]int)

	for _, e := range entries {
		h := e.Header
		if i := h.Primary.Index(); i >= 0 {
			seen++
			if s.Primary[i] == 0 {
				primaryFirst[i] = seen
			}
			s.Primary[i]++
		}
		for _, p := range h.Process {
			if i := p.Index(); i >= 0 {
				seen++
				if s.Process[i] == 0 {
					processFirst[i] = seen
				}
				s.Process[i]++
			}
		}
		if i := h.Intensity.Index(); i >= 0 {
			s.Intensity[i]++
		} else {
			s.NoIntensity++
		}
		if h.Cycle != "" {
			i, ok := cyclePos[h.Cycle]
			if !ok {
				i = len(s.Cycles)
				cyclePos[h.Cycle] = i
				s.Cycles = append(s.Cycles, CycleCount{Cycle: h.Cycle})
			}
			s.Cycles[i].Count++
		}
	}

	if i := dominant(s.Primary[:], primaryFirst[:]); i >= 0 {
		p := logtags.Primaries[i]
		s.DominantPrimary = &p
	}
	if i := dominant(s.Process[:], processFirst[:]); i >= 0 {
		p := logtags.Processes[i]
		s.DominantProcess = &p
	}
	return s
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
