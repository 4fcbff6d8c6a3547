// Package cluster indexes log entries by tag and renders cluster reports.
package cluster

import (
	"fmt"
	"sort"
	"strings"

	"impuls/internal/logarchive"
	"impuls/internal/logtags"
)

// Index groups entries three ways. Key slices hold first-seen order.
type Index struct {
	ByPrimary map[logtags.PrimaryTag][]*logarchive.Entry
	ByCycle   map[logtags.CycleTag][]*logarchive.Entry
	ByProcess map[logtags.ProcessTag][]*logarchive.Entry

	PrimaryKeys []logtags.PrimaryTag
	CycleKeys   []logtags.CycleTag
	ProcessKeys []logtags.ProcessTag
}

func Build(entries []*logarchive.Entry) *Index {
	idx := &Index{
		ByPrimary: make(map[logtags.PrimaryTag][]*logarchive.Entry),
		ByCycle:   make(map[logtags.CycleTag][]*logarchive.Entry),
		ByProcess: make(map[logtags.ProcessTag][]*logarchive.Entry),
	}

	for _, e := range entries {
		h := e.Header
		if _, ok := idx.ByPrimary[h.Primary]; !ok {
			idx.PrimaryKeys = append(idx.PrimaryKeys, h.Primary)
		}
		idx.ByPrimary[h.Primary] = append(idx.ByPrimary[h.Primary], e)

		if h.Cycle != "" {
			if _, ok := idx.ByCycle[h.Cycle]; !ok {
				idx.CycleKeys = append(idx.CycleKeys, h.Cycle)
			}
			idx.ByCycle[h.Cycle] = append(idx.ByCycle[h.Cycle], e)
		}

		for _, p := range h.Process {
			if _, ok := idx.ByProcess[p]; !ok {
				idx.ProcessKeys = append(idx.ProcessKeys, p)
			}
			idx.ByProcess[p] = append(idx.ByProcess[p], e)
		}
	}
	return idx
}

// FilterByPrimaryAndCycle keeps entries with the given primary tag, and the
// given cycle unless cycle is empty. Order is preserved.
func FilterByPrimaryAndCycle(entries []*logarchive.Entry, primary logtags.PrimaryTag, cycle logtags.CycleTag) []*logarchive.Entry {
	var out []*logarchive.Entry
	for _, e := range entries {
		if e.Header.Primary != primary {
			continue
		}
		if cycle != "" && e.Header.Cycle != cycle {
			continue
		}
		out = append(out, e)
	}
	return out
}

type ProcessCount struct {
	Tag   logtags.ProcessTag `json:"tag"`
	Count int                `json:"count"`
}

// ProcessDistribution counts process tags, highest count first. Equal counts
// keep first-seen order.
func ProcessDistribution(entries []*logarchive.Entry) []ProcessCount {
	var counts []ProcessCount
	pos := make(map[logtags.ProcessTag]int)
	for _, e := range entries {
		for _, p := range e.Header.Process {
			i, ok := pos[p]
			if !ok {
				i = len(counts)
				pos[p] = i
				counts = append(counts, ProcessCount{Tag: p})
			}
			counts[i].Count++
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

func Summarize(entries []*logarchive.Entry, primary logtags.PrimaryTag, cycle logtags.CycleTag) string {
	target := FilterByPrimaryAndCycle(entries, primary, cycle)
	if len(target) == 0 {
		if cycle != "" {
			return fmt.Sprintf("No logs found for %s in %s.", primary, cycle)
		}
		return fmt.Sprintf("No logs found for %s.", primary)
	}

	header := fmt.Sprintf("Meta cluster: %s", primary)
	if cycle != "" {
		header += " · " + string(cycle)
	}

	dist := ProcessDistribution(target)
	parts := make([]string, 0, len(dist))
	for _, pc := range dist {
		parts = append(parts, fmt.Sprintf("%s×%d", pc.Tag, pc.Count))
	}
	processes := strings.Join(parts, ", ")
	if processes == "" {
		processes = "no process tags"
	}

	return strings.Join([]string{
		header,
		fmt.Sprintf("Log count: %d", len(target)),
		"Process distribution: " + processes,
	}, "\n")
}
