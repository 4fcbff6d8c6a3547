package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"impuls/internal/impulse"
	"impuls/internal/stats"
)

const barWidth = 24

var (
	accentColor = lipgloss.Color("#8BC34A")
	barColor    = lipgloss.Color("#4db6ac")
	mutedColor  = lipgloss.Color("#6b7280")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	headingStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Width(24)
	barStyle     = lipgloss.NewStyle().Foreground(barColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
)

func renderStats(s stats.Stats) string {
	sections := []string{
		titleStyle.Render(fmt.Sprintf("Impulses: %d", s.Total)),
	}
	if s.Total == 0 {
		sections = append(sections, mutedStyle.Render("No impulses registered yet."))
		return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	}

	sections = append(sections,
		fmt.Sprintf("ΔF  avg %.3f  min %.3f  max %.3f", s.DeltaF.Avg, s.DeltaF.Min, s.DeltaF.Max),
		headingStyle.Render("Zones"),
		renderBars(labels(impulse.Zones[:]), s.Zones[:], dominantLabel(s.DominantZone)),
		headingStyle.Render("Archive rooms"),
		renderBars(labels(impulse.ArchivRooms[:]), s.Archiv[:], dominantLabel(s.DominantArchiv)),
		headingStyle.Render("Chronicle levels"),
		renderBars(labels(impulse.ChronikLevels[:]), s.Chronik[:], dominantLabel(s.DominantLevel)),
	)
	if last := s.LastImpulse; last != nil {
		sections = append(sections,
			headingStyle.Render("Last impulse"),
			fmt.Sprintf("%s  %s/%s  ΔF=%.2f  %s  %s",
				last.Timestamp.Local().Format(time.DateTime),
				last.Room, last.Zone, last.Meta.DeltaF, last.Meta.ArchivRoom, last.Meta.Chronik.Level),
		)
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func renderBars(names []string, counts []int, dominant string) string {
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}

	rows := make([]string, 0, len(names))
	for i, name := range names {
		width := 0
		if peak > 0 {
			width = counts[i] * barWidth / peak
		}
		label := labelStyle.Render(name)
		if name == dominant {
			label = labelStyle.Foreground(accentColor).Render(name)
		}
		rows = append(rows, fmt.Sprintf("%s %s %d", label, barStyle.Render(strings.Repeat("█", width)), counts[i]))
	}
	return strings.Join(rows, "\n")
}

func labels[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func dominantLabel[T ~string](v *T) string {
	if v == nil {
		return ""
	}
	return string(*v)
}
