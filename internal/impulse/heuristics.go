package impulse

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var zoneDeltaFBase = map[Zone]float64{
	ZoneMeta:      0.90,
	ZoneWill:      0.80,
	ZoneMind:      0.65,
	ZoneMeaning:   0.60,
	ZoneEmotion:   0.50,
	ZoneStructure: 0.35,
}

const defaultDeltaFBase = 0.50

// NoteLength counts the characters of the trimmed, NFC-normalized note.
// It counts code points, not UTF-16 units: an emoji is one character here,
// where JavaScript's String.length reports two.
func NoteLength(note string) int {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return 0
	}
	return utf8.RuneCountInString(norm.NFC.String(trimmed))
}

// DeltaF derives the ΔF intensity from the zone base value and the note length.
// Unknown zones use the neutral base. The result is always within [0, 1].
func DeltaF(zone Zone, note string) float64 {
	base, ok := zoneDeltaFBase[zone]
	if !ok {
		base = defaultDeltaFBase
	}
	return clamp01(base + lengthFactor(NoteLength(note)))
}

func lengthFactor(n int) float64 {
	switch {
	case n == 0:
		return -0.05
	case n < 40:
		return 0
	case n < 120:
		return 0.08
	default:
		return 0.16
	}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ArchivRoomFor places an impulse in an archive room. Rules are checked in
// order and the first match wins.
func ArchivRoomFor(zone Zone, deltaF float64, note string) ArchivRoom {
	n := NoteLength(note)
	switch {
	case n == 0:
		return ArchivSchattenSafe
	case zone == ZoneMeta:
		return ArchivNullCodeSaal
	case deltaF >= 0.7:
		return ArchivResonanzSchacht
	case n > 200:
		return ArchivZeitspeicherGalerie
	case deltaF >= 0.4 && deltaF < 0.7:
		return ArchivSphaerenSaelle
	default:
		return ArchivFrequenzBibliothek
	}
}

// ChronikLevelFor derives the chronicle level. A meta impulse with a note
// longer than 80 characters is canon even when it would otherwise be macro.
func ChronikLevelFor(zone Zone, note string) ChronikLevel {
	n := NoteLength(note)
	switch {
	case zone == ZoneMeta && n > 80:
		return LevelCanon
	case n > 200:
		return LevelMacro
	case n > 60:
		return LevelMeso
	default:
		return LevelMicro
	}
}
