// Package logtags parses the hashtag header line that opens every log document.
package logtags

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Header is the classified tag line of a log document.
type Header struct {
	RawLine    string          `json:"rawLine"`
	Primary    PrimaryTag      `json:"primary"`
	Cycle      CycleTag        `json:"cycle,omitempty"`
	Process    []ProcessTag    `json:"process"`
	Intensity  IntensityTag    `json:"intensity,omitempty"`
	Emotion    []EmotionTag    `json:"emotion"`
	Structure  []StructureTag  `json:"structure"`
	MetaSystem []MetaSystemTag `json:"metaSystem"`
	Other      []string        `json:"other"`
}

var (
	ErrParse        = errors.New("parse tag header")
	ErrNotATagLine  = fmt.Errorf("%w: line does not start with #", ErrParse)
	ErrNoTokens     = fmt.Errorf("%w: no tokens", ErrParse)
	ErrNoPrimaryTag = fmt.Errorf("%w: no primary tag", ErrParse)
)

var cyclePattern = regexp.MustCompile(`^#Zyklus-\d+$`)

// Parse classifies every token of line. The first primary tag wins and is
// excluded from the other buckets.
func Parse(line string) (*Header, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return nil, ErrNotATagLine
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) == 0 {
		return nil, ErrNoTokens
	}

	h := &Header{
		RawLine:    trimmed,
		Process:    []ProcessTag{},
		Emotion:    []EmotionTag{},
		Structure:  []StructureTag{},
		MetaSystem: []MetaSystemTag{},
		Other:      []string{},
	}

	primaryAt := -1
	for i, tok := range tokens {
		if p, ok := ParsePrimary(tok); ok {
			h.Primary = p
			primaryAt = i
			break
		}
	}
	if primaryAt < 0 {
		return nil, ErrNoPrimaryTag
	}

	for i, tok := range tokens {
		if i == primaryAt {
			continue
		}
		c := canonical(tok)
		if c == string(h.Primary) {
			continue
		}
		classify(h, tok, c)
	}

	if len(h.Process) == 0 {
		h.Process = append(h.Process, DefaultProcess)
	}
	return h, nil
}

func classify(h *Header, raw, c string) {
	if cyclePattern.MatchString(c) {
		h.Cycle = CycleTag(c)
		return
	}
	if i := indexOf(Intensities[:], c); i >= 0 {
		h.Intensity = Intensities[i]
		return
	}
	if i := indexOf(Processes[:], c); i >= 0 {
		h.Process = appendUnique(h.Process, Processes[i])
		return
	}
	if i := indexOf(Emotions[:], c); i >= 0 {
		h.Emotion = appendUnique(h.Emotion, Emotions[i])
		return
	}
	if i := indexOf(Structures[:], c); i >= 0 {
		h.Structure = appendUnique(h.Structure, Structures[i])
		return
	}
	if i := indexOf(MetaSystems[:], c); i >= 0 {
		h.MetaSystem = appendUnique(h.MetaSystem, MetaSystems[i])
		return
	}
	h.Other = append(h.Other, raw)
}

// Process, emotion, structure and meta-system buckets are sets; a repeated
// token is kept once at its first position.
func appendUnique[T comparable](tags []T, tag T) []T {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}

// HasProcess reports whether p is one of the header's process tags.
func (h *Header) HasProcess(p ProcessTag) bool {
	for _, tag := range h.Process {
		if tag == p {
			return true
		}
	}
	return false
}

// Label renders "<primary>[ · <cycle>]".
func (h *Header) Label() string {
	if h.Cycle == "" {
		return string(h.Primary)
	}
	return string(h.Primary) + " · " + string(h.Cycle)
}
