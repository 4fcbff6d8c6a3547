// Package logarchive validates log documents and loads a corpus of them from disk.
package logarchive

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"impuls/internal/logtags"
)

// UnknownID is the entry ID used when a document has no LOG-ID block.
const UnknownID = "UNKNOWN"

var (
	ErrEmptyDocument = fmt.Errorf("%w: empty document", logtags.ErrParse)
	ErrMissingLogID  = fmt.Errorf("%w: missing LOG-ID marker", logtags.ErrParse)
)

// Matches "I. LOG-ID" and "Ⅰ. LOG-ID" (roman numeral one).
var logIDMarker = regexp.MustCompile(`(?i)^\s*[\x{2160}I]\.\s*LOG-ID`)

type Entry struct {
	FilePath   string          `json:"filePath"`
	ID         string          `json:"id"`
	RawContent string          `json:"rawContent"`
	Header     *logtags.Header `json:"tagHeader"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Kernel holds the validation settings shared by the loader and validator.
type Kernel struct {
	RequireCompleteSchema bool
}

// Check returns nil for a valid document, or the logtags.ErrParse class
// error describing why it is not.
func (k Kernel) Check(text string) error {
	_, _, err := k.header(splitLines(text))
	return err
}

func (k Kernel) IsValidContent(text string) bool {
	return k.Check(text) == nil
}

// ParseFile builds an entry from a document. The returned error is always of
// the logtags.ErrParse class so callers can skip the document.
func (k Kernel) ParseFile(path, text string) (*Entry, error) {
	lines := splitLines(text)
	header, markerAt, err := k.header(lines)
	if err != nil {
		return nil, err
	}

	id := UnknownID
	if markerAt >= 0 && markerAt+1 < len(lines) {
		if v := strings.TrimSpace(lines[markerAt+1]); v != "" {
			id = v
		}
	}

	return &Entry{
		FilePath:   path,
		ID:         id,
		RawContent: text,
		Header:     header,
	}, nil
}

func (k Kernel) header(lines []string) (*logtags.Header, int, error) {
	first := ""
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			first = t
			break
		}
	}
	if first == "" {
		return nil, -1, ErrEmptyDocument
	}

	h, err := logtags.Parse(first)
	if err != nil {
		return nil, -1, err
	}

	markerAt := -1
	for i, l := range lines {
		if logIDMarker.MatchString(l) {
			markerAt = i
			break
		}
	}
	if k.RequireCompleteSchema && markerAt < 0 {
		return nil, -1, ErrMissingLogID
	}
	return h, markerAt, nil
}

func splitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
