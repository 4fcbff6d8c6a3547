// Package validate reports problems in a log corpus and in a stored impulse
// journal without modifying either.
package validate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"impuls/internal/impulse"
	"impuls/internal/logarchive"
	"impuls/internal/logtags"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeReadFailed       = "read_failed"
	codeEmptyDocument    = "empty_document"
	codeNotATagLine      = "not_a_tag_line"
	codeNoPrimaryTag     = "no_primary_tag"
	codeMissingLogID     = "missing_log_id"
	codeUnknownLogID     = "unknown_log_id"
	codeDuplicateLogID   = "duplicate_log_id"
	codeUnknownTags      = "unknown_tags"
	codeInvalidImpulse   = "invalid_impulse"
	codeMissingID        = "missing_impulse_id"
	codeDuplicateImpulse = "duplicate_impulse_id"
	codeTimeRegression   = "timestamp_regression"
	codeMetaRecomputed   = "meta_recomputed"
)

type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Entity   string   `json:"entity,omitempty"`
	FilePath string   `json:"filePath,omitempty"`
}

type Report struct {
	Checked int     `json:"checked"`
	Issues  []Issue `json:"issues"`
}

func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarn)
}

func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

func (r *Report) filter(severity Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

func (r *Report) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// Corpus checks every document the loader would pick up in dir. Documents the
// loader would skip are reported as errors, everything it would load but
// looks suspicious as a warning.
func Corpus(ctx context.Context, loader *logarchive.Loader, dir string) (*Report, error) {
	files, dirErrs, err := loader.Files(dir)
	if err != nil {
		return nil, err
	}

	report := &Report{Issues: []Issue{}}
	for _, err := range dirErrs {
		rel := ""
		var de *logarchive.DirError
		if errors.As(err, &de) {
			rel = relPath(dir, de.Path)
		}
		report.add(Issue{
			Severity: SeverityError,
			Code:     codeReadFailed,
			Message:  fmt.Sprintf("cannot read directory: %v", err),
			FilePath: rel,
		})
	}
	kernel := loader.Kernel()
	seen := make(map[string]string)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Checked++
		rel := relPath(dir, path)

		data, err := os.ReadFile(path)
		if err != nil {
			report.add(Issue{
				Severity: SeverityError,
				Code:     codeReadFailed,
				Message:  fmt.Sprintf("cannot read file: %v", err),
				FilePath: rel,
			})
			continue
		}

		entry, err := kernel.ParseFile(path, string(data))
		if err != nil {
			report.add(Issue{
				Severity: SeverityError,
				Code:     parseCode(err),
				Message:  err.Error(),
				FilePath: rel,
			})
			continue
		}

		if entry.ID == logarchive.UnknownID {
			report.add(Issue{
				Severity: SeverityWarn,
				Code:     codeUnknownLogID,
				Message:  "document has no LOG-ID value",
				FilePath: rel,
			})
		} else if first, ok := seen[entry.ID]; ok {
			report.add(Issue{
				Severity: SeverityWarn,
				Code:     codeDuplicateLogID,
				Message:  fmt.Sprintf("LOG-ID already used by %s", first),
				Entity:   entry.ID,
				FilePath: rel,
			})
		} else {
			seen[entry.ID] = rel
		}

		if len(entry.Header.Other) > 0 {
			report.add(Issue{
				Severity: SeverityWarn,
				Code:     codeUnknownTags,
				Message:  fmt.Sprintf("unrecognized tags: %v", entry.Header.Other),
				Entity:   entry.ID,
				FilePath: rel,
			})
		}
	}

	return report, nil
}

// Impulses checks stored records as they would be loaded into a journal.
func Impulses(records []impulse.Record) *Report {
	report := &Report{Issues: []Issue{}}
	ids := make(map[string]int, len(records))
	var last time.Time

	for i, r := range records {
		report.Checked++
		entity := r.ID
		if entity == "" {
			entity = fmt.Sprintf("#%d", i)
			report.add(Issue{
				Severity: SeverityError,
				Code:     codeMissingID,
				Message:  "impulse has no id",
				Entity:   entity,
			})
		} else if prev, ok := ids[r.ID]; ok {
			report.add(Issue{
				Severity: SeverityError,
				Code:     codeDuplicateImpulse,
				Message:  fmt.Sprintf("id already used by record %d", prev),
				Entity:   entity,
			})
		} else {
			ids[r.ID] = i
		}

		e, err := impulse.Normalize(r)
		if err != nil {
			report.add(Issue{
				Severity: SeverityError,
				Code:     codeInvalidImpulse,
				Message:  err.Error(),
				Entity:   entity,
			})
			continue
		}

		if r.Meta == nil || *r.Meta != e.Meta {
			report.add(Issue{
				Severity: SeverityWarn,
				Code:     codeMetaRecomputed,
				Message:  "stored meta is missing or incomplete and will be recomputed",
				Entity:   entity,
			})
		}
		if e.Timestamp.Before(last) {
			report.add(Issue{
				Severity: SeverityWarn,
				Code:     codeTimeRegression,
				Message:  fmt.Sprintf("timestamp %s is earlier than its predecessor", e.Timestamp.Format(time.RFC3339)),
				Entity:   entity,
			})
		} else {
			last = e.Timestamp
		}
	}

	return report
}

// Sort orders issues by severity, then file and code, for stable output.
func (r *Report) Sort() {
	sort.SliceStable(r.Issues, func(i, j int) bool {
		a, b := r.Issues[i], r.Issues[j]
		if a.Severity != b.Severity {
			return a.Severity == SeverityError
		}
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		return a.Code < b.Code
	})
}

func parseCode(err error) string {
	switch {
	case errors.Is(err, logarchive.ErrEmptyDocument):
		return codeEmptyDocument
	case errors.Is(err, logtags.ErrNotATagLine), errors.Is(err, logtags.ErrNoTokens):
		return codeNotATagLine
	case errors.Is(err, logtags.ErrNoPrimaryTag):
		return codeNoPrimaryTag
	case errors.Is(err, logarchive.ErrMissingLogID):
		return codeMissingLogID
	}
	return codeReadFailed
}

func relPath(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
