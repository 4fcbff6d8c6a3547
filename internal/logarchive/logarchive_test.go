package logarchive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"impuls/internal/logtags"
)

const sampleLog = `#MUSIK #Zyklus-1 #Analyse #Test

Ⅰ. LOG-ID
  MUSIK-2024-001

Ⅱ. Kontext
Erster Durchlauf.
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestKernel_Check(t *testing.T) {
	tests := []struct {
		name     string
		kernel   Kernel
		text     string
		wantErr  error
		wantNone bool
	}{
		{name: "valid", text: sampleLog, wantNone: true},
		{name: "leading blank lines", text: "\n\n   \n#IMPULS\nbody", wantNone: true},
		{name: "crlf", text: "#BERUF #Entwurf\r\nI. LOG-ID\r\nB-1\r\n", kernel: Kernel{RequireCompleteSchema: true}, wantNone: true},
		{name: "empty", text: " \n\t\n", wantErr: ErrEmptyDocument},
		{name: "prose first", text: "Hallo\n#IMPULS", wantErr: logtags.ErrNotATagLine},
		{name: "no primary", text: "#Analyse #Test", wantErr: logtags.ErrNoPrimaryTag},
		{name: "schema without marker", text: "#IMPULS\nno id here", kernel: Kernel{RequireCompleteSchema: true}, wantErr: ErrMissingLogID},
		{name: "marker inside a line does not count", text: "#IMPULS\nsee I. LOG-ID below", kernel: Kernel{RequireCompleteSchema: true}, wantErr: ErrMissingLogID},
		{name: "lowercase marker", text: "#IMPULS\ni. log-id\nx", kernel: Kernel{RequireCompleteSchema: true}, wantNone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.kernel.Check(tt.text)
			if tt.wantNone {
				if err != nil {
					t.Fatalf("expected valid content, got %v", err)
				}
				if !tt.kernel.IsValidContent(tt.text) {
					t.Fatalf("expected IsValidContent to agree with Check")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, logtags.ErrParse) {
				t.Fatalf("expected ErrParse family, got %v", err)
			}
			if tt.kernel.IsValidContent(tt.text) {
				t.Fatalf("expected invalid content")
			}
		})
	}
}

func TestKernel_ParseFile(t *testing.T) {
	k := Kernel{}

	t.Run("id after marker", func(t *testing.T) {
		e, err := k.ParseFile("logs/a.md", sampleLog)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if e.ID != "MUSIK-2024-001" {
			t.Fatalf("expected trimmed id, got %q", e.ID)
		}
		if e.RawContent != sampleLog {
			t.Fatalf("expected raw content preserved")
		}
		if e.Header.Primary != logtags.PrimaryMusik || e.Header.Cycle != "#Zyklus-1" {
			t.Fatalf("unexpected header: %#v", e.Header)
		}
		if !e.CreatedAt.IsZero() {
			t.Fatalf("expected zero CreatedAt for text input")
		}
	})

	t.Run("no marker", func(t *testing.T) {
		e, err := k.ParseFile("b.md", "#SCHACH\nbody")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if e.ID != UnknownID {
			t.Fatalf("expected %s, got %q", UnknownID, e.ID)
		}
	})

	t.Run("marker on last line", func(t *testing.T) {
		e, err := k.ParseFile("c.md", "#SCHACH\nI. LOG-ID")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if e.ID != UnknownID {
			t.Fatalf("expected %s, got %q", UnknownID, e.ID)
		}
	})

	t.Run("blank line after marker", func(t *testing.T) {
		e, err := k.ParseFile("d.md", "#SCHACH\nI. LOG-ID\n   \nlater")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if e.ID != UnknownID {
			t.Fatalf("expected %s, got %q", UnknownID, e.ID)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		e, err := k.ParseFile("e.md", "plain text")
		if e != nil || !errors.Is(err, logtags.ErrParse) {
			t.Fatalf("expected parse error, got %v (%v)", err, e)
		}
	})
}

func TestLoader_LoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.md"), sampleLog)
	writeFile(t, filepath.Join(dir, "a.txt"), "#IMPULS #Meta\nI. LOG-ID\nIMP-7\n")
	writeFile(t, filepath.Join(dir, "notes.md"), "just some notes\n")
	writeFile(t, filepath.Join(dir, "readme.rst"), "#IMPULS\n")
	writeFile(t, filepath.Join(dir, "nested", "c.md"), "#BERUF\n")
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "dangling.md")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	loader := NewLoader(Kernel{}, WithLogger(zap.New(core)))

	result, err := loader.LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if filepath.Base(result.Entries[0].FilePath) != "a.txt" || filepath.Base(result.Entries[1].FilePath) != "b.md" {
		t.Fatalf("expected lexical order, got %s, %s", result.Entries[0].FilePath, result.Entries[1].FilePath)
	}
	if result.Entries[0].ID != "IMP-7" {
		t.Fatalf("expected IMP-7, got %q", result.Entries[0].ID)
	}
	if result.Entries[0].CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt from modification time")
	}
	if result.Skipped != 1 {
		t.Fatalf("expected 1 skipped document, got %d", result.Skipped)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0].Error(), "dangling.md") {
		t.Fatalf("expected read error for dangling.md, got %v", result.Errors)
	}
	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.FilterLevelExact(zapcore.WarnLevel).Len())
	}
}

func TestLoader_PatternsAndExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "top.md"), "#MUSIK\n")
	writeFile(t, filepath.Join(dir, "cycle1", "one.md"), "#MUSIK\n")
	writeFile(t, filepath.Join(dir, "drafts", "wip.md"), "#MUSIK\n")

	loader := NewLoader(Kernel{}, WithPatterns("**/*.md"), WithExclude("drafts"))
	files, dirErrs, err := loader.Files(dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dirErrs) != 0 {
		t.Fatalf("expected no directory errors, got %v", dirErrs)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	for _, f := range files {
		if strings.Contains(f, "drafts") {
			t.Fatalf("expected drafts to be excluded, got %s", f)
		}
	}
}

func TestLoader_UnreadableSubdir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read mode 0 directories")
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), sampleLog)
	writeFile(t, filepath.Join(dir, "private", "b.md"), sampleLog)
	private := filepath.Join(dir, "private")
	if err := os.Chmod(private, 0); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(private, 0o755) })

	t.Run("top-level patterns never enter it", func(t *testing.T) {
		result, err := NewLoader(Kernel{}).LoadDir(context.Background(), dir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Entries) != 1 || len(result.Errors) != 0 {
			t.Fatalf("expected 1 entry and no errors, got %d entries, errors %v", len(result.Entries), result.Errors)
		}
	})

	t.Run("recursive patterns collect the failure", func(t *testing.T) {
		result, err := NewLoader(Kernel{}, WithPatterns("**/*.md")).LoadDir(context.Background(), dir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(result.Entries))
		}
		var de *DirError
		if len(result.Errors) != 1 || !errors.As(result.Errors[0], &de) || de.Path != private {
			t.Fatalf("expected a directory error for %s, got %v", private, result.Errors)
		}
	})
}

func TestPatternReaches(t *testing.T) {
	tests := []struct {
		pattern string
		dir     string
		want    bool
	}{
		{"*.md", "nested", false},
		{"**/*.md", "nested/deeper", true},
		{"cycle*/*.md", "cycle1", true},
		{"cycle*/*.md", "cycle1/old", false},
		{"cycle*/*.md", "drafts", false},
		{"a/**/*.md", "a/b/c", true},
		{"{a,b}/*.md", "c", true},
	}

	for _, tt := range tests {
		if got := patternReaches(tt.pattern, tt.dir); got != tt.want {
			t.Fatalf("patternReaches(%q, %q): expected %v, got %v", tt.pattern, tt.dir, tt.want, got)
		}
	}
}

func TestLoader_MissingDir(t *testing.T) {
	loader := NewLoader(Kernel{})
	_, err := loader.LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoader_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "#MUSIK\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(Kernel{}).LoadDir(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
