package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"evalhub/models"

	"github.com/klauspost/compress/zip"
)

// writeTestZip builds a zip at a temp path from name -> content pairs.
func writeTestZip(t *testing.T, files map[string][]byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry %s: %v", name, err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("Failed to write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}

	path := filepath.Join(t.TempDir(), "submission.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write zip file: %v", err)
	}
	return path
}

func TestExtractArchiveUnsupportedOnly(t *testing.T) {
	path := writeTestZip(t, map[string][]byte{
		"data.bin":  {0x00, 0x01, 0x02},
		"image.xyz": []byte("whatever"),
	})

	sub, err := ExtractArchive(path, "team", 20)
	if err != nil {
		t.Fatalf("Unsupported files must not fail extraction: %v", err)
	}
	if len(sub.Files) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(sub.Files))
	}
	for _, block := range sub.Files {
		if block.Category != models.CategorySkipped {
			t.Errorf("Expected SKIPPED for %s, got %q", block.Name, block.Category)
		}
	}

	text := RenderSubmissionText(sub)
	if strings.Count(text, "- SKIPPED]") != 2 {
		t.Errorf("Expected one skipped marker per file, got: %q", text)
	}
}

func TestExtractArchiveUndecodableFileContinues(t *testing.T) {
	path := writeTestZip(t, map[string][]byte{
		"bad.py":   {0xff, 0xfe, 0x80, 0x81},
		"notes.md": []byte("# Project notes\nworks fine"),
	})

	sub, err := ExtractArchive(path, "team", 20)
	if err != nil {
		t.Fatalf("A bad file must not abort the archive: %v", err)
	}

	text := RenderSubmissionText(sub)
	if !strings.Contains(text, "[FILE: bad.py - ERROR]") {
		t.Errorf("Expected an error marker naming bad.py, got: %q", text)
	}
	if !strings.Contains(text, "[FILE: notes.md]\n# Project notes") {
		t.Errorf("Expected the readable file to be extracted, got: %q", text)
	}
}

func TestExtractArchiveCategories(t *testing.T) {
	path := writeTestZip(t, map[string][]byte{
		"src/main.py": []byte("print('hi')"),
		"demo.mp4":    []byte("not really a video"),
		"readme.txt":  []byte("hello"),
	})

	sub, err := ExtractArchive(path, "team", 20)
	if err != nil {
		t.Fatalf("ExtractArchive failed: %v", err)
	}

	got := map[string]string{}
	for _, b := range sub.Files {
		got[b.Name] = b.Category
	}
	if got["main.py"] != models.CategoryCode {
		t.Errorf("Expected main.py -> CODE, got %q", got["main.py"])
	}
	if got["demo.mp4"] != models.CategoryVideo {
		t.Errorf("Expected demo.mp4 -> VIDEO, got %q", got["demo.mp4"])
	}
	if got["readme.txt"] != "" {
		t.Errorf("Expected readme.txt -> plain note, got %q", got["readme.txt"])
	}

	text := RenderSubmissionText(sub)
	if !strings.Contains(text, "[FILE: main.py - CODE]\nprint('hi')") {
		t.Errorf("Expected code block with marker, got: %q", text)
	}
	if !strings.Contains(text, "textual content not extracted") {
		t.Errorf("Expected video placeholder note, got: %q", text)
	}
}

func TestExtractArchiveDeterministicOrder(t *testing.T) {
	files := map[string][]byte{
		"b.txt": []byte("second"),
		"a.txt": []byte("first"),
		"c.txt": []byte("third"),
	}
	path := writeTestZip(t, files)

	sub, err := ExtractArchive(path, "team", 20)
	if err != nil {
		t.Fatalf("ExtractArchive failed: %v", err)
	}

	var names []string
	for _, b := range sub.Files {
		names = append(names, b.Name)
	}
	want := []string{"a.txt", "b.txt", "c.txt"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("Expected lexical traversal order %v, got %v", want, names)
		}
	}
}

func TestExtractArchiveRejectsEscapingEntries(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateRaw(&zip.FileHeader{Name: "../escape.txt", Method: zip.Store})
	if err != nil {
		t.Fatalf("Failed to create raw entry: %v", err)
	}
	if _, err := w.Write([]byte("nope")); err != nil {
		t.Fatalf("Failed to write raw entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	path := filepath.Join(t.TempDir(), "evil.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write zip: %v", err)
	}

	if _, err := ExtractArchive(path, "team", 20); err == nil {
		t.Errorf("Expected zip-slip entry to be rejected")
	}
}
