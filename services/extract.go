package services

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"evalhub/models"

	"github.com/klauspost/compress/zip"
)

var codeExtensions = map[string]bool{
	"py": true, "go": true, "js": true, "ts": true,
	"java": true, "c": true, "cpp": true, "rs": true,
}

var videoExtensions = map[string]bool{
	"mp4": true, "mov": true, "mkv": true,
}

// ExtractArchive unpacks one submission bundle into a temporary workspace,
// extracts text from every contained file and returns the per-file blocks.
// The workspace is released unconditionally, including on error. A bad file
// never aborts the run: it becomes an ERROR block and extraction continues.
func ExtractArchive(zipPath, teamName string, pdfMinTextLen int) (*models.Submission, error) {
	tmp, err := os.MkdirTemp("", "evalhub-submission-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := unzip(zipPath, tmp); err != nil {
		return nil, fmt.Errorf("failed to unpack archive: %w", err)
	}

	sub := &models.Submission{
		TeamName:    teamName,
		ArchiveName: filepath.Base(zipPath),
	}

	// WalkDir visits entries in lexical order, so the text that survives a
	// later truncation is deterministic across platforms.
	err = filepath.WalkDir(tmp, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		sub.Files = append(sub.Files, extractFile(path, d.Name(), pdfMinTextLen))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk workspace: %w", err)
	}

	return sub, nil
}

// RenderSubmissionText concatenates the extracted blocks with file-boundary
// markers, e.g. "[FILE: main.py - CODE]".
func RenderSubmissionText(sub *models.Submission) string {
	var sb strings.Builder
	for _, block := range sub.Files {
		sb.WriteString("\n\n")
		if block.Category == "" {
			sb.WriteString(fmt.Sprintf("[FILE: %s]\n", block.Name))
		} else {
			sb.WriteString(fmt.Sprintf("[FILE: %s - %s]\n", block.Name, block.Category))
		}
		sb.WriteString(block.Text)
	}
	return strings.TrimSpace(sb.String())
}

// extractFile dispatches on the file extension. Unsupported extensions are a
// policy decision (SKIPPED), unreadable files a per-file failure (ERROR).
func extractFile(path, name string, pdfMinTextLen int) models.FileBlock {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	switch {
	case codeExtensions[ext]:
		text, err := readTextFile(path)
		if err != nil {
			return errorBlock(name, err)
		}
		return models.FileBlock{Name: name, Category: models.CategoryCode, Text: text}

	case ext == "pdf":
		text, err := extractPDFText(path, pdfMinTextLen)
		if err != nil {
			return errorBlock(name, err)
		}
		return models.FileBlock{Name: name, Category: models.CategoryDocument, Text: text}

	case ext == "docx":
		text, err := extractDocxText(path)
		if err != nil {
			return errorBlock(name, err)
		}
		return models.FileBlock{Name: name, Category: models.CategoryDocument, Text: text}

	case ext == "pptx":
		text, err := extractPptxText(path)
		if err != nil {
			return errorBlock(name, err)
		}
		return models.FileBlock{Name: name, Category: models.CategorySlides, Text: text}

	case ext == "txt" || ext == "md":
		text, err := readTextFile(path)
		if err != nil {
			return errorBlock(name, err)
		}
		return models.FileBlock{Name: name, Text: text}

	case videoExtensions[ext]:
		return models.FileBlock{
			Name:     name,
			Category: models.CategoryVideo,
			Text:     "(Video file detected - textual content not extracted.)",
		}

	default:
		return models.FileBlock{
			Name:     name,
			Category: models.CategorySkipped,
			Text:     "Unsupported file type.",
		}
	}
}

func errorBlock(name string, err error) models.FileBlock {
	return models.FileBlock{
		Name:     name,
		Category: models.CategoryError,
		Text:     fmt.Sprintf("Could not read this file (%v)", err),
	}
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("not valid UTF-8 text")
	}
	return string(data), nil
}

// unzip materializes the archive under dest, refusing entries that would
// escape it.
func unzip(zipPath, dest string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		target := filepath.Join(dest, filepath.Clean(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes workspace: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := writeZipEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func writeZipEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
