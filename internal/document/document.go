// Package document describes the file a user picked before it is uploaded.
package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/ledongthuc/pdf"
)

// Kind is the document family inferred from the file extension.
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindDOCX    Kind = "docx"
	KindText    Kind = "txt"
	KindUnknown Kind = "unknown"
)

const previewRunes = 240

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// Info summarizes a selected file. Pages and Preview are best effort and may
// be empty.
type Info struct {
	Path    string
	Name    string
	Size    int64
	Kind    Kind
	Pages   int
	Preview string
}

// Supported reports whether the compliance service knows how to extract text
// from this kind of file. Unsupported files can still be uploaded.
func (i Info) Supported() bool {
	return i.Kind != KindUnknown
}

// SizeLabel renders Size for humans.
func (i Info) SizeLabel() string {
	return HumanSize(i.Size)
}

// KindOf infers a Kind from a file name.
func KindOf(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDOCX
	case ".txt", ".text", ".md":
		return KindText
	default:
		return KindUnknown
	}
}

// Inspect stats path and gathers a short preview. Only a missing or
// unreadable file is an error; preview extraction failures are ignored.
func Inspect(path string) (Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	if stat.IsDir() {
		return Info{}, fmt.Errorf("%s is a directory", path)
	}
	info := Info{
		Path: path,
		Name: filepath.Base(path),
		Size: stat.Size(),
		Kind: KindOf(path),
	}
	switch info.Kind {
	case KindPDF:
		if pages, text, err := ExtractPDF(path, previewRunes*4); err == nil {
			info.Pages = pages
			info.Preview = clip(text, previewRunes)
		}
	case KindText:
		if text, err := readPrefix(path, previewRunes*4); err == nil {
			info.Preview = clip(text, previewRunes)
		}
	}
	return info, nil
}

// ExtractPDF returns the page count and up to limit bytes of plain text. A
// limit of zero or less extracts everything.
func ExtractPDF(path string, limit int) (pages int, text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse pdf: %v", r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return 0, "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	pages = reader.NumPage()
	content, err := reader.GetPlainText()
	if err != nil {
		return pages, "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	if limit > 0 {
		content = io.LimitReader(content, int64(limit))
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return pages, "", err
	}
	return pages, normalizeWhitespace(builder.String()), nil
}

func readPrefix(path string, limit int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	buf, err := io.ReadAll(io.LimitReader(f, int64(limit)))
	if err != nil {
		return "", err
	}
	return normalizeWhitespace(strings.ToValidUTF8(string(buf), "")), nil
}

func normalizeWhitespace(s string) string {
	return extraneousWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

func clip(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}

// HumanSize formats a byte count with binary units.
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
