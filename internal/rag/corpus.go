// Package rag implements the policy retrieval engine: a document corpus
// loader, an in-memory vector index over policy chunks, and a
// conversational engine that answers questions grounded in retrieved
// context.
package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// Chunk is one indexed passage of a policy document
type Chunk struct {
	Source string // originating file name
	Text   string
}

// CorpusLoader reads policy documents from a directory and splits them
// into paragraph-bounded chunks.
type CorpusLoader struct {
	maxChunkSize int
	logger       *zap.Logger
}

// NewCorpusLoader creates a new corpus loader
func NewCorpusLoader(maxChunkSize int, logger *zap.Logger) *CorpusLoader {
	if maxChunkSize <= 0 {
		maxChunkSize = 1200
	}
	return &CorpusLoader{
		maxChunkSize: maxChunkSize,
		logger:       logger,
	}
}

// Load reads every supported document in dir. Plain text and markdown
// are read directly; PDFs go through mupdf text extraction. A file that
// fails to parse is logged and skipped, not fatal.
func (l *CorpusLoader) Load(dir string) ([]Chunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory %s: %w", dir, err)
	}

	var chunks []Chunk
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		var text string

		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".md":
			data, err := os.ReadFile(path)
			if err != nil {
				l.logger.Warn("Failed to read policy document, skipping",
					zap.String("path", path), zap.Error(err))
				continue
			}
			text = string(data)
		case ".pdf":
			text, err = l.extractPDFText(path)
			if err != nil {
				l.logger.Warn("Failed to extract PDF text, skipping",
					zap.String("path", path), zap.Error(err))
				continue
			}
		default:
			continue
		}

		fileChunks := l.split(entry.Name(), text)
		chunks = append(chunks, fileChunks...)

		l.logger.Debug("Policy document loaded",
			zap.String("file", entry.Name()),
			zap.Int("chunks", len(fileChunks)))
	}

	l.logger.Info("Policy corpus loaded",
		zap.String("dir", dir),
		zap.Int("chunks", len(chunks)))
	return chunks, nil
}

// extractPDFText extracts plain text from every page of a PDF
func (l *CorpusLoader) extractPDFText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			l.logger.Warn("Failed to extract PDF page text",
				zap.String("path", path),
				zap.Int("page", page),
				zap.Error(err))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}

// split breaks document text into chunks on paragraph boundaries,
// packing consecutive paragraphs up to maxChunkSize. A single paragraph
// longer than the limit becomes its own chunk rather than being cut.
func (l *CorpusLoader) split(source, text string) []Chunk {
	paragraphs := strings.Split(text, "\n\n")

	var chunks []Chunk
	var current strings.Builder

	flush := func() {
		trimmed := strings.TrimSpace(current.String())
		if trimmed != "" {
			chunks = append(chunks, Chunk{Source: source, Text: trimmed})
		}
		current.Reset()
	}

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+len(p) > l.maxChunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	flush()

	return chunks
}
