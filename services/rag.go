package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"evalhub/config"

	"github.com/philippgille/chromem-go"
)

// Summarizer answers a fixed summarization query over one uploaded PDF using
// retrieval over a persistent local vector index. The index directory is
// append-only and shared across runs; concurrent runs against the same
// directory are unsupported.
type Summarizer struct {
	cfg    *config.Config
	client *ChatClient
}

func NewSummarizer(cfg *config.Config, apiKeyOverride string) *Summarizer {
	return &Summarizer{
		cfg:    cfg,
		client: NewChatClient(cfg, apiKeyOverride),
	}
}

// SummarizePDF extracts the document text, indexes its chunks and runs a
// retrieval-augmented summarization round trip.
func (s *Summarizer) SummarizePDF(ctx context.Context, pdfPath string) (string, error) {
	text, err := extractPDFText(pdfPath, s.cfg.Eval.PdfMinTextLen)
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no recoverable text in PDF")
	}

	chunks := SplitText(text, s.cfg.Rag.ChunkSize, s.cfg.Rag.ChunkOverlap)

	db, err := chromem.NewPersistentDB(s.cfg.Rag.IndexDir, false)
	if err != nil {
		return "", fmt.Errorf("failed to open vector index: %w", err)
	}

	// Embeddings go through the same client, and therefore the same
	// transport trust settings, as chat calls.
	collection, err := db.GetOrCreateCollection("documents", nil, chromem.EmbeddingFunc(s.client.Embed))
	if err != nil {
		return "", fmt.Errorf("failed to open collection: %w", err)
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, chunk := range chunks {
		sum := sha256.Sum256([]byte(chunk))
		docs = append(docs, chromem.Document{
			ID:      hex.EncodeToString(sum[:8]),
			Content: chunk,
		})
	}
	if err := collection.AddDocuments(ctx, docs, 1); err != nil {
		return "", fmt.Errorf("failed to index chunks: %w", err)
	}

	k := s.cfg.Rag.TopK
	if count := collection.Count(); k > count {
		k = count
	}
	query := "key topics, insights and conclusions of the document"
	hits, err := collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return "", fmt.Errorf("retrieval failed: %w", err)
	}

	excerpts := make([]string, 0, len(hits))
	for _, h := range hits {
		excerpts = append(excerpts, h.Content)
	}
	return s.client.Chat(ctx, ComposeSummaryPrompt(excerpts))
}

// SplitText slices text into overlapping chunks of at most chunkSize runes.
// Cuts prefer a newline near the boundary so chunks tend to end on whole
// lines.
func SplitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	runes := []rune(text)
	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, strings.TrimSpace(string(runes[start:])))
			break
		}
		cut := end
		// Scan back a little for a newline to cut on.
		for i := end; i > end-overlap && i > start; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimSpace(string(runes[start:cut])))
		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}

	// Drop empty chunks produced by runs of whitespace.
	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
